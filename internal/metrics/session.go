package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SessionMetrics records worker session activity on the gateway.
type SessionMetrics interface {
	// SessionOpened increments the number of live sessions for a queue.
	SessionOpened(ctx context.Context, queue string)

	// SessionClosed decrements the number of live sessions for a queue.
	SessionClosed(ctx context.Context, queue string)

	// ActionHandled counts an inbound worker action by outcome ("success" or "error").
	ActionHandled(ctx context.Context, queue, action, status string)
}

type sessionMetrics struct {
	activeSessions metric.Int64UpDownCounter
	actionCounter  metric.Int64Counter
}

// NewSessionMetrics creates a SessionMetrics implementation using the provided meter provider.
func NewSessionMetrics(meterProvider metric.MeterProvider, namespace string) (SessionMetrics, error) {
	meter := meterProvider.Meter(namespace)

	activeSessions, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_worker_sessions_active", namespace),
		metric.WithDescription("Number of connected worker sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active sessions counter: %w", err)
	}

	actionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_worker_actions_total", namespace),
		metric.WithDescription("Total number of worker session actions"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker action counter: %w", err)
	}

	return &sessionMetrics{
		activeSessions: activeSessions,
		actionCounter:  actionCounter,
	}, nil
}

func (s *sessionMetrics) SessionOpened(ctx context.Context, queue string) {
	s.activeSessions.Add(ctx, 1, metric.WithAttributes(attribute.String("queue", queue)))
}

func (s *sessionMetrics) SessionClosed(ctx context.Context, queue string) {
	s.activeSessions.Add(ctx, -1, metric.WithAttributes(attribute.String("queue", queue)))
}

func (s *sessionMetrics) ActionHandled(ctx context.Context, queue, action, status string) {
	s.actionCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("queue", queue),
			attribute.String("action", action),
			attribute.String("status", status),
		),
	)
}

// NoOpSessionMetrics discards session metrics.
type NoOpSessionMetrics struct{}

// NewNoOpSessionMetrics creates a no-op SessionMetrics implementation.
func NewNoOpSessionMetrics() SessionMetrics {
	return &NoOpSessionMetrics{}
}

// SessionOpened does nothing when metrics are disabled.
func (n *NoOpSessionMetrics) SessionOpened(ctx context.Context, queue string) {}

// SessionClosed does nothing when metrics are disabled.
func (n *NoOpSessionMetrics) SessionClosed(ctx context.Context, queue string) {}

// ActionHandled does nothing when metrics are disabled.
func (n *NoOpSessionMetrics) ActionHandled(ctx context.Context, queue, action, status string) {}
