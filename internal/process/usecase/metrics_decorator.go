package usecase

import (
	"context"
	"time"

	"github.com/allisson/orchestrator/internal/metrics"
	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

const metricsDomain = "process"

// processUseCaseWithMetrics decorates ProcessUseCase with metrics instrumentation.
type processUseCaseWithMetrics struct {
	next    ProcessUseCase
	metrics metrics.BusinessMetrics
}

// NewProcessUseCaseWithMetrics wraps a ProcessUseCase with metrics recording.
func NewProcessUseCaseWithMetrics(useCase ProcessUseCase, m metrics.BusinessMetrics) ProcessUseCase {
	return &processUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *processUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, p.metrics, metricsDomain, operation, start, err)
}

func (p *processUseCaseWithMetrics) Keys() []string {
	return p.next.Keys()
}

// Start records metrics for the request and one subject_start operation per outcome status.
func (p *processUseCaseWithMetrics) Start(
	ctx context.Context,
	processKey string,
	subjects []processDomain.Subject,
) ([]processDomain.Outcome, error) {
	start := time.Now()
	outcomes, err := p.next.Start(ctx, processKey, subjects)
	p.record(ctx, "process_start", start, err)

	for _, outcome := range outcomes {
		p.metrics.RecordOperation(ctx, metricsDomain, "subject_start", string(outcome.Status))
	}
	return outcomes, err
}

// LogEvent records metrics for process event logging.
func (p *processUseCaseWithMetrics) LogEvent(
	ctx context.Context,
	processID, eventType string,
	data map[string]any,
) (*processDomain.EventLog, error) {
	start := time.Now()
	event, err := p.next.LogEvent(ctx, processID, eventType, data)
	p.record(ctx, "event_log", start, err)
	return event, err
}
