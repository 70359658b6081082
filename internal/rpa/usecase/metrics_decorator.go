package usecase

import (
	"context"
	"io"
	"time"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	"github.com/allisson/orchestrator/internal/metrics"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
)

const metricsDomain = "rpa"

// rpaUseCaseWithMetrics decorates RPAUseCase with metrics instrumentation.
type rpaUseCaseWithMetrics struct {
	next    RPAUseCase
	metrics metrics.BusinessMetrics
}

// NewRPAUseCaseWithMetrics wraps an RPAUseCase with metrics recording.
func NewRPAUseCaseWithMetrics(useCase RPAUseCase, m metrics.BusinessMetrics) RPAUseCase {
	return &rpaUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *rpaUseCaseWithMetrics) record(ctx context.Context, operation, status string, start time.Time) {
	r.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	r.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// StartTask records metrics for task dispatch.
func (r *rpaUseCaseWithMetrics) StartTask(
	ctx context.Context,
	input rpaDomain.StartTaskInput,
) (map[string]any, error) {
	start := time.Now()
	response, err := r.next.StartTask(ctx, input)

	r.record(ctx, "task_start", metrics.StatusOf(err), start)
	return response, err
}

// HandleCallback records metrics for callbacks. Rejected callbacks are counted apart from errors.
func (r *rpaUseCaseWithMetrics) HandleCallback(ctx context.Context, callback rpaDomain.Callback) error {
	start := time.Now()
	err := r.next.HandleCallback(ctx, callback)

	status := metrics.StatusOf(err)
	switch {
	case apperrors.Is(err, rpaDomain.ErrDuplicateCallback):
		status = "duplicate"
	case apperrors.Is(err, rpaDomain.ErrInvalidCorrelation):
		status = "invalid"
	}
	r.record(ctx, "callback_handle", status, start)
	return err
}

// Export records metrics for audit exports.
func (r *rpaUseCaseWithMetrics) Export(ctx context.Context, report rpaDomain.Report, w io.Writer) (int, error) {
	start := time.Now()
	count, err := r.next.Export(ctx, report, w)

	r.record(ctx, "audit_export", metrics.StatusOf(err), start)
	return count, err
}
