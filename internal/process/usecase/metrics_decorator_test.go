package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/orchestrator/internal/metrics"
	processDomain "github.com/allisson/orchestrator/internal/process/domain"
	"github.com/allisson/orchestrator/internal/process/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "process", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "process", operation, mock.AnythingOfType("time.Duration"), status).Return().Once()
}

func TestProcessMetricsDecorator_Start(t *testing.T) {
	ctx := context.Background()
	subjects := []processDomain.Subject{{ID: "c1"}, {ID: "c2"}}

	t.Run("RecordsOutcomes", func(t *testing.T) {
		useCase := &mocks.MockProcessUseCase{}
		m := &mockBusinessMetrics{}
		useCase.On("Start", ctx, "p", subjects).Return([]processDomain.Outcome{
			{SubjectID: "c1", Status: processDomain.OutcomeStarted},
			{SubjectID: "c2", Status: processDomain.OutcomeSkipped},
		}, nil)
		expectMetrics(m, ctx, "process_start", "success")
		m.On("RecordOperation", ctx, "process", "subject_start", "started").Return().Once()
		m.On("RecordOperation", ctx, "process", "subject_start", "skipped").Return().Once()

		outcomes, err := NewProcessUseCaseWithMetrics(useCase, m).Start(ctx, "p", subjects)

		assert.NoError(t, err)
		assert.Len(t, outcomes, 2)
		m.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		useCase := &mocks.MockProcessUseCase{}
		m := &mockBusinessMetrics{}
		useCase.On("Start", ctx, "missing", subjects).Return(nil, processDomain.ErrUnknownProcess)
		expectMetrics(m, ctx, "process_start", "error")

		_, err := NewProcessUseCaseWithMetrics(useCase, m).Start(ctx, "missing", subjects)

		assert.ErrorIs(t, err, processDomain.ErrUnknownProcess)
		m.AssertExpectations(t)
	})
}

func TestProcessMetricsDecorator_LogEvent(t *testing.T) {
	ctx := context.Background()
	useCase := &mocks.MockProcessUseCase{}
	m := &mockBusinessMetrics{}
	useCase.On("LogEvent", ctx, "p", "end", map[string]any(nil)).Return(nil, errors.New("db down"))
	expectMetrics(m, ctx, "event_log", "error")

	_, err := NewProcessUseCaseWithMetrics(useCase, m).LogEvent(ctx, "p", "end", nil)

	assert.Error(t, err)
	m.AssertExpectations(t)
}

func TestProcessMetricsDecorator_Keys(t *testing.T) {
	useCase := &mocks.MockProcessUseCase{}
	useCase.On("Keys").Return([]string{"a"})

	assert.Equal(t, []string{"a"}, NewProcessUseCaseWithMetrics(useCase, &mockBusinessMetrics{}).Keys())
}
