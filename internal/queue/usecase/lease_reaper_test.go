package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"github.com/allisson/orchestrator/internal/queue/usecase/mocks"
)

func TestNewLeaseReaper(t *testing.T) {
	reaper := NewLeaseReaper(LeaseReaperConfig{Interval: time.Second, LeaseTimeout: time.Minute}, &mocks.MockQueueUseCase{}, nil)

	assert.NotNil(t, reaper)
	assert.Equal(t, 100, reaper.config.BatchSize)
}

func TestLeaseReaper_RunOnce(t *testing.T) {
	ctx := context.Background()
	config := LeaseReaperConfig{Interval: time.Second, LeaseTimeout: 30 * time.Minute, BatchSize: 25}

	t.Run("Success", func(t *testing.T) {
		useCase := &mocks.MockQueueUseCase{}
		useCase.On("ReclaimExpiredLeases", ctx, 30*time.Minute, 25).Return(3, nil).Once()

		reaper := NewLeaseReaper(config, useCase, slog.New(slog.DiscardHandler))

		assert.Equal(t, 3, reaper.RunOnce(ctx))
		useCase.AssertExpectations(t)
	})

	t.Run("Error_ReturnsZero", func(t *testing.T) {
		useCase := &mocks.MockQueueUseCase{}
		useCase.On("ReclaimExpiredLeases", ctx, 30*time.Minute, 25).Return(0, errors.New("db down")).Once()

		reaper := NewLeaseReaper(config, useCase, slog.New(slog.DiscardHandler))

		assert.Equal(t, 0, reaper.RunOnce(ctx))
	})
}

func TestLeaseReaper_Start(t *testing.T) {
	defer goleak.VerifyNone(t)

	useCase := &mocks.MockQueueUseCase{}
	ticked := make(chan struct{}, 10)
	useCase.On("ReclaimExpiredLeases", mock.Anything, time.Minute, 100).
		Return(0, nil).
		Run(func(args mock.Arguments) {
			select {
			case ticked <- struct{}{}:
			default:
			}
		})

	reaper := NewLeaseReaper(LeaseReaperConfig{Interval: 10 * time.Millisecond, LeaseTimeout: time.Minute}, useCase, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reaper.Start(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not tick")
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("reaper did not stop")
	}
}
