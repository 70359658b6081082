package usecase

import (
	"context"
	"log/slog"
	"time"
)

// LeaseReaperConfig holds lease reaper configuration
type LeaseReaperConfig struct {
	Interval     time.Duration
	LeaseTimeout time.Duration
	BatchSize    int
}

// LeaseReaper periodically returns items held by vanished workers to the retry path.
type LeaseReaper struct {
	config  LeaseReaperConfig
	useCase QueueUseCase
	logger  *slog.Logger
}

// NewLeaseReaper creates a new LeaseReaper
func NewLeaseReaper(config LeaseReaperConfig, useCase QueueUseCase, logger *slog.Logger) *LeaseReaper {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	return &LeaseReaper{
		config:  config,
		useCase: useCase,
		logger:  logger,
	}
}

// Start runs the reclamation loop until ctx is cancelled.
func (r *LeaseReaper) Start(ctx context.Context) error {
	if r.logger != nil {
		r.logger.Info("starting lease reaper",
			slog.Duration("interval", r.config.Interval),
			slog.Duration("lease_timeout", r.config.LeaseTimeout),
			slog.Int("batch_size", r.config.BatchSize),
		)
	}

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.logger != nil {
				r.logger.Info("stopping lease reaper")
			}
			return ctx.Err()
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reclamation pass and returns the number of reclaimed items.
func (r *LeaseReaper) RunOnce(ctx context.Context) int {
	reclaimed, err := r.useCase.ReclaimExpiredLeases(ctx, r.config.LeaseTimeout, r.config.BatchSize)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("failed to reclaim expired leases", slog.Any("error", err))
		}
		return 0
	}

	if reclaimed > 0 && r.logger != nil {
		r.logger.Warn("reclaimed expired leases", slog.Int("count", reclaimed))
	}
	return reclaimed
}
