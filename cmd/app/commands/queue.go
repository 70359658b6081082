package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
	queueUseCase "github.com/allisson/orchestrator/internal/queue/usecase"
)

type queueOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func newQueueOutput(queue *queueDomain.Queue) queueOutput {
	return queueOutput{
		ID:          queue.ID,
		Name:        queue.Name,
		Description: queue.Description,
		IsActive:    queue.IsActive,
	}
}

// RunCreateQueue creates a new active queue.
func RunCreateQueue(
	ctx context.Context,
	useCase queueUseCase.QueueUseCase,
	logger *slog.Logger,
	name, description, format string,
	io IOTuple,
) error {
	logger.Info("creating queue", slog.String("name", name))

	queue, err := useCase.CreateQueue(ctx, name, description)
	if err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}

	output := newQueueOutput(queue)
	return writeOutput(io.Writer, format, output, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Queue created: %s (id %d)\n", output.Name, output.ID)
	})
}

// RunToggleQueue pauses an active queue or resumes a paused one.
func RunToggleQueue(
	ctx context.Context,
	useCase queueUseCase.QueueUseCase,
	logger *slog.Logger,
	name, format string,
	io IOTuple,
) error {
	queue, err := useCase.ToggleActive(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to toggle queue: %w", err)
	}

	logger.Info("queue toggled", slog.String("name", name), slog.Bool("is_active", queue.IsActive))

	output := newQueueOutput(queue)
	return writeOutput(io.Writer, format, output, func(w io.Writer) {
		state := "paused"
		if output.IsActive {
			state = "active"
		}
		_, _ = fmt.Fprintf(w, "Queue %s is now %s\n", output.Name, state)
	})
}
