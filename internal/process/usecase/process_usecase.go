package usecase

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	processDomain "github.com/allisson/orchestrator/internal/process/domain"
	customValidation "github.com/allisson/orchestrator/internal/validation"
	"github.com/allisson/orchestrator/internal/workflow"
)

type processUseCase struct {
	registry  *processDomain.Registry
	engine    workflow.Engine
	eventRepo EventLogRepository
	logger    *slog.Logger
}

// NewProcessUseCase creates a new ProcessUseCase.
func NewProcessUseCase(
	registry *processDomain.Registry,
	engine workflow.Engine,
	eventRepo EventLogRepository,
	logger *slog.Logger,
) ProcessUseCase {
	return &processUseCase{
		registry:  registry,
		engine:    engine,
		eventRepo: eventRepo,
		logger:    logger,
	}
}

func (p *processUseCase) Keys() []string {
	return p.registry.Keys()
}

// Start runs every subject independently; an engine failure for one subject is recorded as
// START_ERROR and does not stop the others. A ledger write failure aborts the request.
func (p *processUseCase) Start(
	ctx context.Context,
	processKey string,
	subjects []processDomain.Subject,
) ([]processDomain.Outcome, error) {
	descriptor, err := p.registry.Lookup(processKey)
	if err != nil {
		return nil, err
	}

	outcomes := make([]processDomain.Outcome, 0, len(subjects))
	for _, subject := range subjects {
		outcome, err := p.startSubject(ctx, descriptor, subject)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (p *processUseCase) startSubject(
	ctx context.Context,
	descriptor processDomain.Descriptor,
	subject processDomain.Subject,
) (processDomain.Outcome, error) {
	outcome := processDomain.Outcome{SubjectID: subject.ID}
	logger := p.logger.With(slog.String("process_key", descriptor.Key), slog.String("subject_id", subject.ID))

	if eligible, reason := descriptor.Eligible(subject); !eligible {
		logger.Info("subject not eligible", slog.String("reason", reason))

		outcome.Status = processDomain.OutcomeSkipped
		outcome.Message = reason
		event := processDomain.NewEventLog(subject.ID, processDomain.EventSkipped, map[string]any{
			"process_key": descriptor.Key,
			"message":     reason,
		}, time.Now().UTC())
		return outcome, p.eventRepo.Create(ctx, event)
	}

	request := workflow.StartRequest{
		BusinessKey: descriptor.BusinessKey(subject),
		Variables:   descriptor.Variables(subject),
	}

	instance, err := p.engine.StartProcess(ctx, descriptor.Key, request)
	if err != nil {
		logger.Error("failed to start process", slog.Any("error", err))

		outcome.Status = processDomain.OutcomeStartError
		outcome.Message = err.Error()
		event := processDomain.NewEventLog(descriptor.Key, processDomain.EventStartError, map[string]any{
			"subject_id":       subject.ID,
			"subject_data":     subject.Data,
			"error":            err.Error(),
			"response_content": workflow.ErrorBody(err),
		}, time.Now().UTC())
		return outcome, p.eventRepo.Create(ctx, event)
	}

	logger.Info("process started", slog.String("instance_id", instance.ID))

	outcome.Status = processDomain.OutcomeStarted
	outcome.InstanceID = instance.ID
	event := processDomain.NewEventLog(instance.ID, processDomain.EventStart, map[string]any{
		"process_key":  descriptor.Key,
		"subject_id":   subject.ID,
		"business_key": request.BusinessKey,
		"variables":    request.Variables,
	}, time.Now().UTC())
	return outcome, p.eventRepo.Create(ctx, event)
}

// LogEvent validates and appends a process event.
func (p *processUseCase) LogEvent(
	ctx context.Context,
	processID, eventType string,
	data map[string]any,
) (*processDomain.EventLog, error) {
	if err := validation.Validate(processID, validation.Required, customValidation.NotBlank); err != nil {
		return nil, customValidation.WrapValidationError(apperrors.Wrap(err, "process_id"))
	}
	if err := validation.Validate(eventType,
		validation.Required,
		customValidation.Identifier,
		validation.Length(1, 64),
	); err != nil {
		return nil, customValidation.WrapValidationError(apperrors.Wrap(err, "event_type"))
	}

	event := processDomain.NewEventLog(processID, eventType, data, time.Now().UTC())
	if err := p.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}
