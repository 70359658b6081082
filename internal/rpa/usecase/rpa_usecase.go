package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/allisson/orchestrator/internal/database"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
	"github.com/allisson/orchestrator/internal/rpa/service"
	customValidation "github.com/allisson/orchestrator/internal/validation"
	"github.com/allisson/orchestrator/internal/workflow"
)

// CallbackPath is the route the provider calls when a task finishes.
const CallbackPath = "/v1/rpa/callback"

// providerTokenKey carries the provider credential in outbound requests. It is never persisted.
const providerTokenKey = "token"

// Config holds the automation provider settings used by the use case.
type Config struct {
	ProviderToken   string
	CallbackBaseURL string
	ExportWindow    time.Duration
}

type rpaUseCase struct {
	txManager database.TxManager
	eventRepo EventLogRepository
	provider  service.ProviderClient
	tokens    service.TokenGenerator
	engine    workflow.Engine
	config    Config
	logger    *slog.Logger
}

// NewRPAUseCase creates a new RPAUseCase.
func NewRPAUseCase(
	txManager database.TxManager,
	eventRepo EventLogRepository,
	provider service.ProviderClient,
	tokens service.TokenGenerator,
	engine workflow.Engine,
	config Config,
	logger *slog.Logger,
) RPAUseCase {
	if config.ExportWindow <= 0 {
		config.ExportWindow = 7 * 24 * time.Hour
	}
	return &rpaUseCase{
		txManager: txManager,
		eventRepo: eventRepo,
		provider:  provider,
		tokens:    tokens,
		engine:    engine,
		config:    config,
		logger:    logger,
	}
}

func (r *rpaUseCase) callbackURL() string {
	return strings.TrimRight(r.config.CallbackBaseURL, "/") + CallbackPath
}

// StartTask sends the task with a fresh correlation token and records the outcome.
func (r *rpaUseCase) StartTask(ctx context.Context, input rpaDomain.StartTaskInput) (map[string]any, error) {
	if err := validation.ValidateStruct(&input,
		validation.Field(&input.ProcessID, validation.Required, customValidation.NotBlank),
		validation.Field(&input.TaskType, validation.Required, customValidation.NotBlank),
	); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	token, err := r.tokens.Generate()
	if err != nil {
		return nil, err
	}

	ledgerData := make(map[string]any, len(input.Data)+4)
	for k, v := range input.Data {
		ledgerData[k] = v
	}
	ledgerData[rpaDomain.DataKeyProcessID] = input.ProcessID
	ledgerData[rpaDomain.DataKeyTaskType] = input.TaskType
	ledgerData[rpaDomain.DataKeyCallbackURL] = r.callbackURL()
	ledgerData[rpaDomain.DataKeyCorrelationToken] = token

	request := make(map[string]any, len(ledgerData)+1)
	for k, v := range ledgerData {
		request[k] = v
	}
	request[providerTokenKey] = r.config.ProviderToken

	now := time.Now().UTC()
	response, err := r.provider.SendTask(ctx, request)
	if err != nil {
		r.logger.Error("failed to start automation task",
			slog.String("process_id", input.ProcessID),
			slog.String("task_type", input.TaskType),
			slog.Any("error", err))

		event := rpaDomain.NewEventLog(input.ProcessID, rpaDomain.EventStartError, token, map[string]any{
			rpaDomain.DataKeyError:           err.Error(),
			rpaDomain.DataKeyResponseContent: service.ResponseContent(err),
			rpaDomain.DataKeyRequest:         ledgerData,
		}, now)
		if createErr := r.eventRepo.Create(ctx, event); createErr != nil {
			r.logger.Error("failed to record automation start error",
				slog.String("process_id", input.ProcessID),
				slog.Any("error", createErr))
		}
		return nil, apperrors.Wrap(rpaDomain.ErrProviderUnavailable, err.Error())
	}

	if taskID, ok := response[service.ProviderTaskIDKey]; ok {
		ledgerData[rpaDomain.DataKeyProviderTaskID] = taskID
	}

	event := rpaDomain.NewEventLog(input.ProcessID, rpaDomain.EventStart, token, ledgerData, now)
	if err := r.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	r.logger.Info("automation task started",
		slog.String("process_id", input.ProcessID),
		slog.String("task_type", input.TaskType))

	return response, nil
}

func validateCallback(callback *rpaDomain.Callback) error {
	return validation.ValidateStruct(callback,
		validation.Field(&callback.ProcessID, validation.Required, customValidation.NotBlank),
		validation.Field(&callback.CorrelationToken, validation.Required, customValidation.NotBlank),
		validation.Field(&callback.Status, validation.By(func(value any) error {
			if !value.(rpaDomain.TaskStatus).IsValid() {
				return validation.NewError("validation_invalid_status", "must be 1 or 2")
			}
			return nil
		})),
	)
}

// HandleCallback runs in one transaction holding the START row lock, so concurrent
// duplicates for the same token are serialised and only the first one writes a finish.
func (r *rpaUseCase) HandleCallback(ctx context.Context, callback rpaDomain.Callback) error {
	if err := validateCallback(&callback); err != nil {
		return customValidation.WrapValidationError(err)
	}

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		start, err := r.eventRepo.GetStartForUpdate(ctx, callback.ProcessID, callback.CorrelationToken)
		if err != nil {
			return err
		}

		finished, err := r.eventRepo.HasFinish(ctx, callback.ProcessID, callback.CorrelationToken)
		if err != nil {
			return err
		}
		if finished {
			return rpaDomain.ErrDuplicateCallback
		}

		messageName := rpaDomain.MessageName(start.TaskType())
		engineRequest := workflow.MessageRequest{
			MessageName:       messageName,
			ProcessInstanceID: callback.ProcessID,
			ProcessVariables: workflow.Variables{
				messageName: {Value: callback.Result()},
			},
		}

		eventType := rpaDomain.EventFinish
		data := start.CopyData()
		if err := r.engine.CorrelateMessage(ctx, engineRequest); err != nil {
			r.logger.Error("failed to notify workflow engine",
				slog.String("process_id", callback.ProcessID),
				slog.String("message_name", messageName),
				slog.Any("error", err))

			eventType = rpaDomain.EventFinishWithError
			data[rpaDomain.DataKeyError] = err.Error()
			data[rpaDomain.DataKeyResponseContent] = workflow.ErrorBody(err)
			data[rpaDomain.DataKeyEngineRequest] = engineRequest
		}

		event := rpaDomain.NewEventLog(
			callback.ProcessID,
			eventType,
			callback.CorrelationToken,
			data,
			time.Now().UTC(),
		)
		return r.eventRepo.Create(ctx, event)
	})
	if err != nil {
		if apperrors.Is(err, rpaDomain.ErrInvalidCorrelation) || apperrors.Is(err, rpaDomain.ErrDuplicateCallback) {
			r.logger.Warn("automation callback rejected",
				slog.String("process_id", callback.ProcessID),
				slog.String("reason", err.Error()))
		}
		return err
	}

	return nil
}

// Export writes ledger entries of the last export window as CSV.
func (r *rpaUseCase) Export(ctx context.Context, report rpaDomain.Report, w io.Writer) (int, error) {
	report, err := rpaDomain.ParseReport(string(report))
	if err != nil {
		return 0, err
	}

	since := time.Now().UTC().Add(-r.config.ExportWindow)
	events, err := r.eventRepo.ListSince(ctx, since, report.EventTypes())
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(report.Header()); err != nil {
		return 0, apperrors.Wrap(err, "failed to write csv header")
	}
	for _, event := range events {
		if err := writer.Write(report.Row(event)); err != nil {
			return 0, apperrors.Wrap(err, "failed to write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, apperrors.Wrap(err, "failed to flush csv")
	}

	return len(events), nil
}
