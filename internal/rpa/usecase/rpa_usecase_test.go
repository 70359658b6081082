package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/orchestrator/internal/database/mocks"
	apperrors "github.com/allisson/orchestrator/internal/errors"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
	"github.com/allisson/orchestrator/internal/rpa/service"
	serviceMocks "github.com/allisson/orchestrator/internal/rpa/service/mocks"
	"github.com/allisson/orchestrator/internal/rpa/usecase/mocks"
	"github.com/allisson/orchestrator/internal/workflow"
	workflowMocks "github.com/allisson/orchestrator/internal/workflow/mocks"
)

type testDeps struct {
	txManager *databaseMocks.MockTxManager
	repo      *mocks.MockEventLogRepository
	provider  *serviceMocks.MockProviderClient
	tokens    *serviceMocks.MockTokenGenerator
	engine    *workflowMocks.MockEngine
}

func newTestUseCase() (RPAUseCase, *testDeps) {
	deps := &testDeps{
		txManager: &databaseMocks.MockTxManager{},
		repo:      &mocks.MockEventLogRepository{},
		provider:  &serviceMocks.MockProviderClient{},
		tokens:    &serviceMocks.MockTokenGenerator{},
		engine:    &workflowMocks.MockEngine{},
	}
	useCase := NewRPAUseCase(
		deps.txManager,
		deps.repo,
		deps.provider,
		deps.tokens,
		deps.engine,
		Config{
			ProviderToken:   "provider-secret",
			CallbackBaseURL: "https://orchestrator.example.com/",
			ExportWindow:    24 * time.Hour,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return useCase, deps
}

func startEvent(taskType string) *rpaDomain.EventLog {
	return rpaDomain.NewEventLog("proc-1", rpaDomain.EventStart, "tok-1", map[string]any{
		rpaDomain.DataKeyTaskType: taskType,
		"customer":                "acme",
	}, time.Now().UTC())
}

func validCallback() rpaDomain.Callback {
	return rpaDomain.Callback{
		ProcessID:        "proc-1",
		CorrelationToken: "tok-1",
		Status:           rpaDomain.TaskCompleted,
		Message:          "done",
		Files:            []rpaDomain.GeneratedFile{{URL: "https://files/x.pdf", FileName: "x.pdf"}},
	}
}

func TestRPAUseCase_StartTask(t *testing.T) {
	ctx := context.Background()
	input := rpaDomain.StartTaskInput{
		ProcessID: "proc-1",
		TaskType:  "genReport",
		Data:      map[string]any{"customer": "acme"},
	}

	t.Run("Success", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.tokens.On("Generate").Return("tok-1", nil)
		deps.provider.On("SendTask", ctx, mock.MatchedBy(func(req map[string]any) bool {
			return req["token"] == "provider-secret" &&
				req["correlation_token"] == "tok-1" &&
				req["callback_url"] == "https://orchestrator.example.com/v1/rpa/callback" &&
				req["process_id"] == "proc-1" &&
				req["task_type"] == "genReport" &&
				req["customer"] == "acme"
		})).Return(map[string]any{"task_id": "prov-7"}, nil)
		deps.repo.On("Create", ctx, mock.MatchedBy(func(e *rpaDomain.EventLog) bool {
			_, hasProviderToken := e.EventData["token"]
			return e.EventType == rpaDomain.EventStart &&
				e.ProcessID == "proc-1" &&
				e.CorrelationToken == "tok-1" &&
				e.EventData[rpaDomain.DataKeyProviderTaskID] == "prov-7" &&
				e.TaskType() == "genReport" &&
				!hasProviderToken
		})).Return(nil)

		response, err := useCase.StartTask(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "prov-7", response["task_id"])
		deps.provider.AssertExpectations(t)
		deps.repo.AssertExpectations(t)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		useCase, deps := newTestUseCase()

		_, err := useCase.StartTask(ctx, rpaDomain.StartTaskInput{ProcessID: " "})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		deps.tokens.AssertNotCalled(t, "Generate")
	})

	t.Run("Error_ProviderFailureRecordsStartError", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		providerErr := &service.ProviderError{StatusCode: 503, Body: "maintenance"}
		deps.tokens.On("Generate").Return("tok-1", nil)
		deps.provider.On("SendTask", ctx, mock.Anything).Return(nil, providerErr)
		deps.repo.On("Create", ctx, mock.MatchedBy(func(e *rpaDomain.EventLog) bool {
			request, ok := e.EventData[rpaDomain.DataKeyRequest].(map[string]any)
			if !ok {
				return false
			}
			_, hasProviderToken := request["token"]
			return e.EventType == rpaDomain.EventStartError &&
				e.EventData[rpaDomain.DataKeyError] == "automation provider returned status 503" &&
				e.EventData[rpaDomain.DataKeyResponseContent] == "maintenance" &&
				!hasProviderToken
		})).Return(nil)

		response, err := useCase.StartTask(ctx, input)

		assert.Nil(t, response)
		assert.ErrorIs(t, err, rpaDomain.ErrProviderUnavailable)
		deps.repo.AssertExpectations(t)
	})

	t.Run("Error_LedgerWriteFailure", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.tokens.On("Generate").Return("tok-1", nil)
		deps.provider.On("SendTask", ctx, mock.Anything).Return(map[string]any{}, nil)
		deps.repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := useCase.StartTask(ctx, input)

		assert.EqualError(t, err, "db down")
	})
}

func TestRPAUseCase_HandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_WritesFinish", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		deps.repo.On("GetStartForUpdate", ctx, "proc-1", "tok-1").Return(startEvent("genReport"), nil)
		deps.repo.On("HasFinish", ctx, "proc-1", "tok-1").Return(false, nil)
		deps.engine.On("CorrelateMessage", ctx, mock.MatchedBy(func(req workflow.MessageRequest) bool {
			value, ok := req.ProcessVariables["result_rpa_genReport"].Value.(map[string]any)
			return req.MessageName == "result_rpa_genReport" &&
				req.ProcessInstanceID == "proc-1" &&
				ok && value["status"] == 1 && value["message"] == "done"
		})).Return(nil)
		deps.repo.On("Create", ctx, mock.MatchedBy(func(e *rpaDomain.EventLog) bool {
			return e.EventType == rpaDomain.EventFinish &&
				e.CorrelationToken == "tok-1" &&
				e.EventData["customer"] == "acme"
		})).Return(nil)

		err := useCase.HandleCallback(ctx, validCallback())

		require.NoError(t, err)
		deps.engine.AssertExpectations(t)
		deps.repo.AssertExpectations(t)
	})

	t.Run("EngineFailure_WritesFinishWithErrorAndSucceeds", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		deps.repo.On("GetStartForUpdate", ctx, "proc-1", "tok-1").Return(startEvent("genReport"), nil)
		deps.repo.On("HasFinish", ctx, "proc-1", "tok-1").Return(false, nil)
		deps.engine.On("CorrelateMessage", ctx, mock.Anything).
			Return(&workflow.EngineError{StatusCode: 500, Body: "engine exploded"})
		deps.repo.On("Create", ctx, mock.MatchedBy(func(e *rpaDomain.EventLog) bool {
			_, hasRequest := e.EventData[rpaDomain.DataKeyEngineRequest]
			return e.EventType == rpaDomain.EventFinishWithError &&
				e.EventData[rpaDomain.DataKeyResponseContent] == "engine exploded" &&
				e.EventData[rpaDomain.DataKeyError] == "workflow engine returned status 500" &&
				hasRequest
		})).Return(nil)

		err := useCase.HandleCallback(ctx, validCallback())

		require.NoError(t, err)
		deps.repo.AssertExpectations(t)
	})

	t.Run("Error_InvalidCorrelation", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		deps.repo.On("GetStartForUpdate", ctx, "proc-1", "tok-1").Return(nil, rpaDomain.ErrInvalidCorrelation)

		err := useCase.HandleCallback(ctx, validCallback())

		assert.ErrorIs(t, err, rpaDomain.ErrInvalidCorrelation)
		deps.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		deps.engine.AssertNotCalled(t, "CorrelateMessage", mock.Anything, mock.Anything)
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		deps.repo.On("GetStartForUpdate", ctx, "proc-1", "tok-1").Return(startEvent("genReport"), nil)
		deps.repo.On("HasFinish", ctx, "proc-1", "tok-1").Return(true, nil)

		err := useCase.HandleCallback(ctx, validCallback())

		assert.ErrorIs(t, err, rpaDomain.ErrDuplicateCallback)
		deps.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		deps.engine.AssertNotCalled(t, "CorrelateMessage", mock.Anything, mock.Anything)
	})

	t.Run("Error_DuplicateDetectedByInsert", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		deps.repo.On("GetStartForUpdate", ctx, "proc-1", "tok-1").Return(startEvent("genReport"), nil)
		deps.repo.On("HasFinish", ctx, "proc-1", "tok-1").Return(false, nil)
		deps.engine.On("CorrelateMessage", ctx, mock.Anything).Return(nil)
		deps.repo.On("Create", ctx, mock.Anything).Return(rpaDomain.ErrDuplicateCallback)

		err := useCase.HandleCallback(ctx, validCallback())

		assert.ErrorIs(t, err, rpaDomain.ErrDuplicateCallback)
	})

	t.Run("Error_InvalidPayload", func(t *testing.T) {
		tests := []struct {
			name     string
			callback rpaDomain.Callback
		}{
			{"MissingProcessID", rpaDomain.Callback{CorrelationToken: "t", Status: rpaDomain.TaskCompleted}},
			{"MissingToken", rpaDomain.Callback{ProcessID: "p", Status: rpaDomain.TaskCompleted}},
			{"UnknownStatus", rpaDomain.Callback{ProcessID: "p", CorrelationToken: "t", Status: 9}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				useCase, deps := newTestUseCase()

				err := useCase.HandleCallback(ctx, tt.callback)

				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				deps.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestRPAUseCase_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Events", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		created := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
		events := []*rpaDomain.EventLog{
			rpaDomain.NewEventLog("p1", rpaDomain.EventStart, "t1", map[string]any{"task_type": "gen"}, created),
			rpaDomain.NewEventLog("p1", rpaDomain.EventFinish, "t1", map[string]any{"task_type": "gen"}, created),
		}
		deps.repo.On("ListSince", ctx, mock.MatchedBy(func(since time.Time) bool {
			return time.Since(since) >= 24*time.Hour && time.Since(since) < 25*time.Hour
		}), rpaDomain.ReportEvents.EventTypes()).Return(events, nil)

		var buf bytes.Buffer
		count, err := useCase.Export(ctx, rpaDomain.ReportEvents, &buf)

		require.NoError(t, err)
		assert.Equal(t, 2, count)

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, rpaDomain.ReportEvents.Header(), records[0])
		assert.Equal(t, []string{"p1", "start", "automation_provider", "gen", "t1", "2026-05-06 07:08:09"}, records[1])
	})

	t.Run("Success_EmptyErrors", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.repo.On("ListSince", ctx, mock.Anything, rpaDomain.ReportErrors.EventTypes()).
			Return([]*rpaDomain.EventLog{}, nil)

		var buf bytes.Buffer
		count, err := useCase.Export(ctx, rpaDomain.ReportErrors, &buf)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, "process_id,event_type,event_source,error,response_content,created_at\n", buf.String())
	})

	t.Run("Error_UnknownReport", func(t *testing.T) {
		useCase, _ := newTestUseCase()

		_, err := useCase.Export(ctx, rpaDomain.Report("all"), io.Discard)

		assert.ErrorIs(t, err, rpaDomain.ErrUnknownReport)
	})

	t.Run("Error_Repository", func(t *testing.T) {
		useCase, deps := newTestUseCase()
		deps.repo.On("ListSince", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := useCase.Export(ctx, rpaDomain.ReportEvents, io.Discard)

		assert.EqualError(t, err, "db down")
	})
}
