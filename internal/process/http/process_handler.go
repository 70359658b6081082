// Package http provides HTTP handlers for starting workflow processes and logging their events.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/orchestrator/internal/httputil"
	"github.com/allisson/orchestrator/internal/process/http/dto"
	processUseCase "github.com/allisson/orchestrator/internal/process/usecase"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

// ProcessHandler handles HTTP requests for registered processes.
type ProcessHandler struct {
	processUseCase processUseCase.ProcessUseCase
	logger         *slog.Logger
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(processUseCase processUseCase.ProcessUseCase, logger *slog.Logger) *ProcessHandler {
	return &ProcessHandler{
		processUseCase: processUseCase,
		logger:         logger,
	}
}

// RegisterRoutes mounts the process routes on the given group.
func (h *ProcessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/processes", h.ListHandler)
	rg.POST("/processes/:key/start", h.StartHandler)
	rg.POST("/process-events", h.LogEventHandler)
}

// ListHandler returns the registered process keys.
// GET /v1/processes - Returns 200 OK.
func (h *ProcessHandler) ListHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ProcessListResponse{Processes: h.processUseCase.Keys()})
}

// StartHandler starts a process for each subject in the request.
// POST /v1/processes/:key/start - Returns 200 OK with one outcome per subject.
func (h *ProcessHandler) StartHandler(c *gin.Context) {
	var req dto.StartProcessRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	key := c.Param("key")
	outcomes, err := h.processUseCase.Start(c.Request.Context(), key, req.ToSubjects())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOutcomesToResponse(key, outcomes))
}

// LogEventHandler records a process side effect.
// POST /v1/process-events - Returns 201 Created.
func (h *ProcessHandler) LogEventHandler(c *gin.Context) {
	var req dto.LogEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	event, err := h.processUseCase.LogEvent(c.Request.Context(), req.ProcessID, req.EventType, req.EventData)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEventLogToResponse(event))
}
