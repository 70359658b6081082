// Package http provides HTTP handlers for automation tasks, provider callbacks and audit export.
package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/orchestrator/internal/httputil"
	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
	"github.com/allisson/orchestrator/internal/rpa/http/dto"
	rpaUseCase "github.com/allisson/orchestrator/internal/rpa/usecase"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

const csvSuffix = ".csv"

// RPAHandler handles HTTP requests for automation tasks.
type RPAHandler struct {
	rpaUseCase rpaUseCase.RPAUseCase
	logger     *slog.Logger
}

// NewRPAHandler creates a new automation task handler.
func NewRPAHandler(rpaUseCase rpaUseCase.RPAUseCase, logger *slog.Logger) *RPAHandler {
	return &RPAHandler{
		rpaUseCase: rpaUseCase,
		logger:     logger,
	}
}

// RegisterRoutes mounts the operator routes on the given group.
func (h *RPAHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rpa := rg.Group("/rpa")
	rpa.POST("/tasks", h.StartTaskHandler)
	rpa.GET("/audit/:report", h.ExportHandler)
}

// RegisterCallbackRoute mounts the provider callback. The provider authenticates with the
// correlation token, so only the given middlewares guard it.
func (h *RPAHandler) RegisterCallbackRoute(rg *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	handlers := append(middlewares, h.CallbackHandler)
	rg.POST("/rpa/callback", handlers...)
}

// StartTaskHandler sends a task to the automation provider.
// POST /v1/rpa/tasks - Returns 200 OK with the provider response.
func (h *RPAHandler) StartTaskHandler(c *gin.Context) {
	var req dto.StartTaskRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	response, err := h.rpaUseCase.StartTask(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CallbackHandler accepts a provider callback.
// POST /v1/rpa/callback - Returns 200 OK once accepted, even when the workflow engine could not
// be notified; 404 for an unknown token and 409 for a repeated callback.
func (h *RPAHandler) CallbackHandler(c *gin.Context) {
	var req dto.CallbackRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.rpaUseCase.HandleCallback(c.Request.Context(), req.ToCallback()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CallbackResponse{Message: dto.MessageCallbackAccepted})
}

// ExportHandler streams an audit report as CSV.
// GET /v1/rpa/audit/events.csv or /v1/rpa/audit/errors.csv
func (h *RPAHandler) ExportHandler(c *gin.Context) {
	name := c.Param("report")
	if !strings.HasSuffix(name, csvSuffix) {
		httputil.HandleErrorGin(c, rpaDomain.ErrUnknownReport, h.logger)
		return
	}

	report, err := rpaDomain.ParseReport(strings.TrimSuffix(name, csvSuffix))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var buf bytes.Buffer
	if _, err := h.rpaUseCase.Export(c.Request.Context(), report, &buf); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	filename := fmt.Sprintf("rpa_%s_%s.csv", report, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
