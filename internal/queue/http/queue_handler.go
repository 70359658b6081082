// Package http provides HTTP handlers for queue management and synchronous work item dispatch.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/orchestrator/internal/httputil"
	"github.com/allisson/orchestrator/internal/queue/http/dto"
	queueUseCase "github.com/allisson/orchestrator/internal/queue/usecase"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

// QueueHandler handles HTTP requests for queues and their items.
type QueueHandler struct {
	queueUseCase queueUseCase.QueueUseCase
	logger       *slog.Logger
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(queueUseCase queueUseCase.QueueUseCase, logger *slog.Logger) *QueueHandler {
	return &QueueHandler{
		queueUseCase: queueUseCase,
		logger:       logger,
	}
}

// RegisterRoutes mounts the queue and item routes on the given group.
func (h *QueueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	queues := rg.Group("/queues")
	queues.POST("", h.CreateQueueHandler)
	queues.DELETE("/:name", h.DeleteQueueHandler)
	queues.PATCH("/:name/toggle", h.ToggleQueueHandler)
	queues.POST("/:name/items", h.AddItemHandler)
	queues.GET("/:name/items/pending", h.ListPendingHandler)
	queues.GET("/:name/items/retired", h.ListRetiredHandler)
	queues.POST("/:name/lease", h.LeaseHandler)

	items := rg.Group("/items")
	items.POST("/:id/success", h.SuccessHandler)
	items.POST("/:id/fail", h.FailHandler)
}

// CreateQueueHandler creates a new active queue.
// POST /v1/queues - Returns 201 Created with the queue.
func (h *QueueHandler) CreateQueueHandler(c *gin.Context) {
	var req dto.CreateQueueRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	queue, err := h.queueUseCase.CreateQueue(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapQueueToResponse(queue))
}

// DeleteQueueHandler deletes an empty queue.
// DELETE /v1/queues/:name - Returns 204 No Content.
func (h *QueueHandler) DeleteQueueHandler(c *gin.Context) {
	if err := h.queueUseCase.DeleteQueue(c.Request.Context(), c.Param("name")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleQueueHandler pauses or resumes a queue.
// PATCH /v1/queues/:name/toggle - Returns 200 OK with the new status, 404 if the queue is missing.
func (h *QueueHandler) ToggleQueueHandler(c *gin.Context) {
	name := c.Param("name")

	queue, err := h.queueUseCase.ToggleActive(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if queue == nil {
		c.JSON(http.StatusNotFound, httputil.ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("queue %q not found", name),
		})
		return
	}

	c.JSON(http.StatusOK, dto.MapQueueToStatusResponse(queue))
}

// AddItemHandler enqueues a work item.
// POST /v1/queues/:name/items - Returns 201 Created with the item.
func (h *QueueHandler) AddItemHandler(c *gin.Context) {
	var req dto.AddItemRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, err := h.queueUseCase.AddItem(c.Request.Context(), c.Param("name"), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapItemToResponse(item))
}

// ListPendingHandler lists PENDING items in lease order.
// GET /v1/queues/:name/items/pending?offset=0&limit=50
func (h *QueueHandler) ListPendingHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	items, err := h.queueUseCase.ListPending(c.Request.Context(), c.Param("name"), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapItemsToListResponse(items))
}

// ListRetiredHandler lists items retired by a business failure.
// GET /v1/queues/:name/items/retired?offset=0&limit=50
func (h *QueueHandler) ListRetiredHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	items, err := h.queueUseCase.ListRetired(c.Request.Context(), c.Param("name"), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapItemsToListResponse(items))
}

// LeaseHandler leases the next item to the calling worker.
// POST /v1/queues/:name/lease - Returns 200 with the item, or 200 with a message when the
// queue is empty. A paused queue yields 423 Locked.
func (h *QueueHandler) LeaseHandler(c *gin.Context) {
	var req dto.LeaseRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, err := h.queueUseCase.LeaseNext(c.Request.Context(), c.Param("name"), req.WorkerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if item == nil {
		c.JSON(http.StatusOK, httputil.MessageResponse{Message: dto.MessageNoItems})
		return
	}

	c.JSON(http.StatusOK, dto.MapItemToResponse(item))
}

// SuccessHandler records a successful attempt.
// POST /v1/items/:id/success
func (h *QueueHandler) SuccessHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	item, err := h.queueUseCase.RecordSuccess(c.Request.Context(), itemID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ItemOutcomeResponse{Status: dto.StatusItemSucceeded, ItemID: item.ID.String()})
}

// FailHandler records a failed attempt. An empty body is a technical failure with an
// unknown error.
// POST /v1/items/:id/fail
func (h *QueueHandler) FailHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	var req dto.FailItemRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
	}

	item, err := h.queueUseCase.RecordFailure(c.Request.Context(), itemID, req.Error, req.Kind())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ItemOutcomeResponse{Status: dto.StatusItemFailed, ItemID: item.ID.String()})
}

func (h *QueueHandler) parseItemID(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid item ID format: must be a valid UUID"),
			h.logger)
		return uuid.Nil, false
	}
	return itemID, true
}
