// Package dto provides data transfer objects for queue HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

// CreateQueueRequest contains the parameters for creating a queue.
type CreateQueueRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks if the create queue request is valid.
func (r *CreateQueueRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
			customValidation.Identifier,
		),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

// AddItemRequest contains the parameters for enqueuing a work item.
type AddItemRequest struct {
	ID          string         `json:"id"`
	Payload     map[string]any `json:"payload"`
	Priority    int            `json:"priority"`
	MaxAttempts int            `json:"max_attempts"`
}

// Validate checks if the add item request is valid.
func (r *AddItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.By(validateOptionalUUID)),
		validation.Field(&r.MaxAttempts, validation.Min(0)),
	)
}

// ToInput converts the request to the use case input. Validate must have succeeded.
func (r *AddItemRequest) ToInput() queueDomain.AddItemInput {
	input := queueDomain.AddItemInput{
		Payload:     r.Payload,
		Priority:    r.Priority,
		MaxAttempts: r.MaxAttempts,
	}
	if r.ID != "" {
		input.ID = uuid.MustParse(r.ID)
	}
	return input
}

// LeaseRequest identifies the worker asking for an item.
type LeaseRequest struct {
	WorkerID string `json:"worker_id"`
}

// Validate checks if the lease request is valid.
func (r *LeaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.WorkerID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// FailItemRequest reports a failed attempt. ExceptionType selects business or technical handling.
type FailItemRequest struct {
	Error         string `json:"error"`
	ExceptionType string `json:"exception_type"`
}

// Kind returns the failure classification of the request.
func (r *FailItemRequest) Kind() queueDomain.FailureKind {
	return queueDomain.ParseFailureKind(r.ExceptionType)
}

func validateOptionalUUID(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_uuid", "must be a valid UUID")
	}
	return nil
}
