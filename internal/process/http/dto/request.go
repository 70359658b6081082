// Package dto provides request and response types for the process starter endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	processDomain "github.com/allisson/orchestrator/internal/process/domain"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

// maxSubjects bounds a single start request.
const maxSubjects = 500

// SubjectRequest is one subject to start a process for.
type SubjectRequest struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Validate checks the subject identifier.
func (s SubjectRequest) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
	)
}

// StartProcessRequest starts a process for each subject.
type StartProcessRequest struct {
	Subjects []SubjectRequest `json:"subjects"`
}

// Validate checks the subject list.
func (r *StartProcessRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subjects, validation.Required, validation.Length(1, maxSubjects)),
	)
}

// ToSubjects converts the request into domain subjects.
func (r *StartProcessRequest) ToSubjects() []processDomain.Subject {
	subjects := make([]processDomain.Subject, 0, len(r.Subjects))
	for _, s := range r.Subjects {
		subjects = append(subjects, processDomain.Subject{ID: s.ID, Data: s.Data})
	}
	return subjects
}

// LogEventRequest records a process side effect.
type LogEventRequest struct {
	ProcessID string         `json:"process_id"`
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data"`
}

// Validate checks the event identification fields.
func (r *LogEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProcessID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.EventType, validation.Required, customValidation.Identifier, validation.Length(1, 64)),
	)
}
