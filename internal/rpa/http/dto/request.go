// Package dto provides request and response types for the automation task endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	rpaDomain "github.com/allisson/orchestrator/internal/rpa/domain"
	customValidation "github.com/allisson/orchestrator/internal/validation"
)

// StartTaskRequest starts an automation task. Data is forwarded to the provider unchanged.
type StartTaskRequest struct {
	ProcessID string         `json:"process_id"`
	TaskType  string         `json:"task_type"`
	Data      map[string]any `json:"data"`
}

// Validate checks the task identification fields.
func (r *StartTaskRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProcessID, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.TaskType, validation.Required, customValidation.NotBlank, customValidation.Identifier),
	)
}

// ToInput converts the request into a use case input.
func (r *StartTaskRequest) ToInput() rpaDomain.StartTaskInput {
	return rpaDomain.StartTaskInput{
		ProcessID: r.ProcessID,
		TaskType:  r.TaskType,
		Data:      r.Data,
	}
}

// FileRequest is a file generated by the provider.
type FileRequest struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// Validate checks a generated file entry.
func (f FileRequest) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.URL, validation.Required),
	)
}

// CallbackRequest is the provider notification that a task finished.
type CallbackRequest struct {
	ProcessID        string        `json:"process_id"`
	CorrelationToken string        `json:"correlation_token"`
	Status           int           `json:"status"`
	Message          string        `json:"message"`
	Files            []FileRequest `json:"files"`
}

// Validate checks the correlation fields and the reported status.
func (r *CallbackRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ProcessID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.CorrelationToken, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Status, validation.Required, validation.In(
			int(rpaDomain.TaskCompleted),
			int(rpaDomain.TaskManualHandling),
		)),
		validation.Field(&r.Files),
	)
}

// ToCallback converts the request into a domain callback.
func (r *CallbackRequest) ToCallback() rpaDomain.Callback {
	files := make([]rpaDomain.GeneratedFile, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, rpaDomain.GeneratedFile{URL: f.URL, FileName: f.FileName})
	}
	return rpaDomain.Callback{
		ProcessID:        r.ProcessID,
		CorrelationToken: r.CorrelationToken,
		Status:           rpaDomain.TaskStatus(r.Status),
		Message:          r.Message,
		Files:            files,
	}
}
