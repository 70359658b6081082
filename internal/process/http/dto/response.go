package dto

import (
	"time"

	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

// ProcessListResponse lists the registered process keys.
type ProcessListResponse struct {
	Processes []string `json:"processes"`
}

// OutcomeResponse is the result of starting one subject.
type OutcomeResponse struct {
	SubjectID  string `json:"subject_id"`
	Status     string `json:"status"`
	InstanceID string `json:"instance_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StartProcessResponse collects the outcome of every subject.
type StartProcessResponse struct {
	ProcessKey string            `json:"process_key"`
	Outcomes   []OutcomeResponse `json:"outcomes"`
}

// MapOutcomesToResponse converts domain outcomes to an API response.
func MapOutcomesToResponse(processKey string, outcomes []processDomain.Outcome) StartProcessResponse {
	response := StartProcessResponse{
		ProcessKey: processKey,
		Outcomes:   make([]OutcomeResponse, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		response.Outcomes = append(response.Outcomes, OutcomeResponse{
			SubjectID:  o.SubjectID,
			Status:     string(o.Status),
			InstanceID: o.InstanceID,
			Message:    o.Message,
		})
	}
	return response
}

// EventLogResponse represents a recorded process event.
type EventLogResponse struct {
	ID        string         `json:"id"`
	ProcessID string         `json:"process_id"`
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data"`
	CreatedAt time.Time      `json:"created_at"`
}

// MapEventLogToResponse converts a domain event to an API response.
func MapEventLogToResponse(event *processDomain.EventLog) EventLogResponse {
	return EventLogResponse{
		ID:        event.ID.String(),
		ProcessID: event.ProcessID,
		EventType: event.EventType,
		EventData: event.EventData,
		CreatedAt: event.CreatedAt,
	}
}
