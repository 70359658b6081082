package domain

// OutcomeStatus is the result of starting a process for one subject.
type OutcomeStatus string

const (
	OutcomeStarted    OutcomeStatus = "started"
	OutcomeSkipped    OutcomeStatus = "skipped"
	OutcomeStartError OutcomeStatus = "start_error"
)

// Outcome reports what happened to one subject of a start request.
type Outcome struct {
	SubjectID  string
	Status     OutcomeStatus
	InstanceID string
	Message    string
}
