package domain

// TaskStatus is the outcome reported by the automation provider.
type TaskStatus int

const (
	TaskCompleted      TaskStatus = 1
	TaskManualHandling TaskStatus = 2
)

// IsValid reports whether s is a status the provider is known to send.
func (s TaskStatus) IsValid() bool {
	return s == TaskCompleted || s == TaskManualHandling
}

// StartTaskInput is a request to hand a task to the automation provider.
// Data is forwarded as-is, merged with the task identification fields.
type StartTaskInput struct {
	ProcessID string
	TaskType  string
	Data      map[string]any
}

// GeneratedFile is a file produced by the provider while executing a task.
type GeneratedFile struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// Callback is the provider notification that a task finished.
type Callback struct {
	ProcessID        string
	CorrelationToken string
	Status           TaskStatus
	Message          string
	Files            []GeneratedFile
}

// Result returns the callback fields forwarded to the workflow engine.
func (c Callback) Result() map[string]any {
	files := c.Files
	if files == nil {
		files = []GeneratedFile{}
	}
	return map[string]any{
		"status":  int(c.Status),
		"message": c.Message,
		"files":   files,
	}
}

// MessageName returns the workflow engine message that resumes a process waiting on taskType.
func MessageName(taskType string) string {
	return "result_rpa_" + taskType
}

// Report selects which audit export to produce.
type Report string

const (
	ReportEvents Report = "events"
	ReportErrors Report = "errors"
)

// ParseReport validates a report name.
func ParseReport(name string) (Report, error) {
	switch Report(name) {
	case ReportEvents, ReportErrors:
		return Report(name), nil
	default:
		return "", ErrUnknownReport
	}
}

// EventTypes returns the ledger entries included in the report.
func (r Report) EventTypes() []EventType {
	if r == ReportErrors {
		return []EventType{EventStartError, EventFinishWithError}
	}
	return []EventType{EventStart, EventFinish}
}

// Header returns the CSV column names of the report.
func (r Report) Header() []string {
	if r == ReportErrors {
		return []string{"process_id", "event_type", "event_source", "error", "response_content", "created_at"}
	}
	return []string{"process_id", "event_type", "event_source", "task_type", "correlation_token", "created_at"}
}

// ExportTimeLayout formats created_at in audit exports.
const ExportTimeLayout = "2006-01-02 15:04:05"

// Row renders an entry as a CSV record of the report.
func (r Report) Row(e *EventLog) []string {
	created := e.CreatedAt.UTC().Format(ExportTimeLayout)
	if r == ReportErrors {
		return []string{
			e.ProcessID,
			string(e.EventType),
			string(e.EventSource),
			e.DataString(DataKeyError),
			e.DataString(DataKeyResponseContent),
			created,
		}
	}
	return []string{
		e.ProcessID,
		string(e.EventType),
		string(e.EventSource),
		e.TaskType(),
		e.CorrelationToken,
		created,
	}
}
