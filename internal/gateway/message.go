package gateway

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/allisson/orchestrator/internal/errors"
	"github.com/allisson/orchestrator/internal/queue/http/dto"
)

// Supported worker actions.
const (
	ActionGetNext     = "get_next"
	ActionMarkSuccess = "mark_success"
	ActionMarkFail    = "mark_fail"
)

// Envelope is a single inbound worker message.
type Envelope struct {
	Action   string          `json:"action"`
	WorkerID string          `json:"worker_id"`
	Data     json.RawMessage `json:"data"`
}

// actionData holds the fields the outcome actions read from Envelope.Data.
type actionData struct {
	ItemID        string `json:"item_id"`
	Error         string `json:"error"`
	ExceptionType string `json:"exception_type"`
	Item          *struct {
		ID string `json:"id"`
	} `json:"item"`
}

// parseData decodes Envelope.Data. An absent data field yields the zero value.
func parseData(raw json.RawMessage) (actionData, error) {
	var data actionData
	if len(raw) == 0 || string(raw) == "null" {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, apperrors.Wrap(apperrors.ErrInvalidInput, "data must be an object")
	}
	return data, nil
}

// itemID returns data.item_id, falling back to data.item.id as echoed back from get_next.
func (d actionData) itemID() (uuid.UUID, error) {
	raw := strings.TrimSpace(d.ItemID)
	if raw == "" && d.Item != nil {
		raw = strings.TrimSpace(d.Item.ID)
	}
	if raw == "" {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, "data.item_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.ErrInvalidInput, "data.item_id must be a valid UUID")
	}
	return id, nil
}

// ItemReply wraps a leased item.
type ItemReply struct {
	Item dto.ItemResponse `json:"item"`
}

// ErrorReply reports a failed action. The session stays open.
type ErrorReply struct {
	Error string `json:"error"`
}

// errorMessage exposes caller errors and masks everything else.
func errorMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound),
		apperrors.Is(err, apperrors.ErrConflict),
		apperrors.Is(err, apperrors.ErrInvalidInput),
		apperrors.Is(err, apperrors.ErrLocked):
		return err.Error()
	default:
		return "internal error"
	}
}
