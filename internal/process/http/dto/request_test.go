package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	processDomain "github.com/allisson/orchestrator/internal/process/domain"
)

func TestStartProcessRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request StartProcessRequest
		wantErr bool
	}{
		{"valid", StartProcessRequest{Subjects: []SubjectRequest{{ID: "c1"}}}, false},
		{"no subjects", StartProcessRequest{}, true},
		{"blank subject id", StartProcessRequest{Subjects: []SubjectRequest{{ID: "  "}}}, true},
		{"subject id too long", StartProcessRequest{Subjects: []SubjectRequest{{ID: strings.Repeat("a", 256)}}}, true},
		{"too many subjects", StartProcessRequest{Subjects: make([]SubjectRequest, maxSubjects+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStartProcessRequest_ToSubjects(t *testing.T) {
	req := StartProcessRequest{Subjects: []SubjectRequest{{ID: "c1", Data: map[string]any{"a": 1}}}}

	assert.Equal(t, []processDomain.Subject{{ID: "c1", Data: map[string]any{"a": 1}}}, req.ToSubjects())
}

func TestLogEventRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LogEventRequest{ProcessID: "inst-1", EventType: "document_sent"}).Validate())
	assert.Error(t, (&LogEventRequest{ProcessID: "", EventType: "document_sent"}).Validate())
	assert.Error(t, (&LogEventRequest{ProcessID: "inst-1", EventType: "bad type"}).Validate())
}
