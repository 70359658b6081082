// Package workflow is a client for the REST API of the BPM workflow engine.
//
// Two calls are used: correlating a message to a waiting process instance and starting
// a new instance of a process definition by key. Requests authenticate with an API key
// header when one is configured and with HTTP basic auth otherwise.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/allisson/orchestrator/internal/errors"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

// Variable is a typed process variable. Type may be empty to let the engine infer it.
type Variable struct {
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

// Variables maps variable names to values.
type Variables map[string]Variable

// MessageRequest asks the engine to deliver a message to a process instance.
type MessageRequest struct {
	MessageName       string    `json:"messageName"`
	ProcessInstanceID string    `json:"processInstanceId,omitempty"`
	BusinessKey       string    `json:"businessKey,omitempty"`
	ProcessVariables  Variables `json:"processVariables,omitempty"`
}

// StartRequest starts a process instance.
type StartRequest struct {
	BusinessKey string    `json:"businessKey,omitempty"`
	Variables   Variables `json:"variables,omitempty"`
}

// ProcessInstance is the engine's answer to a start request.
type ProcessInstance struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definitionId"`
	BusinessKey  string `json:"businessKey"`
}

// Engine is the subset of the workflow engine API used by this service.
type Engine interface {
	CorrelateMessage(ctx context.Context, req MessageRequest) error
	StartProcess(ctx context.Context, processKey string, req StartRequest) (*ProcessInstance, error)
}

// EngineError is returned when the engine answers with a non-2xx status.
type EngineError struct {
	StatusCode int
	Body       string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("workflow engine returned status %d", e.StatusCode)
}

// Config configures Client.
type Config struct {
	BaseURL  string
	APIKey   string
	Username string
	Password string
	Timeout  time.Duration
}

// Client implements Engine over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a workflow engine client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CorrelateMessage delivers a message to the process instance waiting for it.
func (c *Client) CorrelateMessage(ctx context.Context, req MessageRequest) error {
	return c.post(ctx, "/message", req, nil)
}

// StartProcess starts the latest version of the process definition with the given key.
func (c *Client) StartProcess(ctx context.Context, processKey string, req StartRequest) (*ProcessInstance, error) {
	var instance ProcessInstance
	path := "/process-definition/key/" + url.PathEscape(processKey) + "/start"
	if err := c.post(ctx, path, req, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal workflow engine request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrap(err, "failed to build workflow engine request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	} else if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "workflow engine request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		content, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &EngineError{StatusCode: resp.StatusCode, Body: string(content)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, "failed to decode workflow engine response")
	}
	return nil
}

// ErrorBody returns the response body carried by an EngineError, or the error text.
func ErrorBody(err error) string {
	var engineErr *EngineError
	if apperrors.As(err, &engineErr) {
		return engineErr.Body
	}
	return err.Error()
}
