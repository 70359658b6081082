package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/allisson/orchestrator/internal/errors"
)

const maxProviderErrorBody = 4096

// ProviderTaskIDKey is the provider response field holding its own task id.
const ProviderTaskIDKey = "task_id"

// ProviderError is returned when the provider answers with a non-2xx status.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("automation provider returned status %d", e.StatusCode)
}

// ResponseContent returns the response body of a ProviderError, or "" for other errors.
func ResponseContent(err error) string {
	var providerErr *ProviderError
	if apperrors.As(err, &providerErr) {
		return providerErr.Body
	}
	return ""
}

type httpProviderClient struct {
	tasksURL   string
	httpClient *http.Client
}

// NewProviderClient creates a ProviderClient posting to baseURL + "/tasks".
func NewProviderClient(baseURL string, timeout time.Duration) ProviderClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &httpProviderClient{
		tasksURL:   strings.TrimRight(baseURL, "/") + "/tasks",
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (h *httpProviderClient) SendTask(ctx context.Context, request map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal provider request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.tasksURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build provider request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "provider request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		content, _ := io.ReadAll(io.LimitReader(resp.Body, maxProviderErrorBody))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(content)}
	}

	response := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.Wrap(err, "failed to decode provider response")
	}
	return response, nil
}
