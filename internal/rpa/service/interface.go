// Package service provides the automation provider client and correlation token generation.
package service

import "context"

// ProviderClient sends tasks to the external automation provider.
type ProviderClient interface {
	// SendTask posts the task request and returns the decoded provider response.
	SendTask(ctx context.Context, request map[string]any) (map[string]any, error)
}

// TokenGenerator generates unguessable correlation tokens.
type TokenGenerator interface {
	Generate() (string, error)
}
