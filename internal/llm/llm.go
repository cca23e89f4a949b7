// Package llm abstracts the external inference collaborator: prompt in,
// raw model text out. Providers live in subpackages.
package llm

import (
	"context"
	"errors"
)

// Client is the inference collaborator contract. Implementations are
// synchronous and must honor ctx deadlines.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrTimeout classifies a bounded-timeout expiry on the inference call.
// It is retryable at the collaborator boundary.
var ErrTimeout = errors.New("llm request timeout")

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient is a stub used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
