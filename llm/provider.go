package llm

import "context"

// Provider is the interface language model backends implement.
type Provider interface {
	// Name identifies the backend (e.g. "ollama").
	Name() string

	// IsAvailable reports whether the backend is reachable.
	IsAvailable(ctx context.Context) bool

	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// CompleteStructured sends a completion request expecting JSON
	// output conforming to schema. A nil schema requests free-form JSON.
	CompleteStructured(ctx context.Context, req CompletionRequest, schema any) (*CompletionResponse, error)
}
