// Package llm defines provider-agnostic types for language model
// completions.
//
// The Provider interface is the seam between callers (the quiz
// generator) and concrete backends; the ollama subpackage implements it
// against Ollama's HTTP API. Callers build a CompletionRequest and get
// back a CompletionResponse regardless of which backend is configured.
package llm
