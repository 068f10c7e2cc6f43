package ai

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Request carries everything a backend needs for one completion call.
type Request struct {
	// ID identifies the request in logs.
	ID string

	// Model is the backend-specific model name.
	Model string

	// System is the system prompt.
	System string

	// Prompt is the assembled user content.
	Prompt string
}

// NewRequest creates a request with a fresh ID.
func NewRequest(model, system, prompt string) Request {
	return Request{
		ID:     uuid.NewString(),
		Model:  model,
		System: system,
		Prompt: prompt,
	}
}

// Client is a single opaque fallible call to a language-model backend.
type Client interface {
	// Send performs the completion call and returns the reply text.
	Send(ctx context.Context, req Request) (string, error)

	// Name returns the backend's name for config and logs.
	Name() string
}

// NewClient constructs a client for the named backend.
func NewClient(backend, apiKey, baseURL string) (Client, error) {
	switch backend {
	case "anthropic":
		return NewAnthropicClient(apiKey), nil
	case "openai":
		return NewOpenAIClient(apiKey), nil
	case "gemini":
		return NewGeminiClient(apiKey), nil
	case "ollama":
		return NewOllamaClient(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown ai backend %q", backend)
	}
}
