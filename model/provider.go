package model

import "context"

// Provider abstracts LLM provider implementations (Ollama, OpenAI, Anthropic)
// using the provider-agnostic types of this package.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the chat service uses
// the Provider interface without importing the provider package.
type Provider interface {
	// ChatWithTools sends messages with available tools and streams responses.
	// Text arrives as chunks; tool calls are reported through the same callback
	// with an empty chunk.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolDefinition, callback StreamCallback) error

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

type modelNameKey struct{}

// WithModelName returns a context asking providers to answer with name instead
// of their configured model. The provider itself is left untouched, so turns
// running concurrently on different models do not interfere.
func WithModelName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, modelNameKey{}, name)
}

// ModelNameFrom returns the per-call model carried by ctx, or fallback.
func ModelNameFrom(ctx context.Context, fallback string) string {
	if name, ok := ctx.Value(modelNameKey{}).(string); ok {
		return name
	}
	return fallback
}

// StreamCallback is called for each chunk of streamed response.
type StreamCallback func(chunk string, toolCalls []ToolCall) error
