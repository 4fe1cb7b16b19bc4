// Package provider adapts LLM backends to the model.Provider interface.
//
// NexusHR talks to Ollama, OpenAI-compatible endpoints (OpenAI itself, OpenRouter
// and gateways), and Anthropic through one contract so the chat service never
// touches SDK types. Everything SDK-specific lives here:
//   - message conversion (conversions.go, openai.go, anthropic.go)
//   - tool definition conversion (tools.go)
//   - the tool-use instruction preamble (tool_instructions.go)
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.1",
//	})
//	if err != nil {
//	    // handle error
//	}
//	err = p.ChatWithTools(ctx, messages, tools, callback)
package provider

// Note: The Provider interface and StreamCallback are defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic (unused for Ollama)
}
