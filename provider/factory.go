package provider

import (
	"fmt"

	"nexushr/model"
)

// OpenRouterBaseURL is used when an openrouter provider has no base URL configured.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewProvider creates a provider based on configuration.
//
// Supported provider types:
//   - ProviderTypeOllama: local Ollama server
//   - ProviderTypeOpenAI: any OpenAI-compatible chat completions endpoint
//   - ProviderTypeOpenRouter: OpenAI provider pointed at OpenRouter
//   - ProviderTypeAnthropic: Anthropic Messages API
//
// Returns an error for unknown types or when the provider constructor fails
// (e.g. a missing API key or an unparsable URL).
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenRouter:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = OpenRouterBaseURL
		}
		return NewOpenAIProvider(baseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts config provider ID to factory ProviderType.
//
// For unknown IDs, returns the ID cast as ProviderType (factory will error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		// Fallback: pass ID as-is (factory will return error)
		return ProviderType(id)
	}
}
