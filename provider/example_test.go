package provider_test

import (
	"context"
	"fmt"
	"log"

	"nexushr/model"
	"nexushr/provider"
)

// ExampleNewProvider demonstrates creating an Ollama provider using the factory.
func ExampleNewProvider() {
	cfg := provider.Config{
		Type:    provider.ProviderTypeOllama,
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	}

	p, err := provider.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Provider created: %T\n", p)
	// Output: Provider created: *provider.OllamaProvider
}

// ExampleNewProvider_openRouter shows that OpenRouter is served by the
// OpenAI-compatible provider.
func ExampleNewProvider_openRouter() {
	p, err := provider.NewProvider(provider.Config{
		Type:   provider.MapProviderIDToType("openrouter"),
		APIKey: "sk-or-test",
		Model:  "google/gemini-2.5-flash",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%T %s\n", p, p.GetModel())
	// Output: *provider.OpenAIProvider google/gemini-2.5-flash
}

// ExampleNewOllamaProvider demonstrates creating an Ollama provider directly.
func ExampleNewOllamaProvider() {
	p, err := provider.NewOllamaProvider("http://localhost:11434", "llama3.1")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Current model: %s\n", p.GetModel())

	p.SetModel("llama3.2:latest")
	fmt.Printf("New model: %s\n", p.GetModel())

	// Output:
	// Current model: llama3.1
	// New model: llama3.2:latest
}

// ExampleOllamaProvider_ChatWithTools demonstrates chat with tool calling.
//
// Note: This example doesn't actually run because it requires a live Ollama server.
func ExampleOllamaProvider_ChatWithTools() {
	p, err := provider.NewOllamaProvider("http://localhost:11434", "llama3.1")
	if err != nil {
		log.Fatal(err)
	}

	messages := []model.Message{
		{Role: model.RoleUser, Content: "How much PTO do I have left?"},
	}
	tools := []model.ToolDefinition{{
		Name:        "request_pto_balance",
		Description: "Retrieves the paid time off (PTO) balance for the current employee.",
	}}

	ctx := context.Background()
	err = p.ChatWithTools(ctx, messages, tools, func(chunk string, toolCalls []model.ToolCall) error {
		for _, call := range toolCalls {
			fmt.Printf("\nTool called: %s %v\n", call.Name, call.Arguments)
		}
		fmt.Print(chunk)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

// ExampleConfig demonstrates different provider configurations.
func ExampleConfig() {
	ollamaCfg := provider.Config{
		Type:    provider.ProviderTypeOllama,
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	}

	openaiCfg := provider.Config{
		Type:    provider.ProviderTypeOpenAI,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		APIKey:  "sk-...",
	}

	anthropicCfg := provider.Config{
		Type:    provider.ProviderTypeAnthropic,
		BaseURL: "https://api.anthropic.com",
		Model:   "claude-sonnet-4-5",
		APIKey:  "sk-ant-...",
	}

	fmt.Printf("Ollama: %s\n", ollamaCfg.Type)
	fmt.Printf("OpenAI: %s\n", openaiCfg.Type)
	fmt.Printf("Anthropic: %s\n", anthropicCfg.Type)

	// Output:
	// Ollama: ollama
	// OpenAI: openai
	// Anthropic: anthropic
}
