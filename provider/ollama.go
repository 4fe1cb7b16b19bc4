package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"

	"nexushr/config"
	"nexushr/model"
)

// OllamaProvider talks to a local Ollama server through its official API client.
//
// Ollama speaks the tool role natively, so no instruction preamble is added and
// tool results are sent back as tool messages.
type OllamaProvider struct {
	client  *api.Client
	baseURL string

	mu    sync.RWMutex
	model string
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. Defaults to "http://localhost:11434".
//   - model: The model name to use. Defaults to "llama3.1:latest".
//
// Returns an error if the baseURL is invalid.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		baseURL: baseURL,
		model:   model,
	}, nil
}

// ChatWithTools implements model.Provider.
//
// Tools are omitted for model families known to reject Ollama's tool API; the
// conversation still goes through so the assistant can answer in plain text.
func (p *OllamaProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error {
	modelName := model.ModelNameFrom(ctx, p.GetModel())

	req := &api.ChatRequest{
		Model:    modelName,
		Messages: ConvertToOllamaMessages(messages),
		Stream:   func(b bool) *bool { return &b }(true),
	}

	if len(tools) > 0 {
		if supported, known := ModelSupportsToolCalling(modelName); known && !supported {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Ollama] Model '%s' does not support tool calling, dropping %d tools", modelName, len(tools))
			}
		} else {
			req.Tools = ConvertToolsToOllama(tools)
		}
	}

	respFunc := func(resp api.ChatResponse) error {
		if callback == nil {
			return nil
		}
		return callback(resp.Message.Content, ConvertToProviderToolCalls(resp.Message.ToolCalls))
	}

	if err := p.client.Chat(ctx, req, respFunc); err != nil {
		return fmt.Errorf("Ollama chat error: %w", err)
	}
	return nil
}

// GetModel implements model.Provider.
func (p *OllamaProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// SetModel implements model.Provider.
func (p *OllamaProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}

// Ping implements model.Provider by listing local models.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.client.List(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}

// toolCallingModels tracks which model families support tool calling.
// This is a curated list based on Ollama documentation and community testing.
var toolCallingModels = map[string]bool{
	"qwen":      true,
	"llama3.1":  true,
	"llama3.2":  true,
	"llama3.3":  true,
	"mistral":   true,
	"command-r": true,
	"nemotron":  true,
	"granite3":  true,

	"llama3-gradient": false,
	"llama3":          false, // Original llama3 (not 3.1/3.2/3.3)
	"phi":             false,
	"gemma":           false,
	"codellama":       false,
	"deepseek":        false,
}

// orderedPrefixes lists the most specific prefixes first, so "llama3.2" is
// matched before the generic "llama3".
var orderedPrefixes = []string{
	"llama3.3", "llama3.2", "llama3.1",
	"llama3-gradient",
	"command-r", "qwen", "mistral", "nemotron", "granite3",
	"codellama",
	"llama3",
	"deepseek", "phi", "gemma",
}

// ModelSupportsToolCalling reports whether a model family supports Ollama's tool
// calling API. known is false for models outside the curated list.
func ModelSupportsToolCalling(modelName string) (supported, known bool) {
	modelName = strings.ToLower(modelName)

	for _, prefix := range orderedPrefixes {
		if strings.HasPrefix(modelName, prefix) {
			if supported, exists := toolCallingModels[prefix]; exists {
				return supported, true
			}
		}
	}

	return false, false
}
