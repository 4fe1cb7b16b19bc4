package provider

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"nexushr/config"
	"nexushr/model"
)

// OpenAIProvider implements model.Provider against any OpenAI-compatible chat
// completions endpoint using the official OpenAI Go SDK.
type OpenAIProvider struct {
	client  openai.Client
	baseURL string

	mu    sync.RWMutex
	model string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.openai.com/v1")
//   - apiKey: API key (required)
//   - model: Initial model to use (default: "gpt-4o-mini")
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		baseURL: baseURL,
		model:   model,
	}, nil
}

// ChatWithTools implements model.Provider with streaming support.
func (p *OpenAIProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error {
	modelName := model.ModelNameFrom(ctx, p.GetModel())

	messagesWithInstructions := messages
	if len(tools) > 0 && !shouldSkipToolInstructions(modelName) {
		toolInstruction := model.Message{
			Role:    model.RoleSystem,
			Content: buildToolInstructions(tools),
		}
		messagesWithInstructions = append([]model.Message{toolInstruction}, messages...)
	}

	if config.DebugLog != nil && len(tools) > 0 && shouldSkipToolInstructions(modelName) {
		config.DebugLog.Printf("[OpenAI] Model '%s': Skipping tool instructions", modelName)
	}

	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messagesWithInstructions),
		Model:    openai.ChatModel(modelName),
	}
	if len(tools) > 0 {
		params.Tools = ConvertToolsToOpenAI(tools)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()
	acc := openai.ChatCompletionAccumulator{}

	var apiToolCallsDetected bool
	var contentBuilder strings.Builder

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if tool, ok := acc.JustFinishedToolCall(); ok {
			apiToolCallsDetected = true
			if callback != nil {
				toolCall := model.ToolCall{
					ID:        tool.ID,
					Name:      tool.Name,
					Arguments: ParseToolArguments(tool.Arguments),
				}
				if err := callback("", []model.ToolCall{toolCall}); err != nil {
					return err
				}
			}
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			content := chunk.Choices[0].Delta.Content
			contentBuilder.WriteString(content)
			if callback != nil {
				if err := callback(content, nil); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("OpenAI streaming error: %w", err)
	}

	// Some models write tool calls into their text instead of the tool channel
	if !apiToolCallsDetected && callback != nil {
		if leakedCalls := ParseLeakedJSONToolCalls(contentBuilder.String(), tools); len(leakedCalls) > 0 {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[OpenAI] Recovered %d tool calls from response text", len(leakedCalls))
			}
			return callback("", leakedCalls)
		}
	}

	return nil
}

// GetModel implements model.Provider.
func (p *OpenAIProvider) GetModel() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// SetModel implements model.Provider.
func (p *OpenAIProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = model
}

// Ping implements model.Provider by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}

// ConvertToOpenAIMessages converts messages to OpenAI format.
//
// The conversation is sent as plain text: tool calls are rendered into the
// assistant turn and tool results go back as user messages. Empty turns are
// dropped.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	names := toolCallNames(messages)
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			text := assistantText(msg)
			if text == "" {
				continue
			}
			result = append(result, openai.AssistantMessage(text))
		case model.RoleTool:
			result = append(result, openai.UserMessage(toolResultText(msg, names)))
		default:
			if msg.Content == "" {
				continue
			}
			result = append(result, openai.UserMessage(msg.Content))
		}
	}

	return result
}
