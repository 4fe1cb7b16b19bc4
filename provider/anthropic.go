package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"nexushr/config"
	"nexushr/model"
)

// anthropicMaxTokens is required by the Messages API.
const anthropicMaxTokens = 4096

// AnthropicProvider implements model.Provider using Anthropic's official Go SDK.
type AnthropicProvider struct {
	client  *anthropic.Client
	baseURL string

	mu    sync.RWMutex
	model anthropic.Model
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Initial model to use (default: Claude Sonnet 4.5)
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, model string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:  &client,
		baseURL: baseURL,
		model:   anthropicModel,
	}, nil
}

// ChatWithTools implements model.Provider with streaming support.
//
// Text deltas stream through the callback as they arrive; tool calls are
// reported once the message is complete.
func (p *AnthropicProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error {
	anthropicMessages, systemPrompt := convertToAnthropicMessages(messages)

	// Tool instructions go first, then the configured system prompt
	if len(tools) > 0 {
		toolInstructionBlock := anthropic.TextBlockParam{
			Text: buildToolInstructions(tools),
		}
		systemPrompt = append([]anthropic.TextBlockParam{toolInstructionBlock}, systemPrompt...)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model.ModelNameFrom(ctx, string(p.currentModel()))),
		Messages:  anthropicMessages,
		MaxTokens: anthropicMaxTokens,
	}
	if len(systemPrompt) > 0 {
		params.System = systemPrompt
	}
	if len(tools) > 0 {
		params.Tools = ConvertToolsToAnthropic(tools)
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()

		if err := msg.Accumulate(event); err != nil {
			return fmt.Errorf("error accumulating message: %w", err)
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if callback != nil {
					if err := callback(deltaVariant.Text, nil); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("Anthropic streaming error: %w", err)
	}

	if callback != nil {
		if toolCalls := extractToolCalls(msg.Content); len(toolCalls) > 0 {
			return callback("", toolCalls)
		}
	}

	return nil
}

// GetModel implements model.Provider.
func (p *AnthropicProvider) GetModel() string {
	return string(p.currentModel())
}

// SetModel implements model.Provider.
func (p *AnthropicProvider) SetModel(model string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = anthropic.Model(model)
}

func (p *AnthropicProvider) currentModel() anthropic.Model {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

// Ping implements model.Provider with a minimal request, since the API has no
// health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.currentModel(),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}

// convertToAnthropicMessages converts messages to Anthropic format.
// Returns the message array and any system prompt found. Empty turns are
// dropped since the API rejects empty text blocks.
func convertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	names := toolCallNames(messages)
	var systemBlocks []anthropic.TextBlockParam
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			// Anthropic uses a separate system parameter, not in messages array
			if msg.Content != "" {
				systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})
			}

		case model.RoleAssistant:
			text := assistantText(msg)
			if text == "" {
				continue
			}
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)),
			)

		case model.RoleTool:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(toolResultText(msg, names))),
			)

		default:
			if msg.Content == "" {
				continue
			}
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)),
			)
		}
	}

	return anthropicMsgs, systemBlocks
}

// extractToolCalls extracts tool calls from Anthropic message content.
func extractToolCalls(content []anthropic.ContentBlockUnion) []model.ToolCall {
	var toolCalls []model.ToolCall

	for _, block := range content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}

		args := map[string]any{}
		if len(toolUse.Input) > 0 {
			if err := json.Unmarshal(toolUse.Input, &args); err != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Anthropic] Skipping tool call %s: invalid input: %v", toolUse.Name, err)
				}
				continue
			}
		}

		toolCalls = append(toolCalls, model.ToolCall{
			ID:        toolUse.ID,
			Name:      toolUse.Name,
			Arguments: args,
		})
	}

	return toolCalls
}
