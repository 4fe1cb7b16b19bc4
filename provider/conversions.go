package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"nexushr/model"
)

// ConvertToOllamaMessages converts model.Message to Ollama api.Message.
//
// Ollama understands the tool role natively: assistant tool calls are carried
// over and tool results are tagged with the name of the tool that produced them.
// Timestamps and message IDs are not sent.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	names := toolCallNames(messages)
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			ToolCalls: ConvertFromProviderToolCalls(msg.ToolCalls),
		}
		if msg.Role == model.RoleTool {
			result[i].ToolName = names[msg.ToolCallID]
		}
	}
	return result
}

// ParseToolArguments parses JSON arguments string into a map.
// Used by the OpenAI provider for tool call parsing.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil || args == nil {
		return make(map[string]any)
	}
	return args
}

// ConvertToProviderToolCalls converts Ollama api.ToolCall to model.ToolCall.
//
// Returns nil if the input is nil or empty. Ollama does not identify calls, so
// IDs are left for the caller to assign.
func ConvertToProviderToolCalls(ollamaCalls []api.ToolCall) []model.ToolCall {
	if len(ollamaCalls) == 0 {
		return nil
	}

	result := make([]model.ToolCall, len(ollamaCalls))
	for i, call := range ollamaCalls {
		result[i] = model.ToolCall{
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		}
	}
	return result
}

// ConvertFromProviderToolCalls converts model.ToolCall to Ollama api.ToolCall.
//
// Returns nil if the input is nil or empty.
func ConvertFromProviderToolCalls(providerCalls []model.ToolCall) []api.ToolCall {
	if len(providerCalls) == 0 {
		return nil
	}

	result := make([]api.ToolCall, len(providerCalls))
	for i, call := range providerCalls {
		result[i] = api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		}
	}
	return result
}

// toolCallNames maps tool call IDs to tool names across a conversation.
func toolCallNames(messages []model.Message) map[string]string {
	names := make(map[string]string)
	for _, msg := range messages {
		for _, call := range msg.ToolCalls {
			if call.ID != "" {
				names[call.ID] = call.Name
			}
		}
	}
	return names
}

// assistantText renders an assistant message for providers that receive the
// conversation as plain text. Tool calls become a bracketed line per call.
func assistantText(msg model.Message) string {
	if len(msg.ToolCalls) == 0 {
		return msg.Content
	}

	var b strings.Builder
	b.WriteString(msg.Content)
	for _, call := range msg.ToolCalls {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		args, _ := json.Marshal(call.Arguments)
		fmt.Fprintf(&b, "[call %s(%s)]", call.Name, args)
	}
	return b.String()
}

// toolResultText renders a tool-role message as user-visible text.
func toolResultText(msg model.Message, names map[string]string) string {
	name := names[msg.ToolCallID]
	if name == "" {
		name = "tool"
	}
	return fmt.Sprintf("[%s result]\n%s", name, msg.Content)
}
