package model

import (
	"errors"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// RoleSystem and RoleTool only appear in provider requests, never in
	// persisted conversation history.
	RoleSystem = "system"
	RoleTool   = "tool"
)

// ErrToolCallsOnNonAssistant is returned when a non-assistant message carries tool calls.
var ErrToolCallsOnNonAssistant = errors.New("only assistant messages may carry tool calls")

// Message represents a chat message in the conversation
type Message struct {
	ID         string     `json:"id"`
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Timestamp  time.Time  `json:"timestamp"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on RoleTool request messages
}

// Validate checks the role/tool-call invariant.
func (m Message) Validate() error {
	if len(m.ToolCalls) > 0 && m.Role != RoleAssistant {
		return ErrToolCallsOnNonAssistant
	}
	return nil
}

// ToolCall is a model-issued request to run a named tool, with its result once known.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Result    ToolResult     `json:"result,omitempty"`
}

// Pending reports whether the call is still executing.
func (c ToolCall) Pending() bool {
	return c.Result == nil
}

// ToolResult is the normalized outcome of a tool execution: a free-form success
// payload, or a single "error" key holding the failure message.
type ToolResult map[string]any

// ErrorResult builds the normalized failure shape.
func ErrorResult(msg string) ToolResult {
	return ToolResult{"error": msg}
}

// Failure returns the error message and true if the result is a failure.
func (r ToolResult) Failure() (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r["error"]
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// String returns a string field, or "" when absent or not a string.
func (r ToolResult) String(key string) string {
	s, _ := r[key].(string)
	return s
}
