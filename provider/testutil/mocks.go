package testutil

import (
	"context"
	"sync"

	"nexushr/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	ChatWithToolsFunc func(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error
	PingFunc          func(ctx context.Context) error

	mu           sync.Mutex
	currentModel string
	requests     []Request
}

// Request records one ChatWithTools invocation.
type Request struct {
	Model    string
	Messages []model.Message
	Tools    []model.ToolDefinition
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.ChatWithToolsFunc = mock.defaultChatWithTools
	mock.PingFunc = mock.defaultPing
	return mock
}

func (m *MockProvider) defaultChatWithTools(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error {
	return callback("Mock response", nil)
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error {
	m.mu.Lock()
	m.requests = append(m.requests, Request{
		Model:    model.ModelNameFrom(ctx, m.currentModel),
		Messages: append([]model.Message(nil), messages...),
		Tools:    tools,
	})
	m.mu.Unlock()
	return m.ChatWithToolsFunc(ctx, messages, tools, callback)
}

// Requests returns every ChatWithTools invocation so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// Step is one scripted model response: streamed chunks, then tool calls.
type Step struct {
	Chunks    []string
	ToolCalls []model.ToolCall
	Err       error
}

// NewScriptedProvider returns a mock that answers successive requests with the
// given steps. Requests past the end of the script get a plain "done" reply.
func NewScriptedProvider(modelName string, steps ...Step) *MockProvider {
	mock := NewMockProvider(modelName)
	var (
		mu   sync.Mutex
		next int
	)
	mock.ChatWithToolsFunc = func(ctx context.Context, messages []model.Message, tools []model.ToolDefinition, callback model.StreamCallback) error {
		mu.Lock()
		step := Step{Chunks: []string{"done"}}
		if next < len(steps) {
			step = steps[next]
		}
		next++
		mu.Unlock()

		for _, chunk := range step.Chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(chunk, nil); err != nil {
				return err
			}
		}
		if step.Err != nil {
			return step.Err
		}
		if len(step.ToolCalls) > 0 {
			return callback("", step.ToolCalls)
		}
		return nil
	}
	return mock
}
