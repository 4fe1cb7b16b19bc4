// Package chat implements the session service behind the turn orchestrator:
// session bookkeeping on top of the store, and the agent loop that runs a
// user message through the model and the tool registry.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexushr/config"
	"nexushr/model"
	"nexushr/storage"
	"nexushr/tools"
)

// ErrNoCurrentSession is returned by operations that need a current session
// before one has been selected.
var ErrNoCurrentSession = errors.New("no current session")

// Store is the persistence the service needs.
type Store interface {
	CreateSession(ctx context.Context, id, title, modelName string) (storage.Session, error)
	ListSessions(ctx context.Context) ([]storage.Session, error)
	GetSession(ctx context.Context, id string) (storage.Session, error)
	RenameSession(ctx context.Context, id, title string) error
	SetSessionModel(ctx context.Context, id, modelName string) error
	DeleteSession(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, sessionID string, msg model.Message) (model.Message, error)
	Messages(ctx context.Context, sessionID string) ([]model.Message, error)
	SaveCurrentSessionID(ctx context.Context, id string) error
}

// Options tune the agent loop.
type Options struct {
	SystemPrompt      string
	MaxToolIterations int
}

// Service implements model.SessionService.
type Service struct {
	store    Store
	provider model.Provider
	registry tools.Registry
	opts     Options

	mu      sync.Mutex
	current string
}

var _ model.SessionService = (*Service)(nil)

// NewService wires a session service. A non-positive MaxToolIterations uses
// config.DefaultMaxToolIterations.
func NewService(store Store, provider model.Provider, registry tools.Registry, opts Options) *Service {
	if opts.MaxToolIterations <= 0 {
		opts.MaxToolIterations = config.DefaultMaxToolIterations
	}
	return &Service{
		store:    store,
		provider: provider,
		registry: registry,
		opts:     opts,
	}
}

// CurrentSessionID returns the current session, or "" when none is selected.
func (s *Service) CurrentSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) CreateSession(ctx context.Context, title, id string) (string, error) {
	sess, err := s.store.CreateSession(ctx, id, title, s.provider.GetModel())
	if err != nil {
		return "", err
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Chat] Created session %s", sess.ID)
	}
	return sess.ID, nil
}

func (s *Service) ListSessions(ctx context.Context) ([]model.SessionInfo, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]model.SessionInfo, len(sessions))
	for i, sess := range sessions {
		infos[i] = sess.Info()
	}
	return infos, nil
}

// SwitchSession makes id current and remembers it for the next start.
func (s *Service) SwitchSession(ctx context.Context, id string) error {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = id
	s.mu.Unlock()

	if err := s.store.SaveCurrentSessionID(ctx, id); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Chat] Failed to remember current session: %v", err)
	}
	return nil
}

// GetMessages returns the current session's persisted history.
func (s *Service) GetMessages(ctx context.Context) (model.ChatState, error) {
	id := s.CurrentSessionID()
	if id == "" {
		return model.ChatState{}, ErrNoCurrentSession
	}

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return model.ChatState{}, err
	}
	messages, err := s.store.Messages(ctx, id)
	if err != nil {
		return model.ChatState{}, err
	}

	modelName := sess.Model
	if modelName == "" {
		modelName = s.provider.GetModel()
	}
	return model.ChatState{SessionID: id, Messages: messages, Model: modelName}, nil
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	if s.current == id {
		s.current = ""
	}
	s.mu.Unlock()
	return nil
}

func (s *Service) UpdateSessionTitle(ctx context.Context, id, title string) error {
	return s.store.RenameSession(ctx, id, title)
}

// SendMessage runs one turn in the session that is current when it is called.
//
// The user message is persisted first. The model is then called with the full
// history and the registry's tool definitions; each batch of tool calls is
// executed and fed back, until the model answers without tools or the
// iteration limit is hit. One assistant message carrying all text and all
// tool calls is persisted at the end. A failed model call persists nothing
// beyond the user message.
func (s *Service) SendMessage(ctx context.Context, text, modelName string, onChunk func(chunk string)) error {
	sessionID := s.CurrentSessionID()
	if sessionID == "" {
		return ErrNoCurrentSession
	}
	if onChunk == nil {
		onChunk = func(string) {}
	}

	ctx = model.WithModelName(ctx, modelName)

	if _, err := s.store.AppendMessage(ctx, sessionID, model.Message{
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to save user message: %w", err)
	}

	history, err := s.store.Messages(ctx, sessionID)
	if err != nil {
		return err
	}

	defs, err := s.registry.ListDefinitions(ctx)
	if err != nil && config.DebugLog != nil {
		// Partial definitions still work; unreachable servers just lose their tools
		config.DebugLog.Printf("[Chat] Tool discovery incomplete: %v", err)
	}

	convo := s.requestMessages(history)

	var (
		reply strings.Builder
		calls []model.ToolCall
	)
	for iteration := 0; ; iteration++ {
		var (
			stepText  strings.Builder
			stepCalls []model.ToolCall
		)

		err := s.provider.ChatWithTools(ctx, convo, defs, func(chunk string, toolCalls []model.ToolCall) error {
			if chunk != "" {
				// Separate text from successive model calls
				if stepText.Len() == 0 && reply.Len() > 0 {
					reply.WriteString("\n\n")
					onChunk("\n\n")
				}
				stepText.WriteString(chunk)
				reply.WriteString(chunk)
				onChunk(chunk)
			}
			stepCalls = append(stepCalls, toolCalls...)
			return nil
		})
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Chat] Model call failed: session=%s iteration=%d: %v", sessionID, iteration, err)
			}
			return fmt.Errorf("failed to get model response: %w", err)
		}

		if len(stepCalls) == 0 {
			break
		}

		for i := range stepCalls {
			if stepCalls[i].ID == "" {
				stepCalls[i].ID = uuid.NewString()
			}
			if stepCalls[i].Arguments == nil {
				stepCalls[i].Arguments = map[string]any{}
			}
		}

		if iteration >= s.opts.MaxToolIterations {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Chat] Tool iteration limit (%d) reached, dropping %d calls", s.opts.MaxToolIterations, len(stepCalls))
			}
			for i := range stepCalls {
				stepCalls[i].Result = model.ErrorResult("tool iteration limit reached")
			}
			calls = append(calls, stepCalls...)
			break
		}

		for i, call := range stepCalls {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Chat] Executing tool call %d: %s", i+1, call.Name)
			}
			stepCalls[i].Result = s.registry.Execute(ctx, call.Name, call.Arguments)
		}

		convo = append(convo, roundMessages(stepText.String(), stepCalls)...)
		calls = append(calls, stepCalls...)
	}

	if _, err := s.store.AppendMessage(ctx, sessionID, model.Message{
		Role:      model.RoleAssistant,
		Content:   reply.String(),
		ToolCalls: calls,
		Timestamp: time.Now(),
	}); err != nil {
		return fmt.Errorf("failed to save assistant message: %w", err)
	}

	if err := s.store.SetSessionModel(ctx, sessionID, model.ModelNameFrom(ctx, s.provider.GetModel())); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Chat] Failed to record session model: %v", err)
	}

	return nil
}

// requestMessages builds the provider request from persisted history: the
// system prompt first, and every past tool call followed by its result.
func (s *Service) requestMessages(history []model.Message) []model.Message {
	convo := make([]model.Message, 0, len(history)+1)
	if s.opts.SystemPrompt != "" {
		convo = append(convo, model.Message{Role: model.RoleSystem, Content: s.opts.SystemPrompt})
	}
	for _, msg := range history {
		if msg.Role == model.RoleAssistant && len(msg.ToolCalls) > 0 {
			convo = append(convo, roundMessages(msg.Content, msg.ToolCalls)...)
			continue
		}
		convo = append(convo, msg)
	}
	return convo
}

// roundMessages renders one model step: the assistant turn that issued the
// calls, then one tool message per result.
func roundMessages(text string, calls []model.ToolCall) []model.Message {
	issued := make([]model.ToolCall, len(calls))
	for i, call := range calls {
		issued[i] = model.ToolCall{ID: call.ID, Name: call.Name, Arguments: call.Arguments}
	}

	out := make([]model.Message, 0, len(calls)+1)
	out = append(out, model.Message{Role: model.RoleAssistant, Content: text, ToolCalls: issued})
	for _, call := range calls {
		out = append(out, model.Message{
			Role:       model.RoleTool,
			Content:    encodeResult(call.Result),
			ToolCallID: call.ID,
		})
	}
	return out
}

func encodeResult(result model.ToolResult) string {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
