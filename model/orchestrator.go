package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nexushr/config"
)

var (
	ErrBusy            = errors.New("a turn is already in progress")
	ErrEmptyInput      = errors.New("message is empty")
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionMoved    = errors.New("reply was saved to a different session")
)

// Listener receives a snapshot after every state change. Listeners run
// synchronously and must not call back into the Orchestrator.
type Listener func(Snapshot)

// Orchestrator owns the active session's ChatState and drives turns through
// the SessionService: Idle -> Processing on a non-empty submission, back to
// Idle when the model call completes or fails.
//
// Switching sessions bumps an epoch; late chunks and completions of a turn
// started under an older epoch are dropped instead of touching the new state.
type Orchestrator struct {
	service SessionService

	mu       sync.Mutex
	state    ChatState
	sessions []SessionInfo
	epoch    uint64

	// held while listeners run so they observe snapshots in commit order
	notifyMu  sync.Mutex
	listeners []Listener

	now func() time.Time
}

func NewOrchestrator(service SessionService, model string) *Orchestrator {
	return &Orchestrator{
		service: service,
		state:   ChatState{Model: model},
		now:     time.Now,
	}
}

// Subscribe registers a listener for state snapshots.
func (o *Orchestrator) Subscribe(l Listener) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	o.listeners = append(o.listeners, l)
}

// State returns a copy of the current chat state.
func (o *Orchestrator) State() ChatState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// Sessions returns the last fetched session list.
func (o *Orchestrator) Sessions() []SessionInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.sessions)
}

// commit publishes the current state. Must be called with o.mu held; returns
// with it released.
func (o *Orchestrator) commit() {
	snap := Snapshot{State: o.state.Clone(), Sessions: slices.Clone(o.sessions)}
	o.notifyMu.Lock()
	o.mu.Unlock()
	defer o.notifyMu.Unlock()
	for _, l := range o.listeners {
		l(snap)
	}
}

func (o *Orchestrator) SetModel(model string) {
	o.mu.Lock()
	o.state.Model = model
	o.commit()
}

// Submit runs one turn for text and blocks until it completes. Empty input
// and submissions while a turn is outstanding are rejected without touching
// state.
func (o *Orchestrator) Submit(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	o.mu.Lock()
	if o.state.IsProcessing {
		o.mu.Unlock()
		return ErrBusy
	}
	if o.state.SessionID == "" {
		o.mu.Unlock()
		return ErrNoActiveSession
	}

	sessionID := o.state.SessionID
	model := o.state.Model
	epoch := o.epoch
	first := !hasUserMessage(o.state.Messages)

	o.state.Messages = append(o.state.Messages, Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: o.now(),
	})
	o.state.Streaming = ""
	o.state.IsProcessing = true
	o.state.Interrupted = ""
	o.state.Err = nil
	o.commit()

	if first {
		o.applyTitle(ctx, sessionID, DeriveTitle(text))
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] turn started: session=%s model=%s len=%d", sessionID, model, len(text))
	}

	err := o.service.SendMessage(ctx, text, model, func(chunk string) {
		o.mu.Lock()
		if o.epoch != epoch {
			o.mu.Unlock()
			return
		}
		o.state.Streaming += chunk
		o.commit()
	})
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Orchestrator] turn failed: session=%s: %v", sessionID, err)
		}
		o.fail(epoch, err)
		return fmt.Errorf("failed to send message: %w", err)
	}

	fresh, err := o.service.GetMessages(ctx)
	if err != nil {
		o.fail(epoch, err)
		return fmt.Errorf("failed to reload history: %w", err)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		// the user moved on; the finished turn is visible when they come back
		o.mu.Unlock()
		return nil
	}
	if fresh.SessionID != sessionID {
		o.mu.Unlock()
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Orchestrator] service is on %s, turn belonged to %s", fresh.SessionID, sessionID)
		}
		err := fmt.Errorf("%w: %s", ErrSessionMoved, fresh.SessionID)
		o.fail(epoch, err)
		return err
	}
	o.state.Messages = fresh.Messages
	o.state.Streaming = ""
	o.state.IsProcessing = false
	o.commit()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] turn finished: session=%s messages=%d", sessionID, len(fresh.Messages))
	}
	return nil
}

// fail returns to Idle, keeping the partial stream visible as Interrupted.
func (o *Orchestrator) fail(epoch uint64, err error) {
	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		return
	}
	o.state.Interrupted = o.state.Streaming
	o.state.Streaming = ""
	o.state.IsProcessing = false
	o.state.Err = err
	o.commit()
}

// applyTitle sets a session title before the model call so the sidebar
// reflects it while the reply streams. Failures are logged, not fatal.
func (o *Orchestrator) applyTitle(ctx context.Context, sessionID, title string) {
	if err := o.service.UpdateSessionTitle(ctx, sessionID, title); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Orchestrator] failed to set title for %s: %v", sessionID, err)
		}
		return
	}
	if err := o.refreshSessions(ctx); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Orchestrator] failed to refresh sessions: %v", err)
	}
}

func (o *Orchestrator) refreshSessions(ctx context.Context) error {
	sessions, err := o.service.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	o.mu.Lock()
	o.sessions = sessions
	o.commit()
	return nil
}

// LoadSessions fetches the session list and activates switchTo if listed,
// otherwise the active session if still listed, otherwise the first one.
// A new session is created when none exist.
func (o *Orchestrator) LoadSessions(ctx context.Context, switchTo string) error {
	if err := o.refreshSessions(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	target := pickSession(o.sessions, switchTo, o.state.SessionID)
	o.mu.Unlock()

	if target == "" {
		return o.NewSession(ctx)
	}
	return o.SwitchSession(ctx, target)
}

func pickSession(sessions []SessionInfo, preferred ...string) string {
	for _, id := range preferred {
		if id == "" {
			continue
		}
		for _, s := range sessions {
			if s.ID == id {
				return id
			}
		}
	}
	if len(sessions) > 0 {
		return sessions[0].ID
	}
	return ""
}

// NewSession creates a "New Chat" session and makes it active.
func (o *Orchestrator) NewSession(ctx context.Context) error {
	id, err := o.service.CreateSession(ctx, DefaultSessionTitle, uuid.NewString())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if err := o.refreshSessions(ctx); err != nil {
		return err
	}
	return o.SwitchSession(ctx, id)
}

// SwitchSession makes id the active session and loads its history. An
// in-flight turn keeps running but no longer affects the displayed state.
// If the service refuses the switch the current state is left as is.
func (o *Orchestrator) SwitchSession(ctx context.Context, id string) error {
	if err := o.service.SwitchSession(ctx, id); err != nil {
		return fmt.Errorf("failed to switch session: %w", err)
	}

	o.mu.Lock()
	o.epoch++
	epoch := o.epoch
	o.state = ChatState{SessionID: id, Model: o.state.Model}
	o.commit()

	fresh, err := o.service.GetMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	o.mu.Lock()
	if o.epoch != epoch {
		o.mu.Unlock()
		return nil
	}
	o.state.Messages = fresh.Messages
	o.commit()
	return nil
}

// DeleteSession removes a session. Deleting the active one activates the
// first remaining session, or a fresh one if none remain.
func (o *Orchestrator) DeleteSession(ctx context.Context, id string) error {
	if err := o.service.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if err := o.refreshSessions(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	wasActive := o.state.SessionID == id
	next := pickSession(o.sessions)
	o.mu.Unlock()

	if !wasActive {
		return nil
	}
	if next == "" {
		return o.NewSession(ctx)
	}
	return o.SwitchSession(ctx, next)
}

// RenameSession sets a session title. Blank titles are ignored.
func (o *Orchestrator) RenameSession(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	if err := o.service.UpdateSessionTitle(ctx, id, title); err != nil {
		return fmt.Errorf("failed to rename session: %w", err)
	}
	return o.refreshSessions(ctx)
}
