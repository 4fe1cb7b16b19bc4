package model

import (
	"sync"

	"nexushr/config"
)

// ToolCallHandler receives each tool call of a newly completed assistant message.
type ToolCallHandler func(call ToolCall)

// Dispatcher delivers tool-call side effects at most once per assistant
// message. It remembers the id of the last message it scanned rather than
// marking individual calls, so re-observing the same history is a no-op.
type Dispatcher struct {
	mu     sync.Mutex
	lastID string
	handle ToolCallHandler
}

func NewDispatcher(handle ToolCallHandler) *Dispatcher {
	return &Dispatcher{handle: handle}
}

// Observe inspects the latest assistant message and dispatches its tool calls,
// in order, if it has not been dispatched before. Returns how many calls were
// handed to the handler.
func (d *Dispatcher) Observe(messages []Message) int {
	last, ok := LastAssistant(messages)
	if !ok || len(last.ToolCalls) == 0 {
		return 0
	}

	d.mu.Lock()
	if last.ID == d.lastID {
		d.mu.Unlock()
		return 0
	}
	d.lastID = last.ID
	d.mu.Unlock()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Dispatcher] dispatching %d tool call(s) of message %s", len(last.ToolCalls), last.ID)
	}
	for _, call := range last.ToolCalls {
		d.handle(call)
	}
	return len(last.ToolCalls)
}

// Listener adapts the dispatcher to an orchestrator subscription.
func (d *Dispatcher) Listener() Listener {
	return func(s Snapshot) {
		d.Observe(s.State.Messages)
	}
}

// lastDispatched returns the id of the most recently dispatched message.
func (d *Dispatcher) lastDispatched() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastID
}

// RouteOnboarding returns a handler that opens the onboarding workflow view
// for results carrying the onboarding_checklist marker and ignores the rest.
func RouteOnboarding(open func(OnboardingChecklist)) ToolCallHandler {
	return func(call ToolCall) {
		if !HasMarker(call.Result, OnboardingChecklistComponent) {
			return
		}
		checklist, err := ParseOnboardingChecklist(call.Result)
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Dispatcher] bad onboarding payload on call %s: %v", call.ID, err)
			}
			return
		}
		open(checklist)
	}
}
