package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onboardingResult() ToolResult {
	return ToolResult{
		"status":        "success",
		"ui_component":  "onboarding_checklist",
		"employee_name": "Alex Doe",
		"start_date":    "2026-11-02",
		"checklist": []any{
			map[string]any{"id": "task_1", "text": "Complete new hire paperwork in HR portal", "completed": false},
			map[string]any{"id": "task_2", "text": "Set up company email and communication tools", "completed": false},
		},
	}
}

func TestDispatcherFiresOncePerMessage(t *testing.T) {
	var got []string
	d := NewDispatcher(func(c ToolCall) { got = append(got, c.ID) })

	history := []Message{
		{ID: "m1", Role: RoleUser, Content: "hi"},
		{ID: "m2", Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "c1", Name: "get_weather", Result: ToolResult{"condition": "Sunny"}},
			{ID: "c2", Name: "request_pto_balance", Result: ToolResult{"pto_balance_hours": "40.0"}},
		}},
	}

	assert.Equal(t, 2, d.Observe(history))
	assert.Equal(t, 0, d.Observe(history))
	assert.Equal(t, 0, d.Observe(append([]Message(nil), history...)))
	assert.Equal(t, []string{"c1", "c2"}, got)
	assert.Equal(t, "m2", d.lastDispatched())

	history = append(history,
		Message{ID: "m3", Role: RoleUser, Content: "again"},
		Message{ID: "m4", Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c3", Name: "get_weather"}}},
	)
	assert.Equal(t, 1, d.Observe(history))
	assert.Equal(t, []string{"c1", "c2", "c3"}, got)
}

func TestDispatcherIgnoresMessagesWithoutToolCalls(t *testing.T) {
	calls := 0
	d := NewDispatcher(func(ToolCall) { calls++ })

	assert.Equal(t, 0, d.Observe(nil))
	assert.Equal(t, 0, d.Observe([]Message{{ID: "u", Role: RoleUser}}))
	assert.Equal(t, 0, d.Observe([]Message{{ID: "a", Role: RoleAssistant, Content: "plain"}}))
	assert.Zero(t, calls)
	assert.Empty(t, d.lastDispatched())
}

func TestDispatcherOnlyLooksAtLatestAssistantMessage(t *testing.T) {
	calls := 0
	d := NewDispatcher(func(ToolCall) { calls++ })

	history := []Message{
		{ID: "a1", Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c1", Name: "x"}}},
		{ID: "a2", Role: RoleAssistant, Content: "no tools this time"},
		{ID: "u3", Role: RoleUser, Content: "ok"},
	}
	assert.Equal(t, 0, d.Observe(history))
	assert.Zero(t, calls)
}

func TestDispatcherListenerWithOrchestrator(t *testing.T) {
	svc := newFakeService()
	svc.seed("s", "S",
		Message{ID: "u1", Role: RoleUser, Content: "onboard Alex"},
		Message{ID: "a1", Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "c1", Name: "start_onboarding_process", Result: onboardingResult()},
		}},
	)

	var opened []OnboardingChecklist
	d := NewDispatcher(RouteOnboarding(func(c OnboardingChecklist) { opened = append(opened, c) }))

	o := NewOrchestrator(svc, "m")
	o.Subscribe(d.Listener())
	require.NoError(t, o.LoadSessions(t.Context(), ""))
	o.SetModel("another") // republishes the same history

	require.Len(t, opened, 1)
	assert.Equal(t, "Alex Doe", opened[0].EmployeeName)
	assert.Equal(t, "2026-11-02", opened[0].StartDate)
	require.Len(t, opened[0].Tasks, 2)
	assert.Equal(t, "task_1", opened[0].Tasks[0].ID)
}

func TestRouteOnboardingIgnoresOtherResults(t *testing.T) {
	opened := 0
	handle := RouteOnboarding(func(OnboardingChecklist) { opened++ })

	handle(ToolCall{Name: "get_weather", Result: ToolResult{"condition": "Rainy"}})
	handle(ToolCall{Name: "start_onboarding_process", Result: ErrorResult("boom")})
	handle(ToolCall{Name: "start_onboarding_process"})
	handle(ToolCall{Name: "anything", Result: ToolResult{"ui_component": "something_else"}})
	assert.Zero(t, opened)

	handle(ToolCall{Name: "mcp__onboard", Result: onboardingResult()})
	assert.Equal(t, 1, opened, "routing keys on the marker, not the tool name")
}
