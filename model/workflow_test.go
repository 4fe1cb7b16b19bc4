package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOnboardingChecklistTypedValues(t *testing.T) {
	result := ToolResult{
		"ui_component":  OnboardingChecklistComponent,
		"employee_name": "Sam Lee",
		"start_date":    "2026-12-01",
		"checklist": []ChecklistTask{
			{ID: "task_1", Text: "Paperwork"},
			{ID: "task_2", Text: "Email", Completed: true},
		},
	}

	c, err := ParseOnboardingChecklist(result)
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", c.EmployeeName)
	assert.Equal(t, []ChecklistTask{{ID: "task_1", Text: "Paperwork"}, {ID: "task_2", Text: "Email", Completed: true}}, c.Tasks)
}

func TestParseOnboardingChecklistRequiresMarker(t *testing.T) {
	_, err := ParseOnboardingChecklist(ToolResult{"employee_name": "x"})
	assert.Error(t, err)
}

func TestChecklistToggleAndProgress(t *testing.T) {
	c := OnboardingChecklist{Tasks: []ChecklistTask{
		{ID: "task_1"}, {ID: "task_2"}, {ID: "task_3"},
	}}
	assert.Equal(t, 0, c.Progress())

	require.True(t, c.Toggle("task_2"))
	assert.Equal(t, 33, c.Progress())
	assert.Equal(t, []string{"task_1", "task_2", "task_3"}, []string{c.Tasks[0].ID, c.Tasks[1].ID, c.Tasks[2].ID})

	c.Toggle("task_1")
	assert.Equal(t, 67, c.Progress())
	c.Toggle("task_3")
	assert.Equal(t, 100, c.Progress())

	c.Toggle("task_3")
	assert.Equal(t, 2, c.Completed())
	assert.False(t, c.Toggle("task_9"))

	assert.Equal(t, 0, OnboardingChecklist{}.Progress())
}

func TestMessageValidate(t *testing.T) {
	calls := []ToolCall{{ID: "c", Name: "x"}}
	assert.NoError(t, Message{Role: RoleAssistant, ToolCalls: calls}.Validate())
	assert.NoError(t, Message{Role: RoleUser}.Validate())
	assert.ErrorIs(t, Message{Role: RoleUser, ToolCalls: calls}.Validate(), ErrToolCallsOnNonAssistant)
}

func TestDescribeToolCall(t *testing.T) {
	tests := []struct {
		name string
		call ToolCall
		want string
	}{
		{"pending", ToolCall{Name: "get_weather"}, "Executing get_weather..."},
		{"error", ToolCall{Name: "get_weather", Result: ErrorResult("provider down")}, "Error: provider down"},
		{"onboarding", ToolCall{Name: "start_onboarding_process", Result: onboardingResult()}, "Onboarding for Alex Doe initiated."},
		{"onboarding without checklist", ToolCall{Name: "start_onboarding_process", Result: ToolResult{"status": "success"}}, "Onboarding initiated."},
		{"pto", ToolCall{Name: "request_pto_balance", Result: ToolResult{"pto_balance_hours": "57.5"}}, "PTO Balance: 57.5 hours."},
		{"policy found", ToolCall{Name: "find_policy_document", Result: ToolResult{"status": "found", "document_title": "Code of Conduct"}}, "Found: Code of Conduct"},
		{"policy missing", ToolCall{Name: "find_policy_document", Result: ToolResult{"status": "not_found"}}, "Policy not found."},
		{"other", ToolCall{Name: "files__read", Result: ToolResult{"content": "..."}}, "files__read executed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeToolCall(tt.call))
		})
	}
}

func TestAsFunctionTools(t *testing.T) {
	defs := []ToolDefinition{{Name: "a"}, {Name: "b"}}
	wrapped := AsFunctionTools(defs)
	require.Len(t, wrapped, 2)
	assert.Equal(t, "function", wrapped[0].Type)
	assert.Equal(t, "b", wrapped[1].Function.Name)
	assert.Equal(t, []string{"a", "b"}, ToolNames(defs))

	schema := ToolParameters{}.Schema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{}, schema["required"])
}
