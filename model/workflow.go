package model

import (
	"encoding/json"
	"fmt"
)

const (
	// UIComponentKey is the marker field a tool result uses to ask for a
	// structured view outside the transcript.
	UIComponentKey = "ui_component"

	OnboardingChecklistComponent = "onboarding_checklist"
)

// ChecklistTask is one onboarding step.
type ChecklistTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// OnboardingChecklist is the payload handed to the workflow view. Task order
// is fixed; Completed is toggled by the view independently of the conversation.
type OnboardingChecklist struct {
	EmployeeName string          `json:"employee_name"`
	StartDate    string          `json:"start_date"`
	Tasks        []ChecklistTask `json:"checklist"`
}

// HasMarker reports whether a tool result opts into the given component view.
func HasMarker(result ToolResult, component string) bool {
	v, ok := result[UIComponentKey].(string)
	return ok && v == component
}

// ParseOnboardingChecklist extracts the checklist payload from a tool result.
// The result may hold typed values (fresh from the executor) or decoded JSON
// (read back from storage), so it goes through a JSON round trip.
func ParseOnboardingChecklist(result ToolResult) (OnboardingChecklist, error) {
	var c OnboardingChecklist
	if !HasMarker(result, OnboardingChecklistComponent) {
		return c, fmt.Errorf("tool result has no %s marker", OnboardingChecklistComponent)
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return c, fmt.Errorf("failed to encode tool result: %w", err)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("failed to decode onboarding checklist: %w", err)
	}
	return c, nil
}

// Toggle flips the completion of the task with the given id.
func (c *OnboardingChecklist) Toggle(id string) bool {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			c.Tasks[i].Completed = !c.Tasks[i].Completed
			return true
		}
	}
	return false
}

// Completed counts finished tasks.
func (c OnboardingChecklist) Completed() int {
	n := 0
	for _, t := range c.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Progress is the completed share as a whole percentage, rounded to nearest.
func (c OnboardingChecklist) Progress() int {
	if len(c.Tasks) == 0 {
		return 0
	}
	return (c.Completed()*100 + len(c.Tasks)/2) / len(c.Tasks)
}
