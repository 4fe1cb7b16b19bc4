package ui

import (
	"nexushr/model"
)

// snapshotMsg carries an orchestrator state change into the update loop.
type snapshotMsg struct {
	Snapshot model.Snapshot
}

// checklistOpenedMsg asks the view to show the onboarding workflow modal.
type checklistOpenedMsg struct {
	Checklist model.OnboardingChecklist
}

// actionDoneMsg reports the outcome of a background orchestrator call.
type actionDoneMsg struct {
	Action string
	Err    error
}

type markdownRenderedMsg struct {
	MessageID string
	Width     int
	Rendered  string
}

type flashClearMsg struct {
	Seq int
}
