package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nexushr/model"
)

const progressBarWidth = 30

// checklistView is the onboarding workflow modal. Toggling tasks only
// changes this view; the conversation is not touched.
type checklistView struct {
	data   model.OnboardingChecklist
	cursor int
}

func newChecklistView(data model.OnboardingChecklist) *checklistView {
	return &checklistView{data: data}
}

// update handles a key press and reports whether the modal should close.
func (c *checklistView) update(msg tea.KeyMsg) (closed bool) {
	switch msg.String() {
	case "esc", "q":
		return true
	case "j", "down":
		if c.cursor < len(c.data.Tasks)-1 {
			c.cursor++
		}
	case "k", "up":
		if c.cursor > 0 {
			c.cursor--
		}
	case " ", "x", "enter":
		if c.cursor < len(c.data.Tasks) {
			c.data.Toggle(c.data.Tasks[c.cursor].ID)
		}
	}
	return false
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return DoneStyle.Render(strings.Repeat("█", filled)) + DimStyle.Render(strings.Repeat("░", width-filled))
}

func (c *checklistView) render(width, height int) string {
	title := UserStyle.Render("Onboarding: " + c.data.EmployeeName)
	sub := DimStyle.Render("Start date: " + c.data.StartDate)

	var items []string
	for i, task := range c.data.Tasks {
		box := "[ ]"
		text := task.Text
		if task.Completed {
			box = DoneStyle.Render("[x]")
			text = DimStyle.Strikethrough(true).Render(text)
		}
		line := fmt.Sprintf("%s %s", box, text)
		if i == c.cursor {
			line = SelectedStyle.Render("▶ ") + line
		} else {
			line = "  " + line
		}
		items = append(items, line)
	}
	if len(items) == 0 {
		items = append(items, DimStyle.Render("No tasks."))
	}

	progress := fmt.Sprintf("%s %d%% (%d/%d)", progressBar(c.data.Progress(), progressBarWidth),
		c.data.Progress(), c.data.Completed(), len(c.data.Tasks))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		sub,
		"",
		strings.Join(items, "\n"),
		"",
		progress,
		"",
		FormatFooter("j/k", "Navigate", "Space", "Toggle", "Esc", "Close"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content))
}
