package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nexushr/model"
)

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}
	if a.checklist != nil {
		return a.checklist.render(a.width, a.height)
	}

	main := lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderHeader(),
		"",
		a.viewport.View(),
		a.renderStatusLine(),
		a.input.View(),
		a.renderFooter(),
	)

	if !a.showSidebar() {
		return main
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.sidebar.render(a.height, a.sessions, a.state.SessionID),
		main,
	)
}

func (a AppView) renderHeader() string {
	title := model.DefaultSessionTitle
	for _, s := range a.sessions {
		if s.ID == a.state.SessionID {
			title = s.Title
			break
		}
	}
	return UserStyle.Render("NexusHR") +
		DimStyle.Render(" | ") + TitleStyle.Render(title) +
		DimStyle.Render(" | "+a.state.Model)
}

func (a AppView) renderStatusLine() string {
	switch {
	case a.flash != "" && a.flashErr:
		return ErrorStyle.Render(a.flash)
	case a.flash != "":
		return DoneStyle.Render(a.flash)
	case a.state.IsProcessing:
		return a.spinner.View() + DimStyle.Render(" Thinking...")
	}
	return ""
}

func (a AppView) renderFooter() string {
	return StatusStyle.Render(FormatFooter(
		"Enter", "Send",
		"Alt+Enter", "New line",
		"Alt+N", "New chat",
		"Alt+S", "Sessions",
		"Alt+Y", "Copy",
		"Alt+H", "Help",
	))
}

func (a *AppView) syncViewport(gotoBottom bool) {
	a.viewport.SetContent(a.renderTranscript(a.viewport.Width))
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderTranscript draws the conversation: persisted messages with their
// tool-call lines, then the in-flight or interrupted assistant reply.
func (a AppView) renderTranscript(width int) string {
	if width <= 0 {
		width = 80
	}
	if len(a.state.Messages) == 0 && !a.state.IsProcessing && a.state.Interrupted == "" && a.state.Err == nil {
		return renderWelcome(width)
	}

	wrap := lipgloss.NewStyle().Width(width - 2).PaddingLeft(2)
	var b strings.Builder

	for _, m := range a.state.Messages {
		switch m.Role {
		case model.RoleUser:
			b.WriteString(formatHeading(UserStyle.Render("You"), m))
			b.WriteString(wrap.Render(m.Content))
			b.WriteString("\n\n")

		case model.RoleAssistant:
			b.WriteString(formatHeading(AssistantStyle.Render("Assistant"), m))
			if m.Content != "" {
				if rendered, ok := a.rendered[m.ID]; ok {
					b.WriteString(rendered)
				} else {
					b.WriteString(wrap.Render(m.Content))
				}
				b.WriteString("\n")
			}
			for _, call := range m.ToolCalls {
				b.WriteString(renderToolCall(call))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if a.state.IsProcessing {
		b.WriteString(AssistantStyle.Render("Assistant"))
		b.WriteString("\n")
		if a.state.Streaming == "" {
			b.WriteString("  " + a.spinner.View())
		} else {
			b.WriteString(wrap.Render(a.state.Streaming))
		}
		b.WriteString("\n")
	} else if a.state.Interrupted != "" || a.state.Err != nil {
		b.WriteString(AssistantStyle.Render("Assistant"))
		b.WriteString("\n")
		if a.state.Interrupted != "" {
			b.WriteString(wrap.Render(a.state.Interrupted))
			b.WriteString("\n")
		}
		if a.state.Err != nil {
			b.WriteString(wrap.Render(ErrorStyle.Render("Error: " + a.state.Err.Error())))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatHeading(role string, m model.Message) string {
	if m.Timestamp.IsZero() {
		return role + "\n"
	}
	return fmt.Sprintf("%s %s\n", role, DimStyle.Render(m.Timestamp.Local().Format("15:04")))
}

func renderToolCall(call model.ToolCall) string {
	line := "  ⚙ " + model.DescribeToolCall(call)
	if _, failed := call.Result.Failure(); failed {
		return ErrorStyle.Render(line)
	}
	if model.HasMarker(call.Result, model.OnboardingChecklistComponent) {
		return ToolStyle.Render(line) + DimStyle.Render(" (Alt+O to reopen checklist)")
	}
	return ToolStyle.Render(line)
}
