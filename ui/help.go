package ui

import (
	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	green := lipgloss.NewStyle().Bold(true).Foreground(successColor)
	blue := lipgloss.NewStyle().Foreground(accentColor)

	global := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Global"),
		"• Alt+N         New chat",
		"• Alt+S         Focus sessions",
		"• Alt+O         Reopen onboarding checklist",
		"• Alt+Y         Copy last reply",
		"• Alt+H         Toggle this help",
		"• Ctrl+C        Quit",
	)

	chat := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Chat"),
		"• Enter         Send message",
		"• Alt+Enter     New line",
		"• Alt+1..4      Send a suggested prompt",
		"• PgUp/PgDn     Scroll transcript",
	)

	sessions := lipgloss.JoinVertical(
		lipgloss.Left,
		blue.Render("## Sessions"),
		"• j/k           Navigate",
		"• Enter         Open",
		"• /             Filter",
		"• r             Rename",
		"• d             Delete",
		"• Esc           Back to chat",
	)

	columnStyle := lipgloss.NewStyle().Width(40).PaddingLeft(4)
	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, global, "", chat)),
		columnStyle.Render(sessions),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		green.Render("NexusHR - Keyboard Shortcuts"),
		"",
		columns,
		"",
		DimStyle.Render("Press Alt+H or Esc to close this help"),
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content))
}
