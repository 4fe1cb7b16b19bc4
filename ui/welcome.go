package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// WelcomePrompts are offered on an empty conversation. Alt+1..Alt+4 sends one.
var WelcomePrompts = []string{
	"What is our company's PTO policy?",
	"Start the onboarding process for 'Alex Doe'",
	"Find the remote work policy document",
	"How do I submit an expense report?",
}

// welcomePrompt maps an alt+digit key to its prompt.
func welcomePrompt(key string) (string, bool) {
	var n int
	if _, err := fmt.Sscanf(key, "alt+%d", &n); err != nil {
		return "", false
	}
	if n < 1 || n > len(WelcomePrompts) {
		return "", false
	}
	return WelcomePrompts[n-1], true
}

func renderWelcome(width int) string {
	title := UserStyle.Render("NexusHR Assistant")
	intro := DimStyle.Render("Ask about policies, time off or onboarding. Try one of these:")

	var lines []string
	for i, p := range WelcomePrompts {
		lines = append(lines, fmt.Sprintf("%s %s", HighlightStyle.Render(fmt.Sprintf("Alt+%d", i+1)), p))
	}

	return lipgloss.NewStyle().Width(width).Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, intro, "", strings.Join(lines, "\n")),
	)
}
