package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"nexushr/model"
)

const sidebarWidth = 30

type sidebarActionKind int

const (
	sidebarNone sidebarActionKind = iota
	sidebarOpen
	sidebarRename
	sidebarDelete
	sidebarBlur
)

type sidebarAction struct {
	Kind  sidebarActionKind
	ID    string
	Title string
}

// sidebar lists sessions, most recently updated first as the service
// returns them, with fuzzy filtering on titles.
type sidebar struct {
	focused       bool
	selected      int
	filtering     bool
	filter        textinput.Model
	renaming      bool
	rename        textinput.Model
	confirmDelete bool
}

func newSidebar() sidebar {
	filter := textinput.New()
	filter.Prompt = "Filter: "
	filter.CharLimit = 64

	rename := textinput.New()
	rename.Prompt = "Title: "
	rename.CharLimit = 120

	return sidebar{filter: filter, rename: rename}
}

func (s *sidebar) visible(sessions []model.SessionInfo) []model.SessionInfo {
	value := s.filter.Value()
	if value == "" {
		return sessions
	}
	targets := make([]string, len(sessions))
	for i, sess := range sessions {
		targets[i] = sess.Title
	}
	matches := fuzzy.Find(value, targets)
	out := make([]model.SessionInfo, len(matches))
	for i, m := range matches {
		out[i] = sessions[m.Index]
	}
	return out
}

func (s *sidebar) clamp(n int) {
	if s.selected >= n {
		s.selected = n - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *sidebar) current(sessions []model.SessionInfo) (model.SessionInfo, bool) {
	list := s.visible(sessions)
	if s.selected < 0 || s.selected >= len(list) {
		return model.SessionInfo{}, false
	}
	return list[s.selected], true
}

func (s *sidebar) update(msg tea.KeyMsg, sessions []model.SessionInfo) (sidebarAction, tea.Cmd) {
	if s.renaming {
		switch msg.String() {
		case "esc":
			s.renaming = false
			s.rename.Blur()
			return sidebarAction{}, nil
		case "enter":
			s.renaming = false
			s.rename.Blur()
			sess, ok := s.current(sessions)
			if !ok {
				return sidebarAction{}, nil
			}
			return sidebarAction{Kind: sidebarRename, ID: sess.ID, Title: s.rename.Value()}, nil
		}
		var cmd tea.Cmd
		s.rename, cmd = s.rename.Update(msg)
		return sidebarAction{}, cmd
	}

	if s.confirmDelete {
		s.confirmDelete = false
		if msg.String() != "y" {
			return sidebarAction{}, nil
		}
		sess, ok := s.current(sessions)
		if !ok {
			return sidebarAction{}, nil
		}
		return sidebarAction{Kind: sidebarDelete, ID: sess.ID}, nil
	}

	if s.filtering {
		switch msg.String() {
		case "esc":
			s.filtering = false
			s.filter.Blur()
			s.filter.SetValue("")
			s.selected = 0
			return sidebarAction{}, nil
		case "enter", "up", "down":
			s.filtering = false
			s.filter.Blur()
			return sidebarAction{}, nil
		}
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		s.clamp(len(s.visible(sessions)))
		return sidebarAction{}, cmd
	}

	list := s.visible(sessions)
	switch msg.String() {
	case "esc", "tab":
		return sidebarAction{Kind: sidebarBlur}, nil
	case "j", "down":
		if s.selected < len(list)-1 {
			s.selected++
		}
	case "k", "up":
		if s.selected > 0 {
			s.selected--
		}
	case "/":
		s.filtering = true
		s.filter.SetValue("")
		s.filter.Focus()
		return sidebarAction{}, textinput.Blink
	case "r":
		if sess, ok := s.current(sessions); ok {
			s.renaming = true
			s.rename.SetValue(sess.Title)
			s.rename.CursorEnd()
			s.rename.Focus()
			return sidebarAction{}, textinput.Blink
		}
	case "d":
		if _, ok := s.current(sessions); ok {
			s.confirmDelete = true
		}
	case "enter":
		if sess, ok := s.current(sessions); ok {
			return sidebarAction{Kind: sidebarOpen, ID: sess.ID}, nil
		}
	}
	return sidebarAction{}, nil
}

func (s *sidebar) render(height int, sessions []model.SessionInfo, activeID string) string {
	inner := sidebarWidth - 2
	var lines []string

	header := TitleStyle.Render("Sessions")
	if s.focused {
		header = HighlightStyle.Render("Sessions")
	}
	lines = append(lines, header, "")

	list := s.visible(sessions)
	for i, sess := range list {
		marker := "  "
		if sess.ID == activeID {
			marker = "● "
		}
		title := runewidth.Truncate(sess.Title, inner-runewidth.StringWidth(marker), "…")
		line := marker + title
		switch {
		case s.focused && i == s.selected:
			line = SelectedStyle.Render(line)
		case sess.ID == activeID:
			line = AssistantStyle.Render(line)
		}
		lines = append(lines, line, DimStyle.Render("  "+formatTimeAgo(sess.UpdatedAt)))
	}
	if len(list) == 0 {
		lines = append(lines, DimStyle.Render("No sessions"))
	}

	var footer string
	switch {
	case s.renaming:
		footer = s.rename.View()
	case s.confirmDelete:
		footer = ErrorStyle.Render("Delete? y/N")
	case s.filtering || s.filter.Value() != "":
		footer = s.filter.View()
	}

	body := strings.Join(lines, "\n")
	if footer != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
	}

	return lipgloss.NewStyle().
		Width(inner).
		Height(max(height-2, 1)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(body)
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
