package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"nexushr/config"
	"nexushr/model"
)

const flashDuration = 4 * time.Second

// reserved rows: header, blank, status line, input (3), footer
const chromeHeight = 7

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		cmd := a.scheduleRenders()
		return a, cmd

	case snapshotMsg:
		atBottom := a.viewport.AtBottom() || msg.Snapshot.State.IsProcessing
		if msg.Snapshot.State.SessionID != a.state.SessionID {
			a.lastChecklist = nil
			atBottom = true
		}
		a.state = msg.Snapshot.State
		a.sessions = msg.Snapshot.Sessions
		a.sidebar.clamp(len(a.sidebar.visible(a.sessions)))
		a.pruneRendered()
		a.syncViewport(atBottom)
		cmd := a.scheduleRenders()
		return a, cmd

	case markdownRenderedMsg:
		delete(a.rendering, msg.MessageID)
		if msg.Width == a.renderWidth {
			a.rendered[msg.MessageID] = msg.Rendered
			a.syncViewport(a.viewport.AtBottom())
		}
		return a, nil

	case checklistOpenedMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] opening onboarding checklist for %s", msg.Checklist.EmployeeName)
		}
		a.checklist = newChecklistView(msg.Checklist)
		a.showHelp = false
		return a, nil

	case actionDoneMsg:
		if msg.Err == nil || errors.Is(msg.Err, model.ErrBusy) || errors.Is(msg.Err, model.ErrEmptyInput) {
			return a, nil
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] %s failed: %v", msg.Action, msg.Err)
		}
		// failed turns already surface through ChatState.Err
		if msg.Action == "send" && !errors.Is(msg.Err, model.ErrNoActiveSession) {
			return a, nil
		}
		cmd := a.setFlash("Failed to "+msg.Action+": "+msg.Err.Error(), true)
		return a, cmd

	case flashClearMsg:
		if msg.Seq == a.flashSeq {
			a.flash = ""
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.state.IsProcessing {
			a.syncViewport(a.viewport.AtBottom())
		}
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "alt+h", "q":
			a.showHelp = false
		}
		return a, nil
	}

	if a.checklist != nil {
		if a.checklist.update(msg) {
			data := a.checklist.data
			a.lastChecklist = &data
			a.checklist = nil
		}
		return a, nil
	}

	if a.sidebar.focused {
		action, cmd := a.sidebar.update(msg, a.sessions)
		return a.applySidebarAction(action, cmd)
	}

	switch msg.String() {
	case "alt+h":
		a.showHelp = true
		return a, nil

	case "alt+n":
		return a, a.actionCmd("create session", a.orch.NewSession)

	case "alt+s":
		a.sidebar.focused = true
		a.input.Blur()
		a.syncSidebarSelection()
		return a, nil

	case "alt+o":
		if a.lastChecklist != nil {
			a.checklist = newChecklistView(*a.lastChecklist)
		} else if c, ok := latestChecklist(a.state.Messages); ok {
			a.checklist = newChecklistView(c)
		}
		return a, nil

	case "alt+y":
		last, ok := a.state.LastAssistant()
		if !ok || last.Content == "" {
			cmd := a.setFlash("Nothing to copy yet", false)
			return a, cmd
		}
		if err := a.copyText(last.Content); err != nil {
			cmd := a.setFlash("Failed to copy: "+err.Error(), true)
			return a, cmd
		}
		cmd := a.setFlash("Copied last reply", false)
		return a, cmd

	case "pgup":
		a.viewport.HalfPageUp()
		return a, nil

	case "pgdown":
		a.viewport.HalfPageDown()
		return a, nil

	case "enter":
		if a.state.IsProcessing {
			return a, nil
		}
		text := a.input.Value()
		if strings.TrimSpace(text) == "" {
			return a, nil
		}
		a.input.Reset()
		return a, a.submitCmd(text)
	}

	if prompt, ok := welcomePrompt(msg.String()); ok {
		if a.state.IsProcessing {
			return a, nil
		}
		return a, a.submitCmd(prompt)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a AppView) applySidebarAction(action sidebarAction, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch action.Kind {
	case sidebarOpen:
		a.blurSidebar()
		if action.ID == a.state.SessionID {
			return a, textarea.Blink
		}
		id := action.ID
		return a, tea.Batch(textarea.Blink, a.actionCmd("switch session", func(ctx context.Context) error {
			return a.orch.SwitchSession(ctx, id)
		}))
	case sidebarRename:
		id, title := action.ID, action.Title
		return a, a.actionCmd("rename session", func(ctx context.Context) error {
			return a.orch.RenameSession(ctx, id, title)
		})
	case sidebarDelete:
		id := action.ID
		return a, a.actionCmd("delete session", func(ctx context.Context) error {
			return a.orch.DeleteSession(ctx, id)
		})
	case sidebarBlur:
		a.blurSidebar()
		return a, textarea.Blink
	}
	return a, cmd
}

func (a *AppView) blurSidebar() {
	a.sidebar.focused = false
	a.input.Focus()
}

// syncSidebarSelection points the sidebar cursor at the active session.
func (a *AppView) syncSidebarSelection() {
	for i, s := range a.sidebar.visible(a.sessions) {
		if s.ID == a.state.SessionID {
			a.sidebar.selected = i
			return
		}
	}
}

func (a *AppView) setFlash(text string, isErr bool) tea.Cmd {
	a.flashSeq++
	a.flash = text
	a.flashErr = isErr
	seq := a.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{Seq: seq}
	})
}

func (a *AppView) showSidebar() bool {
	return a.width >= 80
}

func (a *AppView) mainWidth() int {
	if a.showSidebar() {
		return a.width - sidebarWidth
	}
	return a.width
}

func (a *AppView) layout() {
	w := a.mainWidth()
	a.viewport.Width = w
	a.viewport.Height = max(a.height-chromeHeight, 1)
	a.input.SetWidth(w)

	if w != a.renderWidth {
		a.renderWidth = w
		a.rendered = map[string]string{}
		a.rendering = map[string]bool{}
	}
	a.syncViewport(true)
}

// scheduleRenders starts markdown rendering for assistant messages that are
// not yet cached at the current width.
func (a *AppView) scheduleRenders() tea.Cmd {
	if !a.ready {
		return nil
	}
	var cmds []tea.Cmd
	for _, m := range a.state.Messages {
		if m.Role != model.RoleAssistant || m.Content == "" {
			continue
		}
		if _, ok := a.rendered[m.ID]; ok || a.rendering[m.ID] {
			continue
		}
		a.rendering[m.ID] = true
		cmds = append(cmds, renderMarkdownCmd(m.ID, m.Content, a.renderWidth))
	}
	return tea.Batch(cmds...)
}

// pruneRendered drops cache entries for messages no longer on screen.
func (a *AppView) pruneRendered() {
	live := make(map[string]bool, len(a.state.Messages))
	for _, m := range a.state.Messages {
		live[m.ID] = true
	}
	for id := range a.rendered {
		if !live[id] {
			delete(a.rendered, id)
		}
	}
}

// latestChecklist finds the most recent onboarding payload in the transcript.
func latestChecklist(messages []model.Message) (model.OnboardingChecklist, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		calls := messages[i].ToolCalls
		for j := len(calls) - 1; j >= 0; j-- {
			if c, err := model.ParseOnboardingChecklist(calls[j].Result); err == nil {
				return c, true
			}
		}
	}
	return model.OnboardingChecklist{}, false
}
