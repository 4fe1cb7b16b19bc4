// Package ui is the terminal front-end: the transcript with streaming text
// and inline tool-call lines, a session sidebar, suggested prompts and the
// onboarding workflow modal. All state comes from orchestrator snapshots.
package ui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"nexushr/model"
)

// Orchestrator is the slice of model.Orchestrator the view drives. Calls
// that change state publish snapshots back into the program, so the view
// only ever invokes them from commands, never from Update itself.
type Orchestrator interface {
	State() model.ChatState
	Sessions() []model.SessionInfo
	Submit(ctx context.Context, text string) error
	LoadSessions(ctx context.Context, switchTo string) error
	NewSession(ctx context.Context) error
	SwitchSession(ctx context.Context, id string) error
	DeleteSession(ctx context.Context, id string) error
	RenameSession(ctx context.Context, id, title string) error
}

// Options configure the initial view.
type Options struct {
	// SwitchTo is the session to open on start, usually the one the user
	// last had open.
	SwitchTo string
}

type AppView struct {
	orch Orchestrator
	ctx  context.Context
	opts Options

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// latest orchestrator snapshot
	state    model.ChatState
	sessions []model.SessionInfo

	// markdown cache keyed by message id, valid for renderWidth only
	rendered    map[string]string
	rendering   map[string]bool
	renderWidth int

	sidebar       sidebar
	checklist     *checklistView
	lastChecklist *model.OnboardingChecklist
	showHelp      bool

	flash    string
	flashErr bool
	flashSeq int

	copyText func(string) error
}

func NewAppView(ctx context.Context, orch Orchestrator, opts Options) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask NexusHR anything..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter sends; Alt+Enter breaks the line.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	return AppView{
		orch:      orch,
		ctx:       ctx,
		opts:      opts,
		viewport:  viewport.New(0, 0),
		input:     ta,
		spinner:   sp,
		state:     orch.State(),
		sessions:  orch.Sessions(),
		rendered:  map[string]string{},
		rendering: map[string]bool{},
		sidebar:   newSidebar(),
		copyText:  clipboard.WriteAll,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.spinner.Tick,
		a.actionCmd("load sessions", func(ctx context.Context) error {
			return a.orch.LoadSessions(ctx, a.opts.SwitchTo)
		}),
	)
}

// actionCmd runs an orchestrator call off the update loop.
func (a AppView) actionCmd(action string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return actionDoneMsg{Action: action, Err: fn(ctx)}
	}
}

func (a AppView) submitCmd(text string) tea.Cmd {
	return a.actionCmd("send", func(ctx context.Context) error {
		return a.orch.Submit(ctx, text)
	})
}

// Run starts the terminal UI and blocks until the user quits. Snapshots and
// onboarding side effects are bridged into the program as messages.
func Run(ctx context.Context, orch *model.Orchestrator, opts Options) error {
	p := tea.NewProgram(
		NewAppView(ctx, orch, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	dispatcher := model.NewDispatcher(model.RouteOnboarding(func(c model.OnboardingChecklist) {
		p.Send(checklistOpenedMsg{Checklist: c})
	}))
	orch.Subscribe(func(s model.Snapshot) {
		p.Send(snapshotMsg{Snapshot: s})
	})
	orch.Subscribe(dispatcher.Listener())

	_, err := p.Run()
	return err
}
