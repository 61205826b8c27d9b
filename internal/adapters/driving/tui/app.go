package tui

import (
	"context"
	"fmt"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finder/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/views/citations"
	"github.com/custodia-labs/finder/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/logger"
)

// statusHeight is the number of rows reserved for the status bar.
const statusHeight = 1

// Options configures the application.
type Options struct {
	// ExitOnOpen quits before the editor runs; the caller runs it with
	// OpenAfterExit once the terminal is restored.
	ExitOnOpen bool

	// MarkdownStyle is the glamour style for finished answers. Empty
	// follows the terminal background.
	MarkdownStyle string
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Keys are translated into session inputs; the session decides what they
// mean in the active mode and the app carries out the returned effect.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	opts   Options
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView    *search.View
	chatView      *chat.View
	citationsView *citations.View
	statusbar     *status.Bar

	// watching is true while a command is blocked on the session's
	// update channel. At most one such command exists.
	watching bool

	// flash is a status message set by the last completed action.
	flash string

	// err holds the last error that occurred.
	err error

	// openAfterExit is the editor to run once the program has quit.
	openAfterExit *exec.Cmd

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, opts Options) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.AdaptiveStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		opts:          opts,
		styles:        s,
		keymap:        km,
		searchView:    search.NewView(s, ports.Session),
		chatView:      chat.NewView(s, ports.Session, opts.MarkdownStyle),
		citationsView: citations.NewView(s, ports.Session),
		statusbar:     status.NewBar(s, km),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("finder"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.ChatUpdated:
		a.ports.Session.Pump()
		if a.ports.Session.Streaming() {
			return a, a.waitForChat()
		}
		a.watching = false
		return a, nil

	case messages.EditorFinished:
		if msg.Err != nil {
			logger.Debug("Editor exited for %s:%d: %v", msg.Location.Path, msg.Location.Line, msg.Err)
		}
		return a, nil

	case messages.LineCopied:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.flash = fmt.Sprintf("copied %s:%d", msg.Location.Path, msg.Location.Line)
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil
	}

	return a, nil
}

// handleKey routes a key press through the session and carries out the
// effects.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	a.flash = ""
	a.err = nil

	var cmds []tea.Cmd
	for _, in := range a.keymap.Inputs(a.ports.Session.Mode(), msg) {
		effect := a.ports.Session.Handle(a.ctx, in)
		if effect.Quit {
			return tea.Quit
		}
		if cmd := a.apply(effect); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if a.openAfterExit != nil {
			return tea.Quit
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) apply(effect domain.Effect) tea.Cmd {
	switch {
	case effect.Open != nil:
		return a.open(*effect.Open)
	case effect.Copy != nil:
		return a.copyLine(*effect.Copy)
	case effect.Watch:
		if a.watching {
			return nil
		}
		return a.waitForChat()
	}
	return nil
}

func (a *App) open(loc domain.Location) tea.Cmd {
	cmd, err := a.ports.ResultAction.EditorCommand(loc)
	if err != nil {
		a.err = err
		return nil
	}
	logger.Debug("Opening %s:%d with %s", loc.Path, loc.Line, cmd.Path)

	if a.opts.ExitOnOpen {
		a.openAfterExit = cmd
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return messages.EditorFinished{Location: loc, Err: err}
	})
}

func (a *App) copyLine(loc domain.Location) tea.Cmd {
	ctx := a.ctx
	actions := a.ports.ResultAction
	return func() tea.Msg {
		return messages.LineCopied{Location: loc, Err: actions.CopyToClipboard(ctx, loc)}
	}
}

// waitForChat blocks until the session has streamed text to apply.
func (a *App) waitForChat() tea.Cmd {
	a.watching = true
	updates := a.ports.Session.Updates()
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case <-updates:
			return messages.ChatUpdated{}
		case <-ctx.Done():
			return nil
		}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.ports.Session.Mode() {
	case domain.ModeChat:
		body = a.chatView.View()
	case domain.ModeCitations:
		body = a.citationsView.View()
	default:
		body = a.searchView.View()
	}

	a.syncStatus()
	body = lipgloss.NewStyle().Height(max(a.height-statusHeight, 0)).MaxHeight(max(a.height-statusHeight, 0)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusbar.View())
}

func (a *App) syncStatus() {
	session := a.ports.Session
	mode := session.Mode()

	a.statusbar.SetMode(mode)
	switch mode {
	case domain.ModeCitations:
		a.statusbar.SetResultCount(len(session.Citations()))
	case domain.ModeSearch:
		a.statusbar.SetResultCount(len(session.Matches()))
	default:
		a.statusbar.SetResultCount(0)
	}

	switch {
	case a.err != nil:
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(a.err.Error())
	case session.Notice() != "":
		a.statusbar.SetState(status.StateNotice)
		a.statusbar.SetMessage(session.Notice())
	case a.flash != "":
		a.statusbar.SetState(status.StateNotice)
		a.statusbar.SetMessage(a.flash)
	case session.Streaming() && mode == domain.ModeChat:
		a.statusbar.SetState(status.StateStreaming)
		a.statusbar.SetMessage("")
	default:
		a.statusbar.SetState(status.StateReady)
		a.statusbar.SetMessage("")
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// OpenAfterExit returns the editor command to run once the program has
// exited, or nil.
func (a *App) OpenAfterExit() *exec.Cmd {
	return a.openAfterExit
}

// Mode returns the active session mode.
func (a *App) Mode() domain.Mode {
	return a.ports.Session.Mode()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Flash returns the status message of the last completed action.
func (a *App) Flash() string {
	return a.flash
}

// Watching returns true while the app waits for streamed chat text.
func (a *App) Watching() bool {
	return a.watching
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := max(height-statusHeight, 1)
	a.searchView.SetDimensions(width, bodyHeight)
	a.chatView.SetDimensions(width, bodyHeight)
	a.citationsView.SetDimensions(width, bodyHeight)
	a.statusbar.SetWidth(width)
}
