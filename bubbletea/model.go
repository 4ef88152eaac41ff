package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/seek"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the seek TUI. It renders the
// conversation owned by the controller and never mutates it directly.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	ctrl       *seek.Controller
	feed       *Feed
	theme      seek.Theme
	styles     Styles
	maxSources int

	blocks []MessageBlock
	agents map[int]*AgentBlock // keyed by turn ID

	loading   bool
	listening bool
	cancel    context.CancelFunc
	handle    *seek.Handle
	err       error
	ready     bool
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the color theme.
func WithTheme(t seek.Theme) Option {
	return func(m *Model) {
		m.theme = t
		m.styles = NewStyles(t)
	}
}

// WithMaxSources sets how many sources are shown per turn.
func WithMaxSources(n int) Option {
	return func(m *Model) { m.maxSources = n }
}

// New creates a Model over ctrl. The feed must be the one whose Publish was
// registered with the controller's update handler.
func New(ctrl *seek.Controller, feed *Feed, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask anything..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	theme := seek.DefaultTheme()
	m := Model{
		Input:      ti,
		ctrl:       ctrl,
		feed:       feed,
		theme:      theme,
		styles:     NewStyles(theme),
		maxSources: seek.DefaultMaxSources,
		agents:     make(map[int]*AgentBlock),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Loading returns whether a turn is in flight.
func (m Model) Loading() bool { return m.loading }

// Err returns the last stream error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamOpenedMsg:
		if msg.Err != nil {
			m = m.finish(msg.Err)
			return m, m.Input.Focus()
		}
		m.handle = msg.Handle
		m, cmd = m.sync()
		return m, tea.Batch(cmd, runStream(msg.Handle))

	case TurnUpdatedMsg:
		m.listening = false
		m, cmd = m.sync()
		cmds = append(cmds, cmd)
		if m.loading {
			m.listening = true
			cmds = append(cmds, listenForUpdate(m.feed))
		}
		return m, tea.Batch(cmds...)

	case StreamDoneMsg:
		m = m.finish(msg.Err)
		m, cmd = m.sync()
		return m, tea.Batch(cmd, m.Input.Focus())

	case spinner.TickMsg:
		for _, b := range m.agents {
			if !b.Loading() {
				continue
			}
			_, cmd = b.Update(msg)
			cmds = append(cmds, cmd)
		}
		m = m.refresh()
		return m, tea.Batch(cmds...)
	}

	// Pass remaining messages to sub-components.
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.loading {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
		m, _ = m.sync()
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m = m.refresh()
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.loading {
			if m.handle != nil {
				_ = m.handle.Close()
			} else if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.loading {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)
	}

	// Runes go to the input only; 'j'/'k' are both viewport keys and text.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if !m.loading {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.Input.Blur()
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true

	cmds := []tea.Cmd{openStream(ctx, m.ctrl, text)}
	if !m.listening {
		m.listening = true
		cmds = append(cmds, listenForUpdate(m.feed))
	}
	return m, tea.Batch(cmds...)
}

// finish leaves the loading state after a stream ended or failed to open.
func (m Model) finish(err error) Model {
	m.loading = false
	m.handle = nil
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, seek.ErrStreamClosed) {
		m.err = err
	}
	return m
}

// sync rebuilds the block list from the conversation. Agent blocks are
// reused across syncs so their render caches and spinners survive.
func (m Model) sync() (Model, tea.Cmd) {
	turns := m.ctrl.Conversation().Turns()
	blocks := make([]MessageBlock, 0, len(turns))
	var cmds []tea.Cmd
	for _, t := range turns {
		if t.Author == seek.AuthorUser {
			blocks = append(blocks, NewUserMessageBlock(t.Text, m.styles))
			continue
		}
		b, ok := m.agents[t.ID]
		if !ok {
			b = NewAgentBlock(t.ID, m.theme, m.maxSources, m.styles)
			m.agents[t.ID] = b
		}
		cmds = append(cmds, b.SetTurn(t))
		blocks = append(blocks, b)
	}
	m.blocks = blocks
	m = m.refresh()
	m.Viewport.GotoBottom()
	return m, tea.Batch(cmds...)
}

func (m Model) refresh() Model {
	if m.ready {
		m.Viewport.SetContent(m.renderContent())
	}
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.loading {
		return m.styles.Muted.Render("Searching... Ctrl+C to cancel")
	}
	return m.styles.Muted.Render("Enter to send, Ctrl+C to quit")
}

// openStream opens the stream off the UI goroutine; connecting may block.
func openStream(ctx context.Context, ctrl *seek.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		h, err := ctrl.Open(ctx, text)
		return StreamOpenedMsg{Handle: h, Err: err}
	}
}

// runStream drives the handle until it reaches a terminal state.
func runStream(h *seek.Handle) tea.Cmd {
	return func() tea.Msg {
		_, err := h.Run()
		return StreamDoneMsg{Err: err}
	}
}

// listenForUpdate waits for the next conversation change.
func listenForUpdate(f *Feed) tea.Cmd {
	return func() tea.Msg {
		<-f.ch
		return TurnUpdatedMsg{}
	}
}
