package bubbletea

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/seek"
)

const loadingText = "Generating response..."

var _ MessageBlock = (*AgentBlock)(nil)

// AgentBlock renders one agent turn: search stages above the answer, and a
// spinner while the turn is loading with no text yet.
type AgentBlock struct {
	id      int
	stages  *StagesBlock
	answer  *AnswerBlock
	spinner spinner.Model
	loading bool
	styles  Styles
}

// NewAgentBlock creates an AgentBlock for the agent turn id.
func NewAgentBlock(id int, theme seek.Theme, maxSources int, styles Styles) *AgentBlock {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Muted))
	return &AgentBlock{
		id:      id,
		stages:  NewStagesBlock(maxSources, styles),
		answer:  NewAnswerBlock(theme),
		spinner: sp,
		styles:  styles,
	}
}

// ID returns the turn id the block renders.
func (b *AgentBlock) ID() int { return b.id }

// Loading reports whether the rendered turn is still loading.
func (b *AgentBlock) Loading() bool { return b.loading }

// SetTurn updates the block from a turn snapshot. It returns a command that
// starts the spinner when the turn just began loading.
func (b *AgentBlock) SetTurn(t seek.Turn) tea.Cmd {
	wasLoading := b.loading
	b.loading = t.View().IsLoading
	b.stages.SetProgress(t.Progress)
	b.answer.Set(t.Text)
	if b.loading && !wasLoading {
		return b.spinner.Tick
	}
	return nil
}

// Update advances the spinner while the turn is loading.
func (b *AgentBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && b.loading {
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *AgentBlock) View(width int) string {
	var parts []string
	if s := b.stages.View(width); s != "" {
		parts = append(parts, s)
	}
	answer := b.answer.View(width)
	if strings.TrimSpace(answer) == "" && b.loading {
		answer = lipgloss.NewStyle().Width(width).Render(b.spinner.View() + " " + b.styles.Muted.Italic(true).Render(loadingText))
	}
	if answer != "" {
		parts = append(parts, answer)
	}
	return strings.Join(parts, "\n\n")
}
