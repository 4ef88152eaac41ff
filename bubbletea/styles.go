package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/seek"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg    lipgloss.Style
	Stage      lipgloss.Style
	StageLabel lipgloss.Style
	Source     lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t seek.Theme) Styles {
	return Styles{
		UserMsg:    lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Stage:      lipgloss.NewStyle().Foreground(ansiColor(t.Stage)),
		StageLabel: lipgloss.NewStyle().Bold(true),
		Source:     lipgloss.NewStyle().Foreground(ansiColor(t.Source)),
		Error:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:      lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:     lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
