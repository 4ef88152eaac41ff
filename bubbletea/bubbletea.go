// Package bubbletea provides a Bubble Tea TUI for the seek search chat.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/seek"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// Feed signals the model that the conversation changed. Pass Publish to
// seek.WithUpdateHandler. Signals coalesce: the model re-reads the
// conversation on wake-up, so a missed intermediate snapshot is never lost.
type Feed struct {
	ch chan struct{}
}

// NewFeed creates a Feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan struct{}, 1)}
}

// Publish records that a turn changed. It never blocks.
func (f *Feed) Publish(seek.Turn) {
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// TurnUpdatedMsg signals that the conversation changed.
type TurnUpdatedMsg struct{}

// StreamOpenedMsg carries the handle of a newly opened stream.
type StreamOpenedMsg struct {
	Handle *seek.Handle
	Err    error
}

// StreamDoneMsg signals that the current stream reached a terminal state.
type StreamDoneMsg struct {
	Err error
}
