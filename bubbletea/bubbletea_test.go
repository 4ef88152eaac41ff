package bubbletea_test

import (
	"context"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/seek"
	bt "github.com/fwojciec/seek/bubbletea"
	seekjson "github.com/fwojciec/seek/json"
	"github.com/fwojciec/seek/mock"
	"github.com/stretchr/testify/require"
)

// newController wires a controller over backend the way cmd/seek does.
func newController(backend seek.Backend) (*seek.Controller, *bt.Feed) {
	feed := bt.NewFeed()
	ctrl := seek.NewController(
		backend,
		seekjson.DecodeFrame,
		seek.NewConversation(seek.DefaultGreeting),
		seek.NewSession(""),
		seek.WithUpdateHandler(feed.Publish),
	)
	return ctrl, feed
}

// initModel creates a model over backend and sends a WindowSizeMsg to
// initialize the viewport.
func initModel(t *testing.T, backend seek.Backend) bt.Model {
	t.Helper()
	ctrl, feed := newController(backend)
	return updateModel(t, bt.New(ctrl, feed), tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// scriptBackend opens streams that replay frames, then end cleanly.
func scriptBackend(frames ...string) *mock.Backend {
	return &mock.Backend{
		OpenFn: func(ctx context.Context, req seek.Request) (seek.Stream, error) {
			i := 0
			return &mock.Stream{
				NextFn: func() ([]byte, error) {
					if i >= len(frames) {
						return nil, io.EOF
					}
					i++
					return []byte(frames[i-1]), nil
				},
			}, nil
		},
	}
}

// blockingBackend opens streams whose Next blocks until Close or until the
// request context is canceled.
func blockingBackend() *mock.Backend {
	return &mock.Backend{
		OpenFn: func(ctx context.Context, req seek.Request) (seek.Stream, error) {
			closed := make(chan struct{})
			var once sync.Once
			return &mock.Stream{
				NextFn: func() ([]byte, error) {
					select {
					case <-closed:
						return nil, seek.ErrStreamClosed
					case <-ctx.Done():
						return nil, ctx.Err()
					}
				},
				CloseFn: func() error {
					once.Do(func() { close(closed) })
					return nil
				},
			}, nil
		},
	}
}
