package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwojciec/seek"
	seekjson "github.com/fwojciec/seek/json"
)

var errTurnFailed = errors.New("turn failed")

// runHeadless sends a single turn and writes every turn snapshot to w as a
// JSON line. It returns errTurnFailed (wrapping the cause, if any) when the
// agent turn ends in failure.
func runHeadless(ctx context.Context, backend seek.Backend, session *seek.Session, prompt string, w io.Writer, logger *slog.Logger) error {
	enc := seekjson.NewViewEncoder(w)
	var encErr error
	onUpdate := func(t seek.Turn) {
		if encErr != nil {
			return
		}
		encErr = enc.Encode(t.View())
	}

	ctrl := seek.NewController(backend, seekjson.DecodeFrame, seek.NewConversation(""), session,
		seek.WithLogger(logger),
		seek.WithUpdateHandler(onUpdate),
	)
	h, err := ctrl.Open(ctx, prompt)
	if err != nil {
		return err
	}
	turn, runErr := h.Run()
	if encErr != nil {
		return fmt.Errorf("writing output: %w", encErr)
	}
	if turn.Lifecycle == seek.LifecycleFailed {
		if runErr != nil {
			return fmt.Errorf("%w: %w", errTurnFailed, runErr)
		}
		return errTurnFailed
	}
	if token, ok := session.Current(); ok {
		logger.Info("turn complete", "checkpoint_id", token)
	}
	return nil
}
