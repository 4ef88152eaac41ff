package sse

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/seek"
)

// maxFrameSize bounds a single SSE line. Longer lines cannot be framed and
// end the stream with seek.ErrEnvelope.
const maxFrameSize = 1 << 20

// stream implements [seek.Stream] by reading SSE frames from an HTTP response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context

	mu    sync.Mutex // guards state; Close may race with a blocked Next
	state seek.StreamState
	err   error // terminal error, if any
}

// Interface compliance check.
var _ seek.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxFrameSize)
	return &stream{
		body:    body,
		scanner: scanner,
		ctx:     ctx,
		state:   seek.StreamStateNew,
	}
}

// Next reads the next frame payload. Returns io.EOF when the body ends.
func (s *stream) Next() ([]byte, error) {
	s.mu.Lock()
	switch s.state {
	case seek.StreamStateComplete:
		s.mu.Unlock()
		return nil, io.EOF
	case seek.StreamStateError:
		err := s.err
		s.mu.Unlock()
		return nil, err
	case seek.StreamStateClosed:
		s.mu.Unlock()
		return nil, fmt.Errorf("sse: %w", seek.ErrStreamClosed)
	}
	s.state = seek.StreamStateStreaming
	s.mu.Unlock()

	data, err := s.readFrame()
	if err != nil {
		return nil, s.terminate(err)
	}
	return data, nil
}

// State returns the current stream state.
func (s *stream) State() seek.StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close closes the underlying HTTP response body. It is idempotent.
func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case seek.StreamStateClosed:
		return nil
	case seek.StreamStateComplete, seek.StreamStateError:
	default:
		s.state = seek.StreamStateClosed
	}
	return s.body.Close()
}

// terminate records a terminal error and returns the error Next should report.
func (s *stream) terminate(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == seek.StreamStateClosed {
		return fmt.Errorf("sse: %w", seek.ErrStreamClosed)
	}
	if err == io.EOF {
		s.state = seek.StreamStateComplete
		return io.EOF
	}
	s.state = seek.StreamStateError
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	s.err = fmt.Errorf("sse: %w", err)
	return s.err
}

// readFrame reads lines until a complete SSE event is assembled and returns
// its data payload. Multiple data lines are joined with newlines.
func (s *stream) readFrame() ([]byte, error) {
	var dataBuf strings.Builder
	hasData := false

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			// Empty line signals end of event.
			if hasData {
				return []byte(dataBuf.String()), nil
			}
			continue
		}

		if value, ok := fieldValue(line, "data"); ok {
			if hasData {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(value)
			hasData = true
		}
		// Ignore comments (lines starting with ':') and other fields.
	}

	if err := s.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("%w: %w", seek.ErrEnvelope, err)
		}
		return nil, err
	}

	// Body exhausted; a final event without a trailing blank line still counts.
	if hasData {
		return []byte(dataBuf.String()), nil
	}
	return nil, io.EOF
}

// fieldValue returns the value of an SSE field line "name: value" or
// "name:value". A single leading space after the colon is removed. A bare
// "name" line is the field with an empty value.
func fieldValue(line, name string) (string, bool) {
	rest, ok := strings.CutPrefix(line, name)
	if !ok {
		return "", false
	}
	if rest == "" {
		return "", true
	}
	rest, ok = strings.CutPrefix(rest, ":")
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(rest, " "), true
}
