package mock

import "github.com/fwojciec/seek"

// Interface compliance check.
var _ seek.Stream = (*Stream)(nil)

// Stream is a test double for seek.Stream.
// NextFn panics when nil to catch missing setup. CloseFn and StateFn are
// nil-safe (no-op and zero value) because callers close every stream they
// open and rarely need custom behavior there.
type Stream struct {
	NextFn  func() ([]byte, error)
	StateFn func() seek.StreamState
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() ([]byte, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() seek.StreamState {
	if s.StateFn == nil {
		return seek.StreamStateNew
	}
	return s.StateFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
