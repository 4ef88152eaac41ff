package seek

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving frames.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern over raw frames. Cancellation
// flows through the context passed to Backend.Open().
//
// Next returns the payload of the next frame, io.EOF when the transport ended
// cleanly, or an error. An error wrapping ErrEnvelope means the framing
// itself was unreadable. Frames are returned undecoded; decoding is the
// caller's job so that one bad frame never ends the stream.
//
// Close is idempotent. After Close, Next returns ErrStreamClosed.
type Stream interface {
	Next() ([]byte, error)
	State() StreamState
	Close() error
}

// Backend opens one stream per agent turn.
type Backend interface {
	Open(ctx context.Context, req Request) (Stream, error)
}

// Request describes the turn a stream is opened for.
type Request struct {
	Text         string
	CheckpointID string // empty = start a new server-side conversation
}

// DecodeFunc turns one frame payload into an Event. Failures are returned as
// *DecodeError.
type DecodeFunc func(frame []byte) (Event, error)
