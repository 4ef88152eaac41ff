package seek

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMalformedFrame indicates a frame could not be decoded as any known event.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrMalformedSources indicates a search_results frame whose urls field
	// could not be decoded as a sequence of strings.
	ErrMalformedSources = errors.New("malformed sources")

	// ErrEnvelope indicates the transport framing itself could not be read.
	// Unlike a malformed frame, it ends the stream.
	ErrEnvelope = errors.New("unreadable frame envelope")

	// ErrUnexpectedEnd indicates the stream ended before an end event.
	ErrUnexpectedEnd = errors.New("unexpected end of stream")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// DecodeKind classifies a decode failure.
type DecodeKind int

const (
	DecodeMalformed        DecodeKind = iota // Frame is not a well-formed event.
	DecodeMalformedSources                   // search_results urls are undecodable.
)

func (k DecodeKind) String() string {
	switch k {
	case DecodeMalformed:
		return "malformed"
	case DecodeMalformedSources:
		return "malformed_sources"
	default:
		return "unknown"
	}
}

// DecodeError describes a frame that could not be decoded. Decode failures
// are never fatal to a stream: the frame is dropped and the turn continues.
type DecodeError struct {
	Kind  DecodeKind
	Frame string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s frame: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("decode %s frame", e.Kind)
}

// Unwrap lets errors.Is match ErrMalformedFrame or ErrMalformedSources
// according to Kind, as well as the underlying cause.
func (e *DecodeError) Unwrap() []error {
	sentinel := ErrMalformedFrame
	if e.Kind == DecodeMalformedSources {
		sentinel = ErrMalformedSources
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}
