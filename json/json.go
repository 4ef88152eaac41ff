// Package json implements the JSON wire formats: decoding backend stream
// frames into seek events, and encoding turn snapshots for headless output.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/seek"
)

// Interface compliance check.
var _ seek.DecodeFunc = DecodeFrame

// frameDTO is the decoded form of a stream frame with a type discriminator.
// Pointer fields distinguish absent from empty values.
type frameDTO struct {
	Type         *string
	CheckpointID *string
	Content      *string
	Query        *string
	URLs         json.RawMessage
	Error        *string
}

// decodeFrameDTO fills a frameDTO from the exact wire keys. Struct tags would
// also match "Type" or "TYPE", which the backend never sends.
func decodeFrameDTO(frame []byte) (frameDTO, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(frame, &fields); err != nil {
		return frameDTO{}, fmt.Errorf("unmarshal frame: %w", err)
	}
	var dto frameDTO
	for key, dst := range map[string]**string{
		"type":          &dto.Type,
		"checkpoint_id": &dto.CheckpointID,
		"content":       &dto.Content,
		"query":         &dto.Query,
		"error":         &dto.Error,
	} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return frameDTO{}, fmt.Errorf("unmarshal %s: %w", key, err)
		}
	}
	dto.URLs = fields["urls"]
	return dto, nil
}

// Frame types.
const (
	typeCheckpoint    = "checkpoint"
	typeContent       = "content"
	typeSearchStart   = "search_start"
	typeSearchResults = "search_results"
	typeSearchError   = "search_error"
	typeEnd           = "end"
)

// DecodeFrame decodes one frame payload into a seek.Event. It never panics;
// every failure is a *seek.DecodeError. A search_results frame whose urls
// cannot be decoded fails with seek.DecodeMalformedSources; every other
// failure is seek.DecodeMalformed.
func DecodeFrame(frame []byte) (seek.Event, error) {
	dto, err := decodeFrameDTO(frame)
	if err != nil {
		return nil, malformed(frame, err)
	}
	if dto.Type == nil {
		return nil, malformed(frame, errors.New("missing type"))
	}

	switch *dto.Type {
	case typeCheckpoint:
		if dto.CheckpointID == nil {
			return nil, missingField(frame, *dto.Type, "checkpoint_id")
		}
		return seek.EventCheckpoint{ID: *dto.CheckpointID}, nil
	case typeContent:
		if dto.Content == nil {
			return nil, missingField(frame, *dto.Type, "content")
		}
		return seek.EventContent{Delta: *dto.Content}, nil
	case typeSearchStart:
		if dto.Query == nil {
			return nil, missingField(frame, *dto.Type, "query")
		}
		return seek.EventSearchStart{Query: *dto.Query}, nil
	case typeSearchResults:
		if dto.URLs == nil {
			return nil, missingField(frame, *dto.Type, "urls")
		}
		urls, err := decodeURLs(dto.URLs)
		if err != nil {
			return nil, &seek.DecodeError{Kind: seek.DecodeMalformedSources, Frame: string(frame), Err: err}
		}
		return seek.EventSearchResults{URLs: urls}, nil
	case typeSearchError:
		if dto.Error == nil {
			return nil, missingField(frame, *dto.Type, "error")
		}
		return seek.EventSearchError{Detail: *dto.Error}, nil
	case typeEnd:
		return seek.EventEnd{}, nil
	default:
		return nil, malformed(frame, fmt.Errorf("unknown frame type: %q", *dto.Type))
	}
}

// decodeURLs accepts either a JSON array of strings or a JSON string whose
// content is itself a JSON array of strings. The backend emits both forms.
func decodeURLs(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("unmarshal urls string: %w", err)
		}
		raw = bytes.TrimSpace([]byte(encoded))
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("urls is not a sequence")
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, fmt.Errorf("unmarshal urls: %w", err)
	}
	if urls == nil {
		urls = []string{}
	}
	return urls, nil
}

func malformed(frame []byte, err error) error {
	return &seek.DecodeError{Kind: seek.DecodeMalformed, Frame: string(frame), Err: err}
}

func missingField(frame []byte, typ, field string) error {
	return malformed(frame, fmt.Errorf("%s frame missing %s", typ, field))
}
