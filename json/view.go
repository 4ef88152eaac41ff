package json

import (
	"encoding/json"
	"io"

	"github.com/fwojciec/seek"
)

// turnViewDTO is the JSON representation of a seek.TurnView. Field names
// follow the presentation contract consumed by web front ends.
type turnViewDTO struct {
	ID         int            `json:"id"`
	IsUser     bool           `json:"isUser"`
	Content    string         `json:"content"`
	IsLoading  bool           `json:"isLoading"`
	SearchInfo *searchInfoDTO `json:"searchInfo,omitempty"`
}

type searchInfoDTO struct {
	Stages []string `json:"stages"`
	Query  string   `json:"query"`
	URLs   []string `json:"urls"`
	Error  string   `json:"error,omitempty"`
}

// MarshalTurnView serializes a turn snapshot.
func MarshalTurnView(v seek.TurnView) ([]byte, error) {
	return json.Marshal(toDTO(v))
}

// UnmarshalTurnView deserializes a turn snapshot.
func UnmarshalTurnView(data []byte) (seek.TurnView, error) {
	var dto turnViewDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return seek.TurnView{}, err
	}
	v := seek.TurnView{
		ID:        dto.ID,
		IsUser:    dto.IsUser,
		Content:   dto.Content,
		IsLoading: dto.IsLoading,
	}
	if si := dto.SearchInfo; si != nil {
		v.SearchInfo = &seek.SearchInfo{Stages: si.Stages, Query: si.Query, URLs: si.URLs, Error: si.Error}
	}
	return v, nil
}

// ViewEncoder writes turn snapshots as newline-delimited JSON.
type ViewEncoder struct {
	enc *json.Encoder
}

// NewViewEncoder returns a ViewEncoder writing to w.
func NewViewEncoder(w io.Writer) *ViewEncoder {
	return &ViewEncoder{enc: json.NewEncoder(w)}
}

// Encode writes one snapshot followed by a newline.
func (e *ViewEncoder) Encode(v seek.TurnView) error {
	return e.enc.Encode(toDTO(v))
}

func toDTO(v seek.TurnView) turnViewDTO {
	dto := turnViewDTO{
		ID:        v.ID,
		IsUser:    v.IsUser,
		Content:   v.Content,
		IsLoading: v.IsLoading,
	}
	if si := v.SearchInfo; si != nil {
		dto.SearchInfo = &searchInfoDTO{
			Stages: nonNil(si.Stages),
			Query:  si.Query,
			URLs:   nonNil(si.URLs),
			Error:  si.Error,
		}
	}
	return dto
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
