package seek

import "slices"

// Author identifies who produced a turn.
type Author string

const (
	AuthorUser  Author = "user"
	AuthorAgent Author = "agent"
)

// Lifecycle is the processing state of a turn.
type Lifecycle int

const (
	LifecyclePending   Lifecycle = iota // Created, stream not yet open.
	LifecycleStreaming                  // Receiving events.
	LifecycleComplete                   // End event received.
	LifecycleFailed                     // Transport, envelope or setup failure.
)

// Terminal reports whether l is a final state. Terminal turns are immutable.
func (l Lifecycle) Terminal() bool {
	return l == LifecycleComplete || l == LifecycleFailed
}

func (l Lifecycle) String() string {
	switch l {
	case LifecyclePending:
		return "pending"
	case LifecycleStreaming:
		return "streaming"
	case LifecycleComplete:
		return "complete"
	case LifecycleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage is a milestone in an agent turn's processing.
type Stage string

const (
	StageSearching Stage = "searching"
	StageReading   Stage = "reading"
	StageWriting   Stage = "writing"
	StageError     Stage = "error"
)

// Progress records the search status of an agent turn.
//
// Stages is append-only: entries are never reordered or removed, and
// repeated stages are kept.
type Progress struct {
	Stages      []Stage
	Query       string
	Sources     []string
	ErrorDetail string
}

// Clone returns a deep copy of p. A nil receiver returns nil.
func (p *Progress) Clone() *Progress {
	if p == nil {
		return nil
	}
	c := *p
	c.Stages = slices.Clone(p.Stages)
	c.Sources = slices.Clone(p.Sources)
	return &c
}

// Turn is one message in the conversation.
type Turn struct {
	ID        int
	Author    Author
	Text      string
	Lifecycle Lifecycle
	Progress  *Progress // agent turns only
}

// Clone returns a copy of t that shares no mutable state with it.
func (t Turn) Clone() Turn {
	t.Progress = t.Progress.Clone()
	return t
}

// SearchInfo is the presentation form of Progress.
type SearchInfo struct {
	Stages []string
	Query  string
	URLs   []string
	Error  string
}

// TurnView is the render-ready shape handed to presentation layers.
// While IsLoading is true and Content is empty, a loading indicator is shown.
type TurnView struct {
	ID         int
	IsUser     bool
	Content    string
	IsLoading  bool
	SearchInfo *SearchInfo
}

// View converts t to its presentation form.
func (t Turn) View() TurnView {
	v := TurnView{
		ID:        t.ID,
		IsUser:    t.Author == AuthorUser,
		Content:   t.Text,
		IsLoading: !t.Lifecycle.Terminal(),
	}
	if p := t.Progress; p != nil {
		stages := make([]string, len(p.Stages))
		for i, s := range p.Stages {
			stages[i] = string(s)
		}
		v.SearchInfo = &SearchInfo{
			Stages: stages,
			Query:  p.Query,
			URLs:   slices.Clone(p.Sources),
			Error:  p.ErrorDetail,
		}
	}
	return v
}
