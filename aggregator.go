package seek

import "slices"

// TurnState is the working state of one agent turn while it streams.
type TurnState struct {
	Text     string
	Progress *Progress // nil until a search event arrives
	Done     bool      // set by EventEnd; later events are ignored
}

// Reduce applies evt to s and returns the next state. It is a pure function:
// s and the Progress it points to are never modified, so every intermediate
// state remains a valid snapshot.
//
// Checkpoint events do not change turn state; Aggregator forwards their
// token to the Session.
func Reduce(s TurnState, evt Event) TurnState {
	if s.Done {
		return s
	}
	switch e := evt.(type) {
	case EventContent:
		s.Text += e.Delta
	case EventSearchStart:
		s.Progress = &Progress{
			Stages:  []Stage{StageSearching},
			Query:   e.Query,
			Sources: []string{},
		}
	case EventSearchResults:
		p := carryProgress(s.Progress, StageReading)
		p.Sources = slices.Clone(e.URLs)
		if p.Sources == nil {
			p.Sources = []string{}
		}
		s.Progress = p
	case EventSearchError:
		// Sources already found stay listed; a later failure does not clear them.
		p := carryProgress(s.Progress, StageError)
		p.ErrorDetail = e.Detail
		s.Progress = p
	case EventEnd:
		if s.Progress != nil {
			s.Progress = carryProgress(s.Progress, StageWriting)
		}
		s.Done = true
	}
	return s
}

// carryProgress copies prev (or starts an empty record) and appends stage.
// The query is carried over; it is empty when no search_start was seen.
func carryProgress(prev *Progress, stage Stage) *Progress {
	p := prev.Clone()
	if p == nil {
		p = &Progress{Sources: []string{}}
	}
	p.Stages = append(p.Stages, stage)
	return p
}

// Aggregator folds the events of one stream into one agent turn held by a
// Conversation. It is not safe for concurrent use: a stream's events are
// applied in arrival order by a single consumer.
type Aggregator struct {
	turnID  int
	conv    *Conversation
	session *Session
	state   TurnState
}

// NewAggregator returns an Aggregator bound to the agent turn turnID.
func NewAggregator(turnID int, conv *Conversation, session *Session) *Aggregator {
	return &Aggregator{turnID: turnID, conv: conv, session: session}
}

// TurnID returns the id of the bound agent turn.
func (a *Aggregator) TurnID() int { return a.turnID }

// State returns the current working state.
func (a *Aggregator) State() TurnState { return a.state }

// Done reports whether an end event has been applied.
func (a *Aggregator) Done() bool { return a.state.Done }

// Apply forwards checkpoint tokens to the Session, folds evt into the working
// state and writes the resulting snapshot into the Conversation. It returns
// the updated turn and true when the turn was changed; false when the event
// was ignored (after end, checkpoint, or the turn is gone or terminal).
func (a *Aggregator) Apply(evt Event) (Turn, bool) {
	if a.state.Done {
		return Turn{}, false
	}
	if cp, ok := evt.(EventCheckpoint); ok {
		a.session.Set(cp.ID)
		return Turn{}, false
	}
	next := Reduce(a.state, evt)
	turn, ok := a.conv.Update(a.turnID, func(t *Turn) {
		t.Text = next.Text
		t.Progress = next.Progress.Clone()
		if next.Done {
			t.Lifecycle = LifecycleComplete
		} else {
			t.Lifecycle = LifecycleStreaming
		}
	})
	if !ok {
		return Turn{}, false
	}
	a.state = next
	return turn, true
}
