package seek

// Event is a sealed interface representing one decoded stream frame.
// Events are purely semantic. Transport and envelope errors come from
// Stream.Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventCheckpoint carries the resumable checkpoint token issued by the backend.
type EventCheckpoint struct {
	ID string
}

func (EventCheckpoint) event() {}

// EventContent represents a text delta for the agent turn.
type EventContent struct {
	Delta string
}

func (EventContent) event() {}

// EventSearchStart signals that the agent began a web search.
type EventSearchStart struct {
	Query string
}

func (EventSearchStart) event() {}

// EventSearchResults carries the sources found by a search.
type EventSearchResults struct {
	URLs []string
}

func (EventSearchResults) event() {}

// EventSearchError signals that a search failed.
type EventSearchError struct {
	Detail string
}

func (EventSearchError) event() {}

// EventEnd signals that the agent turn is complete.
type EventEnd struct{}

func (EventEnd) event() {}

// Interface compliance checks.
var (
	_ Event = EventCheckpoint{}
	_ Event = EventContent{}
	_ Event = EventSearchStart{}
	_ Event = EventSearchResults{}
	_ Event = EventSearchError{}
	_ Event = EventEnd{}
)
