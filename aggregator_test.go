package seek_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/seek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reduceAll(events ...seek.Event) seek.TurnState {
	var s seek.TurnState
	for _, e := range events {
		s = seek.Reduce(s, e)
	}
	return s
}

func TestReduce(t *testing.T) {
	t.Parallel()

	t.Run("content appends delta", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(seek.EventContent{Delta: "Hel"}, seek.EventContent{Delta: "lo"})
		assert.Equal(t, "Hello", s.Text)
		assert.Nil(t, s.Progress)
		assert.False(t, s.Done)
	})

	t.Run("search start resets progress", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(
			seek.EventSearchStart{Query: "first"},
			seek.EventSearchResults{URLs: []string{"a.com"}},
			seek.EventSearchStart{Query: "second"},
		)
		require.NotNil(t, s.Progress)
		assert.Equal(t, []seek.Stage{seek.StageSearching}, s.Progress.Stages)
		assert.Equal(t, "second", s.Progress.Query)
		assert.Empty(t, s.Progress.Sources)
	})

	t.Run("results without search start", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(seek.EventSearchResults{URLs: []string{"a.com"}})
		require.NotNil(t, s.Progress)
		assert.Equal(t, []seek.Stage{seek.StageReading}, s.Progress.Stages)
		assert.Empty(t, s.Progress.Query)
		assert.Equal(t, []string{"a.com"}, s.Progress.Sources)
	})

	t.Run("results with nil urls yield empty sources", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(seek.EventSearchResults{})
		require.NotNil(t, s.Progress)
		assert.NotNil(t, s.Progress.Sources)
		assert.Empty(t, s.Progress.Sources)
	})

	t.Run("search error keeps sources", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(
			seek.EventSearchStart{Query: "q"},
			seek.EventSearchResults{URLs: []string{"a.com"}},
			seek.EventSearchError{Detail: "rate limited"},
		)
		require.NotNil(t, s.Progress)
		assert.Equal(t, []seek.Stage{seek.StageSearching, seek.StageReading, seek.StageError}, s.Progress.Stages)
		assert.Equal(t, "rate limited", s.Progress.ErrorDetail)
		assert.Equal(t, []string{"a.com"}, s.Progress.Sources)
	})

	t.Run("duplicate stages are kept", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(
			seek.EventSearchResults{URLs: []string{"a.com"}},
			seek.EventSearchResults{URLs: []string{"b.com"}},
		)
		assert.Equal(t, []seek.Stage{seek.StageReading, seek.StageReading}, s.Progress.Stages)
		assert.Equal(t, []string{"b.com"}, s.Progress.Sources)
	})

	t.Run("end without search leaves no progress", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(seek.EventContent{Delta: "Hi"}, seek.EventEnd{})
		assert.Nil(t, s.Progress)
		assert.True(t, s.Done)
		assert.Equal(t, "Hi", s.Text)
	})

	t.Run("end after search appends writing", func(t *testing.T) {
		t.Parallel()
		s := reduceAll(seek.EventSearchStart{Query: "q"}, seek.EventEnd{})
		assert.Equal(t, []seek.Stage{seek.StageSearching, seek.StageWriting}, s.Progress.Stages)
	})

	t.Run("events after end are ignored", func(t *testing.T) {
		t.Parallel()
		done := reduceAll(seek.EventContent{Delta: "Hi"}, seek.EventEnd{})
		after := seek.Reduce(done, seek.EventContent{Delta: " more"})
		after = seek.Reduce(after, seek.EventSearchStart{Query: "q"})
		assert.Equal(t, done, after)
	})

	t.Run("checkpoint does not change state", func(t *testing.T) {
		t.Parallel()
		before := reduceAll(seek.EventContent{Delta: "Hi"})
		after := seek.Reduce(before, seek.EventCheckpoint{ID: "abc"})
		assert.Equal(t, before, after)
	})

	t.Run("does not mutate input state", func(t *testing.T) {
		t.Parallel()
		before := reduceAll(seek.EventSearchStart{Query: "q"}, seek.EventSearchResults{URLs: []string{"a.com"}})
		snapshot := before.Progress.Clone()
		_ = seek.Reduce(before, seek.EventSearchError{Detail: "x"})
		_ = seek.Reduce(before, seek.EventEnd{})
		assert.Equal(t, snapshot, before.Progress)
	})

	t.Run("results copy urls", func(t *testing.T) {
		t.Parallel()
		urls := []string{"a.com"}
		s := reduceAll(seek.EventSearchResults{URLs: urls})
		urls[0] = "changed"
		assert.Equal(t, []string{"a.com"}, s.Progress.Sources)
	})
}

func TestReduce_ContentConcatenation(t *testing.T) {
	t.Parallel()

	deltas := []string{"Rust ", "", "uses ", "own", "ership", ".", " 🦀"}
	var events []seek.Event
	for _, d := range deltas {
		events = append(events, seek.EventContent{Delta: d})
	}

	// Every intermediate text is a prefix of the final text.
	var s seek.TurnState
	var texts []string
	for _, e := range events {
		s = seek.Reduce(s, e)
		texts = append(texts, s.Text)
	}
	s = seek.Reduce(s, seek.EventEnd{})
	assert.Equal(t, strings.Join(deltas, ""), s.Text)
	for _, txt := range texts {
		assert.True(t, strings.HasPrefix(s.Text, txt), "%q is not a prefix of %q", txt, s.Text)
	}
}

func TestReduce_StagesAppendOnly(t *testing.T) {
	t.Parallel()

	events := []seek.Event{
		seek.EventSearchStart{Query: "q"},
		seek.EventContent{Delta: "a"},
		seek.EventSearchResults{URLs: []string{"a.com"}},
		seek.EventSearchError{Detail: "x"},
		seek.EventContent{Delta: "b"},
		seek.EventEnd{},
	}
	var s seek.TurnState
	var prev []seek.Stage
	for _, e := range events {
		s = seek.Reduce(s, e)
		if s.Progress == nil {
			continue
		}
		require.GreaterOrEqual(t, len(s.Progress.Stages), len(prev))
		assert.Equal(t, prev, s.Progress.Stages[:len(prev)])
		prev = s.Progress.Stages
	}
	assert.Equal(t, []seek.Stage{seek.StageSearching, seek.StageReading, seek.StageError, seek.StageWriting}, prev)
}

func TestAggregator_Apply(t *testing.T) {
	t.Parallel()

	t.Run("search scenario", func(t *testing.T) {
		t.Parallel()
		conv := seek.NewConversation("")
		_, agentID := conv.AppendExchange("rust ownership?")
		agg := seek.NewAggregator(agentID, conv, seek.NewSession(""))

		events := []seek.Event{
			seek.EventSearchStart{Query: "rust ownership"},
			seek.EventSearchResults{URLs: []string{"a.com", "b.com"}},
			seek.EventContent{Delta: "Rust "},
			seek.EventContent{Delta: "uses ownership."},
			seek.EventEnd{},
		}
		for _, e := range events {
			_, changed := agg.Apply(e)
			assert.True(t, changed)
		}

		turn, ok := conv.Turn(agentID)
		require.True(t, ok)
		assert.Equal(t, seek.TurnView{
			ID:        agentID,
			Content:   "Rust uses ownership.",
			IsLoading: false,
			SearchInfo: &seek.SearchInfo{
				Stages: []string{"searching", "reading", "writing"},
				Query:  "rust ownership",
				URLs:   []string{"a.com", "b.com"},
			},
		}, turn.View())
		assert.True(t, agg.Done())
	})

	t.Run("content moves turn to streaming", func(t *testing.T) {
		t.Parallel()
		conv := seek.NewConversation("")
		_, agentID := conv.AppendExchange("hi")
		agg := seek.NewAggregator(agentID, conv, seek.NewSession(""))

		turn, changed := agg.Apply(seek.EventContent{Delta: "Hel"})
		require.True(t, changed)
		assert.Equal(t, seek.LifecycleStreaming, turn.Lifecycle)
		assert.Equal(t, "Hel", turn.Text)
		assert.True(t, turn.View().IsLoading)
	})

	t.Run("checkpoint updates session only", func(t *testing.T) {
		t.Parallel()
		conv := seek.NewConversation("")
		_, agentID := conv.AppendExchange("hi")
		session := seek.NewSession("")
		agg := seek.NewAggregator(agentID, conv, session)

		_, changed := agg.Apply(seek.EventCheckpoint{ID: "abc"})
		assert.False(t, changed)
		token, ok := session.Current()
		assert.True(t, ok)
		assert.Equal(t, "abc", token)

		turn, _ := conv.Turn(agentID)
		assert.Equal(t, seek.LifecyclePending, turn.Lifecycle)
		assert.Empty(t, turn.Text)
	})

	t.Run("events after end are ignored", func(t *testing.T) {
		t.Parallel()
		conv := seek.NewConversation("")
		_, agentID := conv.AppendExchange("hi")
		session := seek.NewSession("")
		agg := seek.NewAggregator(agentID, conv, session)

		agg.Apply(seek.EventContent{Delta: "Done."})
		agg.Apply(seek.EventEnd{})
		_, changed := agg.Apply(seek.EventContent{Delta: " extra"})
		assert.False(t, changed)
		_, changed = agg.Apply(seek.EventCheckpoint{ID: "late"})
		assert.False(t, changed)

		turn, _ := conv.Turn(agentID)
		assert.Equal(t, "Done.", turn.Text)
		assert.Equal(t, seek.LifecycleComplete, turn.Lifecycle)
		_, ok := session.Current()
		assert.False(t, ok)
	})

	t.Run("terminal turn is not modified", func(t *testing.T) {
		t.Parallel()
		conv := seek.NewConversation("")
		_, agentID := conv.AppendExchange("hi")
		conv.Update(agentID, func(t *seek.Turn) { t.Lifecycle = seek.LifecycleFailed })
		agg := seek.NewAggregator(agentID, conv, seek.NewSession(""))

		_, changed := agg.Apply(seek.EventContent{Delta: "late"})
		assert.False(t, changed)
		assert.Empty(t, agg.State().Text)
	})

	t.Run("conversation snapshot is not aliased", func(t *testing.T) {
		t.Parallel()
		conv := seek.NewConversation("")
		_, agentID := conv.AppendExchange("hi")
		agg := seek.NewAggregator(agentID, conv, seek.NewSession(""))

		turn, _ := agg.Apply(seek.EventSearchResults{URLs: []string{"a.com"}})
		turn.Progress.Sources[0] = "changed"

		stored, _ := conv.Turn(agentID)
		assert.Equal(t, []string{"a.com"}, stored.Progress.Sources)
	})
}
