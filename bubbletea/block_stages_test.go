package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/seek"
	bt "github.com/fwojciec/seek/bubbletea"
	"github.com/stretchr/testify/assert"
)

func stagesView(p *seek.Progress, maxSources int) string {
	b := bt.NewStagesBlock(maxSources, bt.NewStyles(seek.DefaultTheme()))
	b.SetProgress(p)
	return ansi.Strip(b.View(80))
}

func TestStagesBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("nil progress renders nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, stagesView(nil, 3))
	})

	t.Run("searching shows query", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{Stages: []seek.Stage{seek.StageSearching}, Query: "rust ownership"}, 3)
		assert.Contains(t, view, "Searching the web")
		assert.Contains(t, view, "rust ownership")
		assert.NotContains(t, view, "Reading sources")
	})

	t.Run("full search in fixed order", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{
			Stages:  []seek.Stage{seek.StageSearching, seek.StageReading, seek.StageWriting},
			Query:   "q",
			Sources: []string{"https://a.com", "http://b.com/page"},
		}, 3)
		searching := strings.Index(view, "Searching the web")
		reading := strings.Index(view, "Reading sources")
		writing := strings.Index(view, "Generating response")
		assert.True(t, searching >= 0 && searching < reading && reading < writing, view)
		assert.Contains(t, view, "a.com")
		assert.Contains(t, view, "b.com/page")
		assert.NotContains(t, view, "https://")
		assert.NotContains(t, view, "http://")
	})

	t.Run("repeated stages are listed once", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{
			Stages:  []seek.Stage{seek.StageReading, seek.StageReading, seek.StageWriting},
			Sources: []string{"a.com"},
		}, 3)
		assert.Equal(t, 1, strings.Count(view, "Reading sources"))
	})

	t.Run("at most max sources are shown", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{
			Stages:  []seek.Stage{seek.StageReading},
			Sources: []string{"one.com", "two.com", "three.com", "four.com"},
		}, 3)
		assert.Contains(t, view, "three.com")
		assert.NotContains(t, view, "four.com")
	})

	t.Run("long sources are truncated", func(t *testing.T) {
		t.Parallel()
		long := "https://example.com/" + strings.Repeat("segment/", 10)
		view := stagesView(&seek.Progress{Stages: []seek.Stage{seek.StageReading}, Sources: []string{long}}, 3)
		assert.Contains(t, view, "example.com/")
		assert.Contains(t, view, "…")
		assert.NotContains(t, view, strings.Repeat("segment/", 10))
	})

	t.Run("search error shows detail", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{
			Stages:      []seek.Stage{seek.StageSearching, seek.StageError},
			ErrorDetail: "rate limited",
		}, 3)
		assert.Contains(t, view, "Search error")
		assert.Contains(t, view, "rate limited")
	})

	t.Run("search error without detail shows default", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{Stages: []seek.Stage{seek.StageError}}, 3)
		assert.Contains(t, view, "An error occurred during search.")
	})

	t.Run("zero max sources hides chips", func(t *testing.T) {
		t.Parallel()
		view := stagesView(&seek.Progress{Stages: []seek.Stage{seek.StageReading}, Sources: []string{"a.com"}}, 0)
		assert.Contains(t, view, "Reading sources")
		assert.NotContains(t, view, "a.com")
	})
}
