package bubbletea

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/seek"
	"github.com/mattn/go-runewidth"
)

// Stage row labels.
const (
	labelSearching    = "Searching the web"
	labelReading      = "Reading sources"
	labelWriting      = "Generating response"
	labelSearchError  = "Search error"
	defaultErrorMsg   = "An error occurred during search."
	maxSourceWidth    = 32
	sourceEllipsis    = "…"
	stageDetailIndent = "    "
)

var _ MessageBlock = (*StagesBlock)(nil)

// StagesBlock renders the search progress of an agent turn. Each stage kind
// is listed at most once, in a fixed order, however often it was reached.
type StagesBlock struct {
	progress   *seek.Progress
	maxSources int
	styles     Styles
}

// NewStagesBlock creates a StagesBlock showing at most maxSources sources.
func NewStagesBlock(maxSources int, styles Styles) *StagesBlock {
	return &StagesBlock{maxSources: maxSources, styles: styles}
}

// SetProgress replaces the rendered progress. A nil progress renders nothing.
func (b *StagesBlock) SetProgress(p *seek.Progress) {
	b.progress = p.Clone()
}

func (b *StagesBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *StagesBlock) View(width int) string {
	p := b.progress
	if p == nil || len(p.Stages) == 0 {
		return ""
	}
	var rows []string
	if slices.Contains(p.Stages, seek.StageSearching) {
		rows = append(rows, b.row("⌕", labelSearching, false))
		if p.Query != "" {
			rows = append(rows, stageDetailIndent+b.styles.Source.Render(sanitize(p.Query)))
		}
	}
	if slices.Contains(p.Stages, seek.StageReading) {
		rows = append(rows, b.row("✓", labelReading, false))
		if chips := b.sources(p.Sources); chips != "" {
			rows = append(rows, stageDetailIndent+chips)
		}
	}
	if slices.Contains(p.Stages, seek.StageWriting) {
		rows = append(rows, b.row("✓", labelWriting, false))
	}
	if slices.Contains(p.Stages, seek.StageError) {
		rows = append(rows, b.row("!", labelSearchError, true))
		detail := sanitize(p.ErrorDetail)
		if detail == "" {
			detail = defaultErrorMsg
		}
		rows = append(rows, stageDetailIndent+b.styles.Error.Render(detail))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(rows, "\n"))
}

func (b *StagesBlock) row(icon, label string, failed bool) string {
	iconStyle := b.styles.Stage
	if failed {
		iconStyle = b.styles.Error
	}
	return iconStyle.Render(icon) + "  " + b.styles.StageLabel.Render(label)
}

// sources renders up to maxSources urls without their scheme, each truncated
// to a fixed display width.
func (b *StagesBlock) sources(urls []string) string {
	n := max(min(len(urls), b.maxSources), 0)
	chips := make([]string, 0, n)
	for _, u := range urls[:n] {
		label := runewidth.Truncate(sanitize(seek.DisplaySource(u)), maxSourceWidth, sourceEllipsis)
		chips = append(chips, b.styles.Source.Render(label))
	}
	return strings.Join(chips, b.styles.Muted.Render(" · "))
}
