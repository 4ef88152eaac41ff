package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/seek"
	"github.com/fwojciec/seek/markdown"
)

var _ MessageBlock = (*AnswerBlock)(nil)

// AnswerBlock renders streamed agent text as markdown. Paragraphs that can no
// longer change (everything before the last blank line outside a code fence)
// are rendered once per width and cached; only the trailing paragraph is
// re-rendered as deltas arrive.
type AnswerBlock struct {
	raw   string
	theme seek.Theme

	stable        string
	stableByWidth map[int]string
}

// NewAnswerBlock creates an empty AnswerBlock.
func NewAnswerBlock(theme seek.Theme) *AnswerBlock {
	return &AnswerBlock{theme: theme, stableByWidth: make(map[int]string)}
}

// Set replaces the block's text with the turn's accumulated text. Text only
// grows while a turn streams, so the common case extends the cached prefix.
func (b *AnswerBlock) Set(text string) {
	text = sanitize(text)
	if text == b.raw {
		return
	}
	if !strings.HasPrefix(text, b.raw) {
		b.stable = ""
		clear(b.stableByWidth)
	}
	b.raw = text
	b.promoteStable()
}

// Text returns the sanitized text.
func (b *AnswerBlock) Text() string { return b.raw }

func (b *AnswerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AnswerBlock) View(width int) string {
	head := b.renderStable(width)
	tail := b.tail()
	if inOpenFence(tail) {
		// Close the fence for rendering only so a partial block displays.
		tail += "\n```"
	}
	if strings.TrimSpace(tail) == "" {
		return head
	}
	rendered := markdown.Render(tail, width, b.theme)
	if strings.TrimSpace(rendered) == "" {
		return head
	}
	if head == "" {
		return rendered
	}
	return strings.TrimRight(head, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

// promoteStable moves the stable boundary to the last blank line that is not
// inside an open code fence.
func (b *AnswerBlock) promoteStable() {
	for end := len(b.raw); ; {
		idx := strings.LastIndex(b.raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := b.raw[:idx]
		if !inOpenFence(candidate) {
			if candidate != b.stable {
				b.stable = candidate
				clear(b.stableByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AnswerBlock) renderStable(width int) string {
	if width <= 0 || b.stable == "" {
		return ""
	}
	if cached, ok := b.stableByWidth[width]; ok {
		return cached
	}
	rendered := markdown.Render(b.stable, width, b.theme)
	b.stableByWidth[width] = rendered
	return rendered
}

func (b *AnswerBlock) tail() string {
	if b.stable == "" {
		return b.raw
	}
	return strings.TrimPrefix(b.raw, b.stable+"\n\n")
}

// inOpenFence reports whether s ends inside a fenced code block. Triple
// backticks inside inline code are counted too.
func inOpenFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
