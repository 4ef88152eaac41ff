// Package markdown renders agent answers, which are markdown, to ANSI-styled
// terminal output using goldmark for parsing and lipgloss for styling.
package markdown

import "github.com/fwojciec/seek"

// defaultWidth is used when the caller has no terminal size yet.
const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs, quotes and list items are word-wrapped to width. Code blocks
// keep their lines as written.
func Render(source string, width int, theme seek.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme).render([]byte(source), width)
}
