package bubbletea

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// sanitize makes backend text safe to place in the terminal. Escape
// sequences are stripped and control characters other than tab and newline
// are dropped. CRLF and lone CR become LF.
func sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r < 0x20, r == 0x7F, r >= 0x80 && r <= 0x9F:
			return -1
		}
		return r
	}, s)
}
