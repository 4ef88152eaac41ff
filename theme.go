package seek

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg int // User message accent
	Stage   int // Completed search stage markers
	Source  int // Source chips and query
	Error   int // Error messages and the error stage
	Muted   int // Status bar, placeholders
	Accent  int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg: 4,
		Stage:   2,
		Source:  6,
		Error:   1,
		Muted:   8,
		Accent:  5,
	}
}
