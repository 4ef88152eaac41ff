package bubbletea_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/seek"
	bt "github.com/fwojciec/seek/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewStyles(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(seek.DefaultTheme())

	assert.Equal(t, lipgloss.Color("4"), styles.UserMsg.GetForeground())
	assert.True(t, styles.UserMsg.GetBold())
	assert.Equal(t, lipgloss.Color("2"), styles.Stage.GetForeground())
	assert.True(t, styles.StageLabel.GetBold())
	assert.Equal(t, lipgloss.Color("6"), styles.Source.GetForeground())
	assert.Equal(t, lipgloss.Color("1"), styles.Error.GetForeground())
	assert.Equal(t, lipgloss.Color("8"), styles.Muted.GetForeground())
	assert.True(t, styles.Muted.GetFaint())
	assert.Equal(t, lipgloss.Color("5"), styles.Accent.GetForeground())
}

func TestNewStylesNegativeIndexYieldsNoColor(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(seek.Theme{Source: -1})
	assert.Equal(t, lipgloss.NoColor{}, styles.Source.GetForeground())
}
