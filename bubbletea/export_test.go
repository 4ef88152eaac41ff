package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// SpinnerTick returns a tick message addressed to the block's spinner.
func (b *AgentBlock) SpinnerTick() tea.Msg {
	return b.spinner.Tick()
}
