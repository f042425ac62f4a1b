package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorBlue   = lipgloss.Color("#83a598")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorHeader = lipgloss.Color("#fe8019")

	styleAssistant = lipgloss.NewStyle().Foreground(colorGreen)
	stylePrompt    = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	styleError     = lipgloss.NewStyle().Foreground(colorRed)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleHeader    = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	styleDraft     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// painter renders with styles only on a terminal.
type painter struct {
	color bool
}

func (p painter) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}
