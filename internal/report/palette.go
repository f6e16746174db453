package report

import "github.com/charmbracelet/lipgloss"

const (
	colorOK    = "#04B575"
	colorError = "#FF0000"
	colorWarn  = "#FFA500"
	colorTitle = "#7D56F4"
	colorMuted = "#626262"
)

// palette holds the console styles for verdicts and notices.
type palette struct {
	title   lipgloss.Style
	similar lipgloss.Style
	differ  lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

func newPalette() *palette {
	return &palette{
		title:   newStyle(colorTitle).Bold(true),
		similar: newStyle(colorOK).Bold(true),
		differ:  newStyle(colorError),
		warn:    newStyle(colorWarn),
		muted:   newStyle(colorMuted).Italic(true),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}
