package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/newthinker/sentinel/internal/sentiment"
)

var (
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorText   = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}
	colorBorder = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorUp     = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorDown   = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF4D5E"}

	lightColors = map[sentiment.Color]lipgloss.Color{
		sentiment.ColorGreen:       lipgloss.Color("#00C853"),
		sentiment.ColorRed:         lipgloss.Color("#D50000"),
		sentiment.ColorOrange:      lipgloss.Color("#FF9100"),
		sentiment.ColorNeutralGrey: lipgloss.Color("#757575"),
	}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#1A237E")).
			Padding(0, 1)

	phaseStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			PaddingLeft(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	quoteLabelStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Bold(true)

	quotePriceStyle = lipgloss.NewStyle().
			Bold(true)

	upStyle   = lipgloss.NewStyle().Foreground(colorUp)
	downStyle = lipgloss.NewStyle().Foreground(colorDown)

	summaryStyle = lipgloss.NewStyle().
			Foreground(colorText)

	breakingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#D50000")).
			Padding(0, 1)

	wireTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	wireSourceStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			MarginTop(1)
)

// lightStyle renders the traffic light block for c.
func lightStyle(c sentiment.Color) lipgloss.Style {
	bg, ok := lightColors[c]
	if !ok {
		bg = lightColors[sentiment.ColorNeutralGrey]
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(bg).
		Padding(1, 3)
}
