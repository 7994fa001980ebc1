package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/newthinker/sentinel/internal/core"
)

const defaultWidth = 80

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	d := m.dashboard

	var sb strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("US100 SENTINEL"),
		phaseStyle.Render(fmt.Sprintf("%s · %s", strings.ToUpper(strings.ReplaceAll(string(d.Phase), "_", " ")), d.UpdatedAt.Format("15:04:05"))),
	)
	sb.WriteString(header)
	sb.WriteString("\n\n")

	light := lightStyle(d.Sentiment.Color).Render(d.Sentiment.Label)
	quotes := renderQuotes(d.Quotes)
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, light, "  ", quotes))
	sb.WriteString("\n")

	report := summaryStyle.Width(max(width-4, 20)).Render(d.Sentiment.Summary)
	sb.WriteString(boxStyle.Render("AI SITUATION REPORT\n" + report))
	sb.WriteString("\n")

	if d.Sentiment.HasBreakingEvent() {
		sb.WriteString(breakingStyle.Render("BREAKING: " + d.Sentiment.BreakingEvent))
		sb.WriteString("\n")
	}

	sb.WriteString(wireTitleStyle.Render("LIVE WIRE"))
	sb.WriteString("\n")
	if len(d.News) == 0 {
		sb.WriteString(wireSourceStyle.Render("  no headlines"))
		sb.WriteString("\n")
	}
	for _, h := range d.News {
		title := truncate(h.Title, width-len(h.Source)-6)
		sb.WriteString(fmt.Sprintf("  %s %s\n", wireSourceStyle.Render("["+h.Source+"]"), title))
	}

	status := "r refresh · q quit"
	if m.refreshing {
		status = "refresh queued · " + status
	}
	if !d.LastRunAt.IsZero() {
		status = fmt.Sprintf("last analysis %s · %s", d.LastRunAt.Format("15:04"), status)
	}
	sb.WriteString(footerStyle.Render(status))

	return sb.String()
}

func renderQuotes(quotes []core.Quote) string {
	if len(quotes) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(quotes))
	for _, q := range quotes {
		boxes = append(boxes, boxStyle.Render(renderQuote(q)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderQuote(q core.Quote) string {
	label := quoteLabelStyle.Render(q.Label)
	if !q.IsValid() {
		return label + "\n" + quotePriceStyle.Render("--")
	}

	change := fmt.Sprintf("%+.2f (%+.2f%%)", q.Change(), q.ChangePct())
	style := upStyle
	if q.Change() < 0 {
		style = downStyle
	}
	return label + "\n" + quotePriceStyle.Render(fmt.Sprintf("%.2f", q.Price)) + "\n" + style.Render(change)
}

func truncate(s string, n int) string {
	if n <= 3 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
