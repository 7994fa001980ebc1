package sentiment

import (
	"strings"
	"time"
)

// Separator splits the fields of a sentiment response:
//
//	COLOR|SUMMARY|BREAKING_EVENT
//
// Responses with one field, an unknown color or an empty summary degrade to
// an ORANGE report carrying the raw text. Two fields are accepted without a
// breaking event. An empty response degrades the same way with a fixed
// summary.
const Separator = "|"

// EmptySummary is the summary of a degraded report built from no text.
const EmptySummary = "No analysis returned."

// noEvent lists tokens meaning "no breaking event".
var noEvent = map[string]bool{
	"":     true,
	"NONE": true,
	"N/A":  true,
	"NA":   true,
	"NULL": true,
	"NO":   true,
	"-":    true,
}

// ParseResponse converts raw service output into a report. It never fails.
func ParseResponse(text string, mode Mode, at time.Time) Result {
	raw := strings.TrimSpace(text)
	fields := strings.SplitN(raw, Separator, 3)

	var r Result
	color, known := parseColor(fields[0])
	summary := ""
	if len(fields) >= 2 {
		summary = strings.TrimSpace(fields[1])
	}

	if len(fields) < 2 || !known || summary == "" {
		r = Result{
			Color:   ColorOrange,
			Label:   LabelNeutral,
			Summary: raw,
		}
		if raw == "" {
			r.Summary = EmptySummary
		}
	} else {
		r = Result{
			Color:   color,
			Label:   LabelFor(color),
			Summary: summary,
		}
		if len(fields) == 3 {
			r.BreakingEvent = parseEvent(fields[2])
		}
	}

	if mode == ModeEndOfDay {
		r.Color = ColorNeutralGrey
		r.Label = LabelClosed
	}
	r.Mode = mode
	r.GeneratedAt = at
	return r
}

// parseColor normalises a color token, tolerating markdown emphasis, quotes
// and trailing punctuation.
func parseColor(token string) (Color, bool) {
	t := strings.ToUpper(strings.Trim(strings.TrimSpace(token), "*_`\"'.:#[] "))
	switch t {
	case "GREEN", "BULLISH":
		return ColorGreen, true
	case "RED", "BEARISH":
		return ColorRed, true
	case "ORANGE", "NEUTRAL", "MIXED", "YELLOW", "AMBER":
		return ColorOrange, true
	case "GREY", "GRAY", "NEUTRAL_GREY", "CLOSED":
		return ColorNeutralGrey, true
	}
	return ColorOrange, false
}

func parseEvent(field string) string {
	e := strings.TrimSpace(strings.Trim(strings.TrimSpace(field), "*_`\"'"))
	if noEvent[strings.ToUpper(strings.TrimRight(e, "."))] {
		return ""
	}
	return e
}
