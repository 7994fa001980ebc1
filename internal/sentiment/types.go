// Package sentiment holds the AI situation report model, the lenient parser
// for the sentiment service's line protocol, and the session-scoped cache.
package sentiment

import (
	"time"
)

// Color is the traffic-light status of a report.
type Color string

const (
	ColorGreen       Color = "GREEN"
	ColorRed         Color = "RED"
	ColorOrange      Color = "ORANGE"
	ColorNeutralGrey Color = "NEUTRAL_GREY"
)

// Mode selects the prompt and behavior of an analysis.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeEndOfDay Mode = "end_of_day"
)

// Status labels shown next to the traffic light.
const (
	LabelBullish     = "BULLISH"
	LabelBearish     = "BEARISH"
	LabelNeutral     = "NEUTRAL"
	LabelClosed      = "MARKET CLOSED"
	LabelError       = "AI ERROR"
	LabelUnavailable = "AI UNAVAILABLE"
	LabelStandby     = "STANDBY"
)

// Result is a single situation report. Values are never mutated after
// construction.
type Result struct {
	Color         Color     `json:"color"`
	Label         string    `json:"label"`
	Summary       string    `json:"summary"`
	BreakingEvent string    `json:"breaking_event,omitempty"`
	Mode          Mode      `json:"mode,omitempty"`
	GeneratedAt   time.Time `json:"generated_at,omitempty"`
}

// HasBreakingEvent reports whether the report flags a market-moving event.
func (r Result) HasBreakingEvent() bool {
	return r.BreakingEvent != ""
}

// IsError reports whether the report stands in for a failed analysis.
func (r Result) IsError() bool {
	return r.Label == LabelError
}

// IsAnalysis reports whether the report came from the sentiment service, as
// opposed to a placeholder, error or unavailable stand-in.
func (r Result) IsAnalysis() bool {
	switch r.Label {
	case LabelError, LabelUnavailable, LabelStandby, "":
		return false
	}
	return true
}

// LabelFor returns the status label of a color in standard mode.
func LabelFor(c Color) string {
	switch c {
	case ColorGreen:
		return LabelBullish
	case ColorRed:
		return LabelBearish
	case ColorNeutralGrey:
		return LabelClosed
	default:
		return LabelNeutral
	}
}

// ErrorResult converts an analysis failure into a visible report.
func ErrorResult(cause error, at time.Time) Result {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return Result{
		Color:       ColorOrange,
		Label:       LabelError,
		Summary:     "Offline: " + msg,
		GeneratedAt: at,
	}
}

// UnavailableResult is shown when the sentiment service is not configured.
func UnavailableResult(at time.Time) Result {
	return Result{
		Color:       ColorNeutralGrey,
		Label:       LabelUnavailable,
		Summary:     "Add an LLM API key to the configuration to activate AI analysis.",
		GeneratedAt: at,
	}
}

// Placeholder is shown before the first analysis of a session.
func Placeholder() Result {
	return Result{
		Color:   ColorNeutralGrey,
		Label:   LabelStandby,
		Summary: "Waiting for the first market analysis.",
	}
}
