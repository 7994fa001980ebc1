// Package trigger decides when the sentiment analysis runs and in which mode.
package trigger

import (
	"fmt"
	"time"

	"github.com/newthinker/sentinel/internal/calendar"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/fingerprint"
	"github.com/newthinker/sentinel/internal/sentiment"
)

// Policy selects what makes a standard analysis stale during trading.
type Policy string

const (
	// PolicyTime re-runs once the analysis interval has elapsed.
	PolicyTime Policy = "time"
	// PolicyContent re-runs when the headline fingerprint changes.
	PolicyContent Policy = "content"
	// PolicyBoth re-runs on either condition.
	PolicyBoth Policy = "both"
)

// ParsePolicy validates a policy name. An empty name selects PolicyTime.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "":
		return PolicyTime, nil
	case PolicyTime, PolicyContent, PolicyBoth:
		return Policy(s), nil
	default:
		return "", core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown trigger policy %q (valid: time, content, both)", s))
	}
}

// Reason explains a decision.
type Reason string

const (
	ReasonManualOverride  Reason = "manual_override"
	ReasonFreshStart      Reason = "fresh_start"
	ReasonIntervalElapsed Reason = "interval_elapsed"
	ReasonContentChanged  Reason = "content_changed"
	ReasonClosingWrapUp   Reason = "closing_wrap_up"
	ReasonNotDue          Reason = "not_due"
	ReasonMarketClosed    Reason = "market_closed"
)

// Config holds the staleness settings.
type Config struct {
	// Interval is the standard analysis interval.
	Interval time.Duration
	// Policy selects time-based, content-based or combined staleness.
	Policy Policy
	// MinGap is the minimum time between content-triggered runs.
	MinGap time.Duration
}

// DefaultConfig returns the default trigger settings.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Minute,
		Policy:   PolicyTime,
		MinGap:   5 * time.Minute,
	}
}

// Context is everything a decision depends on. It is built fresh for every
// refresh cycle.
type Context struct {
	Now            time.Time
	Phase          calendar.Phase
	Fingerprint    fingerprint.Digest
	ManualOverride bool
	State          sentiment.State
}

// Decision is the outcome of Decide.
type Decision struct {
	Run    bool           `json:"run"`
	Mode   sentiment.Mode `json:"mode,omitempty"`
	Reason Reason         `json:"reason"`
}

func run(mode sentiment.Mode, reason Reason) Decision {
	return Decision{Run: true, Mode: mode, Reason: reason}
}

func modeFor(phase calendar.Phase) sentiment.Mode {
	if phase == calendar.PhaseClosingHour {
		return sentiment.ModeEndOfDay
	}
	return sentiment.ModeStandard
}

// Engine evaluates trigger rules. It never mutates the cache.
type Engine struct {
	cfg Config
	cal *calendar.Calendar
}

// New creates a trigger engine.
func New(cfg Config, cal *calendar.Calendar) *Engine {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Policy == "" {
		cfg.Policy = def.Policy
	}
	if cfg.MinGap < 0 {
		cfg.MinGap = 0
	}
	return &Engine{cfg: cfg, cal: cal}
}

// Config returns the engine's settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// Decide applies the trigger rules in priority order; the first match wins.
func (e *Engine) Decide(c Context) Decision {
	s := c.State

	// 1. Manual override beats every other rule.
	if c.ManualOverride {
		mode := modeFor(c.Phase)
		if c.Phase == calendar.PhaseClosed && e.cal.ClosedOutOn(s.LastRunAt, c.Now) {
			mode = sentiment.ModeEndOfDay
		}
		return run(mode, ReasonManualOverride)
	}

	// 2. Fresh start while the market is open.
	if s.NeverRun() && (c.Phase == calendar.PhaseTrading || c.Phase == calendar.PhaseClosingHour) {
		return run(modeFor(c.Phase), ReasonFreshStart)
	}

	switch c.Phase {
	case calendar.PhaseTrading:
		// 3. Standard staleness.
		if e.timeStale(c) {
			return run(sentiment.ModeStandard, ReasonIntervalElapsed)
		}
		if e.contentStale(c) {
			return run(sentiment.ModeStandard, ReasonContentChanged)
		}
		return Decision{Reason: ReasonNotDue}

	case calendar.PhaseClosingHour:
		// 4. Closing transition, once per calendar day. A failed wrap-up is
		// retried once the interval has passed, while still in the hour.
		if !e.cal.ClosedOutOn(s.LastRunAt, c.Now) {
			return run(sentiment.ModeEndOfDay, ReasonClosingWrapUp)
		}
		if s.Current.IsError() && c.Now.Sub(s.LastRunAt) >= e.cfg.Interval {
			return run(sentiment.ModeEndOfDay, ReasonClosingWrapUp)
		}
		return Decision{Reason: ReasonNotDue}
	}

	return Decision{Reason: ReasonMarketClosed}
}

func (e *Engine) timeStale(c Context) bool {
	if e.cfg.Policy == PolicyContent {
		return false
	}
	return c.Now.Sub(c.State.LastRunAt) > e.cfg.Interval
}

func (e *Engine) contentStale(c Context) bool {
	if e.cfg.Policy == PolicyTime {
		return false
	}
	// No headlines means the feed is down, not that the news changed.
	if c.Fingerprint == fingerprint.Empty || c.Fingerprint == c.State.LastFingerprint {
		return false
	}
	return c.Now.Sub(c.State.LastRunAt) >= e.cfg.MinGap
}
