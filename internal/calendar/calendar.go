// Package calendar classifies wall-clock time into market phases.
package calendar

import (
	"fmt"
	"time"

	"github.com/newthinker/sentinel/internal/core"
)

// Phase represents the market phase at a point in time.
type Phase string

const (
	PhaseClosed      Phase = "closed"
	PhaseTrading     Phase = "trading"
	PhaseClosingHour Phase = "closing_hour"
)

// DayLayout is the layout of day keys returned by DayKey.
const DayLayout = "2006-01-02"

// Config holds the trading window definition.
type Config struct {
	Location  *time.Location
	OpenHour  int
	CloseHour int
	Weekdays  []time.Weekday
}

// DefaultWeekdays are the trading days of a regular exchange week.
var DefaultWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

// Calendar maps timestamps to market phases. It holds no mutable state.
type Calendar struct {
	loc       *time.Location
	openHour  int
	closeHour int
	weekdays  map[time.Weekday]bool
}

// New creates a calendar from the given config.
func New(cfg Config) (*Calendar, error) {
	if cfg.OpenHour < 0 || cfg.OpenHour > 23 || cfg.CloseHour < 0 || cfg.CloseHour > 23 {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("hours must be between 0 and 23, got open=%d close=%d", cfg.OpenHour, cfg.CloseHour))
	}
	if cfg.OpenHour >= cfg.CloseHour {
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("open hour %d must be before close hour %d", cfg.OpenHour, cfg.CloseHour))
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	days := cfg.Weekdays
	if len(days) == 0 {
		days = DefaultWeekdays
	}

	weekdays := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		weekdays[d] = true
	}

	return &Calendar{
		loc:       loc,
		openHour:  cfg.OpenHour,
		closeHour: cfg.CloseHour,
		weekdays:  weekdays,
	}, nil
}

// MustNew is like New but panics on an invalid config.
func MustNew(cfg Config) *Calendar {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// PhaseAt returns the market phase at t. Hour boundaries are
// inclusive-exclusive: [open, close) is trading, the close hour itself is the
// closing hour.
func (c *Calendar) PhaseAt(t time.Time) Phase {
	local := t.In(c.loc)
	if !c.weekdays[local.Weekday()] {
		return PhaseClosed
	}

	h := local.Hour()
	switch {
	case h >= c.openHour && h < c.closeHour:
		return PhaseTrading
	case h == c.closeHour:
		return PhaseClosingHour
	default:
		return PhaseClosed
	}
}

// DayKey identifies the calendar day of t in the calendar's time zone.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

// ClosedOutOn reports whether last falls on the same calendar day as now and
// at or after that day's closing hour, i.e. the wrap-up for now's day has
// already happened. A zero last never counts.
func (c *Calendar) ClosedOutOn(last, now time.Time) bool {
	if last.IsZero() {
		return false
	}
	if c.DayKey(last) != c.DayKey(now) {
		return false
	}
	return last.In(c.loc).Hour() >= c.closeHour
}
