package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockholm(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)
	return loc
}

func newTestCalendar(t *testing.T) *Calendar {
	t.Helper()
	return MustNew(Config{Location: stockholm(t), OpenHour: 15, CloseHour: 22})
}

func TestNew_InvalidHours(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"open after close", Config{OpenHour: 22, CloseHour: 15}},
		{"open equals close", Config{OpenHour: 10, CloseHour: 10}},
		{"negative", Config{OpenHour: -1, CloseHour: 10}},
		{"too large", Config{OpenHour: 9, CloseHour: 24}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrConfigInvalid))
		})
	}
}

func TestNew_DefaultsToUTC(t *testing.T) {
	c := MustNew(Config{OpenHour: 9, CloseHour: 16})
	assert.Equal(t, time.UTC, c.Location())
}

func TestPhaseAt_WeekendAlwaysClosed(t *testing.T) {
	c := newTestCalendar(t)
	loc := c.Location()

	// 2024-06-08 is a Saturday, 2024-06-09 a Sunday.
	for _, day := range []int{8, 9} {
		for h := 0; h < 24; h++ {
			ts := time.Date(2024, 6, day, h, 30, 0, 0, loc)
			assert.Equal(t, PhaseClosed, c.PhaseAt(ts), "day %d hour %d", day, h)
		}
	}
}

func TestPhaseAt_Weekday(t *testing.T) {
	c := newTestCalendar(t)
	loc := c.Location()

	// 2024-06-10 is a Monday.
	for h := 0; h < 24; h++ {
		ts := time.Date(2024, 6, 10, h, 0, 0, 0, loc)
		var want Phase
		switch {
		case h >= 15 && h < 22:
			want = PhaseTrading
		case h == 22:
			want = PhaseClosingHour
		default:
			want = PhaseClosed
		}
		assert.Equal(t, want, c.PhaseAt(ts), "hour %d", h)
	}
}

func TestPhaseAt_Boundaries(t *testing.T) {
	c := newTestCalendar(t)
	loc := c.Location()

	tests := []struct {
		name string
		ts   time.Time
		want Phase
	}{
		{"last minute before open", time.Date(2024, 6, 10, 14, 59, 59, 0, loc), PhaseClosed},
		{"open", time.Date(2024, 6, 10, 15, 0, 0, 0, loc), PhaseTrading},
		{"last minute of trading", time.Date(2024, 6, 10, 21, 59, 59, 0, loc), PhaseTrading},
		{"closing hour start", time.Date(2024, 6, 10, 22, 0, 0, 0, loc), PhaseClosingHour},
		{"closing hour end", time.Date(2024, 6, 10, 22, 59, 59, 0, loc), PhaseClosingHour},
		{"after closing hour", time.Date(2024, 6, 10, 23, 0, 0, 0, loc), PhaseClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.PhaseAt(tt.ts))
		})
	}
}

func TestPhaseAt_ConvertsTimezone(t *testing.T) {
	c := newTestCalendar(t)

	// 13:00 UTC on a summer Monday is 15:00 in Stockholm.
	ts := time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, PhaseTrading, c.PhaseAt(ts))

	// 23:30 UTC Friday is already Saturday in Stockholm.
	ts = time.Date(2024, 6, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, PhaseClosed, c.PhaseAt(ts))
}

func TestPhaseAt_CustomWeekdays(t *testing.T) {
	c := MustNew(Config{OpenHour: 9, CloseHour: 16, Weekdays: []time.Weekday{time.Sunday}})
	assert.Equal(t, PhaseTrading, c.PhaseAt(time.Date(2024, 6, 9, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, PhaseClosed, c.PhaseAt(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)))
}

func TestDayKey(t *testing.T) {
	c := newTestCalendar(t)
	ts := time.Date(2024, 6, 10, 22, 30, 0, 0, time.UTC) // 00:30 next day in Stockholm
	assert.Equal(t, "2024-06-11", c.DayKey(ts))
}

func TestClosedOutOn(t *testing.T) {
	c := newTestCalendar(t)
	loc := c.Location()
	now := time.Date(2024, 6, 10, 22, 15, 0, 0, loc)

	tests := []struct {
		name string
		last time.Time
		want bool
	}{
		{"never run", time.Time{}, false},
		{"earlier today during trading", time.Date(2024, 6, 10, 21, 40, 0, 0, loc), false},
		{"earlier in closing hour", time.Date(2024, 6, 10, 22, 1, 0, 0, loc), true},
		{"yesterday after close", time.Date(2024, 6, 9, 22, 30, 0, 0, loc), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ClosedOutOn(tt.last, now))
		})
	}
}

func TestClosedOutOn_AcrossDST(t *testing.T) {
	c := newTestCalendar(t)
	loc := c.Location()

	// Clocks move forward on 2024-03-31 in Stockholm. A wrap-up on Friday
	// must not count for Monday's closing hour.
	friday := time.Date(2024, 3, 29, 22, 5, 0, 0, loc)
	monday := time.Date(2024, 4, 1, 22, 5, 0, 0, loc)
	assert.False(t, c.ClosedOutOn(friday, monday))
	assert.True(t, c.ClosedOutOn(monday, monday.Add(10*time.Minute)))
}
