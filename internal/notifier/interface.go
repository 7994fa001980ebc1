package notifier

import (
	"context"
	"time"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/sentiment"
)

// Kind is the reason an alert was raised.
type Kind string

const (
	// KindColorChange is raised when the traffic light changes color.
	KindColorChange Kind = "color_change"
	// KindBreakingEvent is raised when a new breaking event is reported.
	KindBreakingEvent Kind = "breaking_event"
)

// Alert is a status notification derived from a fresh situation report.
type Alert struct {
	Kind      Kind
	SessionID string
	Previous  sentiment.Result
	Current   sentiment.Result
	Quotes    []core.Quote
	At        time.Time
}

// Notifier defines the interface for status notification
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Send delivers a single alert
	Send(ctx context.Context, alert Alert) error
}
