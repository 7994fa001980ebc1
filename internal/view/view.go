// Package view defines the dashboard snapshot handed to every view layer.
package view

import (
	"context"
	"time"

	"github.com/newthinker/sentinel/internal/calendar"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/sentiment"
	"github.com/newthinker/sentinel/internal/trigger"
)

// Dashboard is an immutable snapshot of one refresh cycle.
type Dashboard struct {
	SessionID string           `json:"session_id"`
	Cycle     int64            `json:"cycle"`
	Phase     calendar.Phase   `json:"phase"`
	Quotes    []core.Quote     `json:"quotes"`
	News      []core.Headline  `json:"news"`
	Sentiment sentiment.Result `json:"sentiment"`
	LastRunAt time.Time        `json:"last_run_at,omitempty"`
	Decision  trigger.Decision `json:"decision"`
	Analyzed  bool             `json:"analyzed"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Publisher receives every dashboard snapshot.
type Publisher interface {
	Publish(ctx context.Context, d Dashboard) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, d Dashboard) error

// Publish calls f.
func (f PublisherFunc) Publish(ctx context.Context, d Dashboard) error {
	return f(ctx, d)
}
