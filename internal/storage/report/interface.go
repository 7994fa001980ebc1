// internal/storage/report/interface.go
package report

import (
	"context"
	"time"

	"github.com/newthinker/sentinel/internal/calendar"
	"github.com/newthinker/sentinel/internal/fingerprint"
	"github.com/newthinker/sentinel/internal/sentiment"
	"github.com/newthinker/sentinel/internal/trigger"
)

// Report is one recorded sentiment analysis.
type Report struct {
	ID          string             `json:"id"`
	SessionID   string             `json:"session_id"`
	Phase       calendar.Phase     `json:"phase"`
	Reason      trigger.Reason     `json:"reason"`
	Fingerprint fingerprint.Digest `json:"fingerprint"`
	Headlines   []string           `json:"headlines"`
	Result      sentiment.Result   `json:"result"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Store defines the interface for report persistence.
type Store interface {
	// Save persists a report and assigns its ID.
	Save(ctx context.Context, r *Report) error

	// GetByID retrieves a report by its ID.
	GetByID(ctx context.Context, id string) (*Report, error)

	// List retrieves reports matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Report, error)

	// Count returns the number of reports matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing reports.
type ListFilter struct {
	Color  sentiment.Color
	Mode   sentiment.Mode
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}
