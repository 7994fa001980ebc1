// internal/storage/report/recorder.go
package report

import (
	"context"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/fingerprint"
	"github.com/newthinker/sentinel/internal/view"
)

// FromDashboard builds the report of a cycle that ran the analysis.
func FromDashboard(d view.Dashboard) *Report {
	titles := core.Titles(d.News)
	return &Report{
		SessionID:   d.SessionID,
		Phase:       d.Phase,
		Reason:      d.Decision.Reason,
		Fingerprint: fingerprint.Of(titles),
		Headlines:   titles,
		Result:      d.Sentiment,
		CreatedAt:   d.UpdatedAt,
	}
}

// Recorder saves a report for every dashboard that carries a fresh
// analysis. Other dashboards are ignored.
type Recorder struct {
	store Store
}

// NewRecorder creates a recorder over store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Publish implements view.Publisher.
func (r *Recorder) Publish(ctx context.Context, d view.Dashboard) error {
	if !d.Analyzed {
		return nil
	}
	return r.store.Save(ctx, FromDashboard(d))
}
