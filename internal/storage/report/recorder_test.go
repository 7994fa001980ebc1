// internal/storage/report/recorder_test.go
package report

import (
	"context"
	"testing"

	"github.com/newthinker/sentinel/internal/calendar"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/fingerprint"
	"github.com/newthinker/sentinel/internal/sentiment"
	"github.com/newthinker/sentinel/internal/trigger"
	"github.com/newthinker/sentinel/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_SavesAnalyzedDashboards(t *testing.T) {
	store := NewMemoryStore(10)
	rec := NewRecorder(store)
	ctx := context.Background()

	d := view.Dashboard{
		SessionID: "session-1",
		Phase:     calendar.PhaseTrading,
		News:      []core.Headline{{Title: "Fed holds rates"}, {Title: "Tech rallies"}},
		Sentiment: sentiment.Result{Color: sentiment.ColorGreen, Label: sentiment.LabelBullish},
		Decision:  trigger.Decision{Run: true, Mode: sentiment.ModeStandard, Reason: trigger.ReasonFreshStart},
		Analyzed:  true,
		UpdatedAt: base,
	}
	require.NoError(t, rec.Publish(ctx, d))

	d.Analyzed = false
	require.NoError(t, rec.Publish(ctx, d))

	reports, _ := store.List(ctx, ListFilter{})
	require.Len(t, reports, 1)
	r := reports[0]
	assert.Equal(t, "session-1", r.SessionID)
	assert.Equal(t, trigger.ReasonFreshStart, r.Reason)
	assert.Equal(t, []string{"Fed holds rates", "Tech rallies"}, r.Headlines)
	assert.Equal(t, fingerprint.Of(r.Headlines), r.Fingerprint)
	assert.Equal(t, base, r.CreatedAt)
}
