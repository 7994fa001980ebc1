// internal/storage/archive/archiver.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/storage/report"
	"github.com/newthinker/sentinel/internal/view"
)

// Archiver writes every fresh analysis to a Storage as JSON under
// reports/YYYY/MM/DD/.
type Archiver struct {
	storage Storage
}

// NewArchiver creates an archiver over storage.
func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage}
}

// ReportPath returns the archive path of r.
func ReportPath(r *report.Report) string {
	t := r.CreatedAt.UTC()
	return fmt.Sprintf("reports/%s/%s-%s.json", t.Format("2006/01/02"), t.Format("150405"), r.ID)
}

// Publish implements view.Publisher. Dashboards without a fresh analysis
// are skipped.
func (a *Archiver) Publish(ctx context.Context, d view.Dashboard) error {
	if !d.Analyzed {
		return nil
	}
	r := report.FromDashboard(d)
	r.ID = uuid.NewString()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := a.storage.Write(ctx, ReportPath(r), data); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}
