package export

import (
	"context"
	"fmt"

	"github.com/roivaz/gitreport/internal/db"
	"github.com/roivaz/gitreport/internal/logging"
)

// ReportStore is the slice of db.ReportRepository the archive needs.
type ReportStore interface {
	StoreReport(ctx context.Context, rec *db.ReportRecord) error
}

// RunInfo describes the run every archived document belongs to.
type RunInfo struct {
	RunID      string
	ReportType string
	Provider   string
	Model      string
	Query      string
}

// Archive stores each exported document as a row of the reports table. The
// document whose label equals the report type is the final report; every
// other label is a chunk analysis.
type Archive struct {
	store ReportStore
	run   RunInfo
	log   logging.Logger
}

func NewArchive(store ReportStore, run RunInfo, log logging.Logger) *Archive {
	return &Archive{store: store, run: run, log: log.WithName("archive")}
}

func (a *Archive) Export(ctx context.Context, content, label string) error {
	kind := db.KindChunk
	if label == a.run.ReportType {
		kind = db.KindFinal
	}
	rec := &db.ReportRecord{
		RunID:      a.run.RunID,
		Label:      label,
		Kind:       kind,
		ReportType: a.run.ReportType,
		Provider:   a.run.Provider,
		Model:      a.run.Model,
		Query:      a.run.Query,
		Content:    content,
	}
	if err := a.store.StoreReport(ctx, rec); err != nil {
		a.log.Error(err, "archive report failed", "run_id", a.run.RunID, "label", label)
		return fmt.Errorf("archive report %s: %w", label, err)
	}
	a.log.Debug("report archived", "run_id", a.run.RunID, "label", label, "id", rec.ID)
	return nil
}
