package db

import (
	"context"

	"github.com/uptrace/bun"
)

type ReportRepository struct {
	db *bun.DB
}

func NewReportRepository(database *Database) *ReportRepository {
	return &ReportRepository{db: database.Bun()}
}

func (r *ReportRepository) StoreReport(ctx context.Context, rec *ReportRecord) error {
	_, err := r.db.NewInsert().Model(rec).Exec(ctx)
	return err
}

// RecentReports lists final reports, newest first.
func (r *ReportRepository) RecentReports(ctx context.Context, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []ReportRecord
	err := r.db.NewSelect().
		Model(&records).
		Where("kind = ?", KindFinal).
		OrderExpr("created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	return records, err
}

// RunDocuments returns every document of one run in export order.
func (r *ReportRepository) RunDocuments(ctx context.Context, runID string) ([]ReportRecord, error) {
	var records []ReportRecord
	err := r.db.NewSelect().
		Model(&records).
		Where("run_id = ?", runID).
		OrderExpr("id ASC").
		Scan(ctx)
	return records, err
}
