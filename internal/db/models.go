package db

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	KindChunk = "chunk"
	KindFinal = "final"
)

// ReportRecord is one exported document: a chunk analysis or a final report.
type ReportRecord struct {
	bun.BaseModel `bun:"table:reports"`

	ID         int64     `bun:"id,pk,autoincrement"`
	RunID      string    `bun:"run_id"` // groups the documents of one pipeline run
	Label      string    `bun:"label"`  // chunk-<n> or the report type
	Kind       string    `bun:"kind"`   // chunk|final
	ReportType string    `bun:"report_type"`
	Provider   string    `bun:"provider"`
	Model      string    `bun:"model"`
	Query      string    `bun:"query"`
	Content    string    `bun:"content"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
