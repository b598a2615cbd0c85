package db

import (
	"time"

	"github.com/roivaz/gitreport/internal/mcp/tools/types"
)

func ToReportResult(rec ReportRecord, includeContent bool) types.ReportResult {
	result := types.ReportResult{
		RunID:      rec.RunID,
		Label:      rec.Label,
		Kind:       rec.Kind,
		ReportType: rec.ReportType,
		Provider:   rec.Provider,
		Model:      rec.Model,
		Query:      rec.Query,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
	if includeContent {
		content := rec.Content
		result.Content = &content
	}
	return result
}
