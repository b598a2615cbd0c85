package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/gitreport/internal/db"
	"github.com/roivaz/gitreport/internal/mcp/tools/types"
)

type ReportLister interface {
	ListReports(ctx context.Context, limit int, includeContent bool) ([]types.ReportResult, error)
	// RunReports returns every document of one run: its chunk analyses in
	// export order followed by the final report.
	RunReports(ctx context.Context, runID string, includeContent bool) ([]types.ReportResult, error)
}

type ListReportsHandler struct {
	Service ReportLister
}

func (h *ListReportsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	limit, err := intArgument(args, "limit", 10)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	includeContent := boolArgument(args, "include_content")

	var results []types.ReportResult
	if runID := strings.TrimSpace(stringArgument(args, "run_id")); runID != "" {
		results, err = h.Service.RunReports(ctx, runID, includeContent)
	} else {
		results, err = h.Service.ListReports(ctx, limit, includeContent)
	}
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(mustMarshal(results))), nil
}

type dbReportLister struct {
	repo *db.ReportRepository
}

func NewDBReportLister(repo *db.ReportRepository) ReportLister {
	return &dbReportLister{repo: repo}
}

func (s *dbReportLister) ListReports(ctx context.Context, limit int, includeContent bool) ([]types.ReportResult, error) {
	records, err := s.repo.RecentReports(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toResults(records, includeContent), nil
}

func (s *dbReportLister) RunReports(ctx context.Context, runID string, includeContent bool) ([]types.ReportResult, error) {
	records, err := s.repo.RunDocuments(ctx, runID)
	if err != nil {
		return nil, err
	}
	return toResults(records, includeContent), nil
}

func toResults(records []db.ReportRecord, includeContent bool) []types.ReportResult {
	results := make([]types.ReportResult, 0, len(records))
	for _, rec := range records {
		results = append(results, db.ToReportResult(rec, includeContent))
	}
	return results
}
