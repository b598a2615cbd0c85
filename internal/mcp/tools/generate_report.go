package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/gitreport/internal/mcp/tools/types"
)

// GenerateParams are the arguments of generate_commit_report.
type GenerateParams struct {
	Range      string
	Branch     string
	Days       int
	ReportType string
	DeepDive   bool
	ChunkSize  int // 0 selects the configured default
	Author     string
	Provider   string
	Model      string
}

type ReportGenerator interface {
	Generate(ctx context.Context, params GenerateParams) (types.GenerateResult, error)
}

type GenerateReportHandler struct {
	Service ReportGenerator
}

func (h *GenerateReportHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	params := GenerateParams{
		Range:      strings.TrimSpace(stringArgument(args, "range")),
		Branch:     strings.TrimSpace(stringArgument(args, "branch")),
		ReportType: stringArgument(args, "report_type"),
		DeepDive:   boolArgument(args, "deep_dive"),
		Author:     stringArgument(args, "author"),
		Provider:   stringArgument(args, "provider"),
		Model:      stringArgument(args, "model"),
	}
	if params.Range == "" && params.Branch == "" {
		return mcp.NewToolResultError("either range or branch is required"), nil
	}
	if params.Range != "" && params.Branch != "" {
		return mcp.NewToolResultError("range and branch are mutually exclusive"), nil
	}

	var err error
	if params.Days, err = intArgument(args, "days", 7); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if params.ChunkSize, err = intArgument(args, "chunk_size", 0); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.Service.Generate(ctx, params)
	if err != nil {
		// Configuration problems are reported to the caller, not as protocol errors.
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(mustMarshal(result))), nil
}
