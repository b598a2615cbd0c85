package mcp

import (
	"context"
	"net/http"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/gitreport/internal/db"
	"github.com/roivaz/gitreport/internal/logging"
)

const (
	ToolGenerateReport = "generate_commit_report"
	ToolListReports    = "list_reports"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler
	DB      *db.Database
	Tools   []string // names of the registered tools
	log     logging.Logger
}

var toolDefinitions = map[string]mcp.Tool{
	ToolGenerateReport: mcp.NewTool(ToolGenerateReport,
		mcp.WithDescription("Generate an AI-written work report from the commits of a revision range or of the last days of a branch. Returns the report text and run metadata."),
		mcp.WithString("range",
			mcp.Description("Revision range in the form <from>..<to> (e.g., 'v1.2.0..v1.3.0')"),
		),
		mcp.WithString("branch",
			mcp.Description("Branch to read instead of a range"),
		),
		mcp.WithNumber("days",
			mcp.Description("Days to look back in branch mode (default: 7)"),
		),
		mcp.WithString("report_type",
			mcp.Description("Report template family"),
			mcp.Enum("summary", "personal"),
		),
		mcp.WithBoolean("deep_dive",
			mcp.Description("Analyze commit patches in chunks before consolidating (default: false)"),
		),
		mcp.WithNumber("chunk_size",
			mcp.Description("Commits per chunk in deep-dive mode (default: configured chunk size)"),
		),
		mcp.WithString("author",
			mcp.Description("Optional: only include commits by this author"),
		),
		mcp.WithString("provider",
			mcp.Description("Optional: model provider override"),
			mcp.Enum("gemini", "ollama", "openai", "mock"),
		),
		mcp.WithString("model",
			mcp.Description("Optional: model identifier override"),
		),
	),
	ToolListReports: mcp.NewTool(ToolListReports,
		mcp.WithDescription("List the most recent archived final reports, newest first. With run_id, return every document of that run: its chunk analyses in order followed by the final report."),
		mcp.WithString("run_id",
			mcp.Description("Optional: run identifier returned by generate_commit_report"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of reports to return (default: 10)"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include the report text (default: false)"),
		),
	),
}

func New(cfg Config) *Server {
	log := cfg.Logger.WithName("mcp")
	mcpServer := server.NewMCPServer(
		"gitreport",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	var registered []string
	for name, adapter := range cfg.ToolAdapters {
		tool, ok := toolDefinitions[name]
		if !ok {
			log.Info("skipping unknown tool", "tool", name)
			continue
		}
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			log.Debug("tool call", "tool", req.Params.Name)
			return adapter.ToolAdapter(ctx, req)
		})
		registered = append(registered, name)
	}
	sort.Strings(registered)

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
		DB:      cfg.Database,
		Tools:   registered,
		log:     log,
	}
}

func (s *Server) Close() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			s.log.Error(err, "error closing database")
		}
	}
}
