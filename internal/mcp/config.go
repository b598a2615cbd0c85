package mcp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/gitreport/internal/db"
	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/llm"
	"github.com/roivaz/gitreport/internal/logging"
	"github.com/roivaz/gitreport/internal/mcp/tools"
	"github.com/roivaz/gitreport/internal/mcp/tools/types"
	"github.com/roivaz/gitreport/internal/pipeline"
	"github.com/roivaz/gitreport/internal/report"
)

const EndpointPath = "/mcp/jsonrpc"

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
	Database     *db.Database
	Logger       logging.Logger
}

// DefaultConfig exposes the report pipeline and, when an archive database is
// configured, the archive listing.
func DefaultConfig(ctx context.Context, log logging.Logger) (Config, error) {
	pipelineCfg, err := pipeline.LoadConfig()
	if err != nil {
		return Config{}, fmt.Errorf("load pipeline config: %w", err)
	}

	var database *db.Database
	if pipelineCfg.PostgresURL != "" {
		database, err = db.Open(ctx, db.Config{
			DSN:           pipelineCfg.PostgresURL,
			Debug:         pipelineCfg.DBDebug,
			MigrationsDir: pipelineCfg.MigrationsDir,
			AutoMigrate:   pipelineCfg.AutoMigrate,
		})
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		ToolAdapters: map[string]ToolAdapter{
			ToolGenerateReport: &tools.GenerateReportHandler{Service: NewPipelineGenerator(pipelineCfg, database, log)},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(EndpointPath),
			server.WithStateLess(true),
		},
		Database: database,
		Logger:   log,
	}
	if database != nil {
		cfg.ToolAdapters[ToolListReports] = &tools.ListReportsHandler{
			Service: tools.NewDBReportLister(db.NewReportRepository(database)),
		}
	}

	return cfg, nil
}

// PipelineGenerator runs the report pipeline for a tool call. Every call
// opens its own session and model client; the archive database, when set,
// is shared by all calls.
type PipelineGenerator struct {
	cfg      pipeline.Config
	database *db.Database
	log      logging.Logger
}

func NewPipelineGenerator(cfg pipeline.Config, database *db.Database, log logging.Logger) *PipelineGenerator {
	return &PipelineGenerator{cfg: cfg, database: database, log: log.WithName("generate")}
}

func (g *PipelineGenerator) Generate(ctx context.Context, params tools.GenerateParams) (types.GenerateResult, error) {
	cfg := g.cfg
	if params.Provider != "" {
		cfg.LLM.Provider = llm.Provider(params.Provider)
		cfg.LLM.Model = ""
	}
	if params.Model != "" {
		cfg.LLM.Model = params.Model
	}

	reportType, err := report.ParseType(params.ReportType)
	if params.ReportType == "" {
		reportType, err = report.ParseType(cfg.ReportType)
	}
	if err != nil {
		return types.GenerateResult{}, err
	}
	chunkSize := params.ChunkSize
	if chunkSize == 0 {
		chunkSize = cfg.ChunkSize
	}

	req := pipeline.Request{
		Query: history.Query{
			Range:  params.Range,
			Branch: params.Branch,
			Days:   params.Days,
			Author: params.Author,
		},
		DeepDive: params.DeepDive,
		Options: report.Options{
			ReportType: reportType,
			ChunkSize:  chunkSize,
		},
	}

	var out bytes.Buffer
	var options []pipeline.SessionOption
	if g.database != nil {
		options = append(options, pipeline.WithDatabase(g.database))
	}
	session, err := pipeline.Open(ctx, cfg, req, &out, g.log, options...)
	if err != nil {
		return types.GenerateResult{}, err
	}
	defer session.Close()

	res, err := session.Run(ctx, req)
	if err != nil {
		return types.GenerateResult{}, err
	}
	return types.GenerateResult{
		RunID:      res.RunID,
		Query:      req.Query.Describe(),
		ReportType: string(reportType),
		DeepDive:   params.DeepDive,
		Provider:   session.Provider(),
		Model:      session.Model(),
		Commits:    res.Commits,
		Report:     res.Report,
		Produced:   res.Produced,
	}, nil
}
