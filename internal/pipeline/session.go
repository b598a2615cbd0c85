package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/roivaz/gitreport/internal/db"
	"github.com/roivaz/gitreport/internal/export"
	"github.com/roivaz/gitreport/internal/gitrepo"
	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/llm"
	"github.com/roivaz/gitreport/internal/logging"
)

// Session holds the collaborators opened for one run. A new Session, and
// with it a new model client, is built for every run.
type Session struct {
	driver   *Driver
	client   *llm.Client
	database *db.Database // opened by this session and closed with it
	runID    string
}

type sessionOptions struct {
	shared *db.Database
}

type SessionOption func(*sessionOptions)

// WithDatabase archives into an already opened database instead of
// connecting from Config.PostgresURL. The caller keeps ownership of it.
func WithDatabase(database *db.Database) SessionOption {
	return func(o *sessionOptions) { o.shared = database }
}

// Open validates req against cfg and builds the run's collaborators. Every
// returned error is a configuration error; no network call has been made.
// Archive connection problems are logged and disable the archive.
func Open(ctx context.Context, cfg Config, req Request, out io.Writer, log logging.Logger, options ...SessionOption) (*Session, error) {
	var so sessionOptions
	for _, opt := range options {
		opt(&so)
	}

	if err := req.Options.Validate(); err != nil {
		return nil, err
	}
	if err := req.Query.Validate(); err != nil {
		return nil, err
	}

	llmCfg := cfg.LLM
	llmCfg.Logger = log
	client, err := llm.New(ctx, llmCfg)
	if err != nil {
		return nil, err
	}

	source, err := newSource(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{client: client, runID: uuid.NewString()}
	opts := []DriverOption{
		WithPatchOptions(cfg.Patch),
		WithOutput(out),
		WithRunID(s.runID),
	}
	if req.Options.OutPath != "" {
		opts = append(opts, WithFiles(export.NewFiles(req.Options.OutPath, cfg.ExportFormat, log)))
	}
	if archiveDB := s.archiveDatabase(ctx, cfg, so.shared, log); archiveDB != nil {
		run := export.RunInfo{
			RunID:      s.runID,
			ReportType: string(req.Options.ReportType),
			Provider:   client.Provider(),
			Model:      client.Model(),
			Query:      req.Query.Describe(),
		}
		opts = append(opts, WithArchive(export.NewArchive(db.NewReportRepository(archiveDB), run, log)))
	}

	s.driver = NewDriver(source, client, log, opts...)
	return s, nil
}

// Run executes req with the provider and model resolved by the client.
func (s *Session) Run(ctx context.Context, req Request) (Result, error) {
	req.Options.Provider = s.client.Provider()
	req.Options.ModelName = s.client.Model()
	return s.driver.Run(ctx, req)
}

func (s *Session) RunID() string { return s.runID }

func (s *Session) Provider() string { return s.client.Provider() }

func (s *Session) Model() string { return s.client.Model() }

func (s *Session) Close() error {
	if s.database == nil {
		return nil
	}
	return s.database.Close()
}

func newSource(cfg Config) (history.Source, error) {
	switch cfg.HistorySource {
	case SourceGitHub:
		if cfg.GitHubRepoURL == "" {
			return nil, errors.New("a GitHub repository URL is required for the github source")
		}
		owner, name, err := history.ParseGitHubRepo(cfg.GitHubRepoURL)
		if err != nil {
			return nil, err
		}
		return history.NewGitHub(history.NewGitHubClient(cfg.GitHubToken), owner, name), nil
	case "", SourceLocal:
		repo := gitrepo.New(gitrepo.RepoConfig{Path: cfg.RepoPath, Timeout: cfg.GitTimeout})
		return history.NewLocal(repo), nil
	default:
		return nil, fmt.Errorf("unsupported history source %q", cfg.HistorySource)
	}
}

// archiveDatabase returns the database to archive into, or nil when the
// archive is disabled or unreachable.
func (s *Session) archiveDatabase(ctx context.Context, cfg Config, shared *db.Database, log logging.Logger) *db.Database {
	if shared != nil {
		return shared
	}
	if cfg.PostgresURL == "" {
		return nil
	}
	database, err := db.Open(ctx, db.Config{
		DSN:           cfg.PostgresURL,
		Debug:         cfg.DBDebug,
		MigrationsDir: cfg.MigrationsDir,
		AutoMigrate:   cfg.AutoMigrate,
	})
	if err != nil {
		log.Error(err, "report archive disabled")
		return nil
	}
	log.Debug("report archive ready")
	s.database = database
	return database
}
