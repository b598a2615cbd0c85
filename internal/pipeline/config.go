package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/roivaz/gitreport/internal/config"
	"github.com/roivaz/gitreport/internal/llm"
	"github.com/roivaz/gitreport/internal/patch"
)

const (
	SourceLocal  = "local"
	SourceGitHub = "github"
)

// Config is the process-wide configuration shared by every run.
type Config struct {
	LLM           llm.Config
	ChunkSize     int
	ReportType    string
	GitTimeout    time.Duration
	HistorySource string
	RepoPath      string
	GitHubRepoURL string
	GitHubToken   string
	ExportFormat  string
	Patch         patch.Options
	PostgresURL   string
	DBDebug       bool
	MigrationsDir string
	AutoMigrate   bool
}

func LoadConfig() (Config, error) {
	cfg := Config{
		LLM: llm.Config{
			Provider:      llm.Provider(config.Provider()),
			Model:         config.Model(),
			Mock:          config.MockAI(),
			GeminiAPIKey:  config.GeminiAPIKey(),
			OllamaURL:     config.OllamaURL(),
			OpenAIAPIKey:  config.OpenAIAPIKey(),
			OpenAIBaseURL: config.OpenAIBaseURL(),
		},
		ChunkSize:     config.ChunkSize(),
		ReportType:    config.ReportType(),
		HistorySource: strings.ToLower(strings.TrimSpace(config.HistorySource())),
		RepoPath:      config.RepoPath(),
		GitHubRepoURL: config.GitHubRepoURL(),
		GitHubToken:   config.GitHubToken(),
		ExportFormat:  config.ExportFormat(),
		Patch: patch.Options{
			FilterGenerated: config.DiffFilterGenerated(),
			MaxTokens:       config.DiffMaxTokens(),
		},
		PostgresURL:   config.PostgresURL(),
		DBDebug:       config.DBDebug(),
		MigrationsDir: config.MigrationsDir(),
		AutoMigrate:   config.AutoMigrate(),
	}

	callTimeout, err := parseDuration(config.LLMCallTimeout(), 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid llm_call_timeout: %w", err)
	}
	cfg.LLM.CallTimeout = callTimeout

	gitTimeout, err := parseDuration(config.GitTimeout(), 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid git_timeout: %w", err)
	}
	cfg.GitTimeout = gitTimeout

	switch cfg.HistorySource {
	case "", SourceLocal:
		cfg.HistorySource = SourceLocal
	case SourceGitHub:
	default:
		return Config{}, fmt.Errorf("unsupported history source %q (must be local or github)", cfg.HistorySource)
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	return d, nil
}
