package config

const (
	KeyLogLevel            = "log_level"
	KeyProvider            = "default_provider"
	KeyModel               = "model"
	KeyChunkSize           = "chunk_size"
	KeyReportType          = "report_type"
	KeyMockAI              = "e2e_test_mock_ai"
	KeyGeminiAPIKey        = "gemini_api_key"
	KeyOllamaURL           = "ollama_base_url"
	KeyOpenAIAPIKey        = "openai_api_key"
	KeyOpenAIBaseURL       = "openai_base_url"
	KeyLLMCallTimeout      = "llm_call_timeout"
	KeyGitTimeout          = "git_timeout"
	KeyRepoPath            = "repo_path"
	KeyHistorySource       = "history_source"
	KeyGitHubRepoURL       = "github_repo_url"
	KeyGitHubToken         = "github_token"
	KeyExportFormat        = "export_format"
	KeyDiffMaxTokens       = "diff_max_tokens"
	KeyDiffFilterGenerated = "diff_filter_generated"
	KeyPostgresURL         = "postgres_url"
	KeyDBDebug             = "db_debug"
	KeyMigrationsDir       = "db_migrations_dir"
	KeyAutoMigrate         = "auto_migrate"
)
