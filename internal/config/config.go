package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flag names to the viper keys they override.
var flagKeys = map[string]string{
	"provider":      KeyProvider,
	"model":         KeyModel,
	"chunk-size":    KeyChunkSize,
	"report-type":   KeyReportType,
	"source":        KeyHistorySource,
	"repo":          KeyRepoPath,
	"github-repo":   KeyGitHubRepoURL,
	"log-level":     KeyLogLevel,
	"postgres-url":  KeyPostgresURL,
	"export-format": KeyExportFormat,
}

// Init loads the optional .env file, enables environment lookups and binds
// the known flags of root (persistent and local) to their configuration keys.
func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		bindFlags(root.PersistentFlags())
		bindFlags(root.Flags())
	}
	setDefaults()
}

func bindFlags(flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyProvider, "gemini")
	viper.SetDefault(KeyChunkSize, 5)
	viper.SetDefault(KeyReportType, "summary")
	viper.SetDefault(KeyMockAI, false)
	viper.SetDefault(KeyOllamaURL, "http://localhost:11434")
	viper.SetDefault(KeyLLMCallTimeout, "2m")
	viper.SetDefault(KeyGitTimeout, "2m")
	viper.SetDefault(KeyRepoPath, ".")
	viper.SetDefault(KeyHistorySource, "local")
	viper.SetDefault(KeyExportFormat, "md")
	viper.SetDefault(KeyDiffMaxTokens, 6000)
	viper.SetDefault(KeyDiffFilterGenerated, true)
	viper.SetDefault(KeyMigrationsDir, "")
	viper.SetDefault(KeyAutoMigrate, true)
}

func LogLevel() string            { return viper.GetString(KeyLogLevel) }
func Provider() string            { return viper.GetString(KeyProvider) }
func Model() string               { return viper.GetString(KeyModel) }
func ChunkSize() int              { return viper.GetInt(KeyChunkSize) }
func ReportType() string          { return viper.GetString(KeyReportType) }
func MockAI() bool                { return viper.GetBool(KeyMockAI) }
func GeminiAPIKey() string        { return viper.GetString(KeyGeminiAPIKey) }
func OllamaURL() string           { return viper.GetString(KeyOllamaURL) }
func OpenAIAPIKey() string        { return viper.GetString(KeyOpenAIAPIKey) }
func OpenAIBaseURL() string       { return viper.GetString(KeyOpenAIBaseURL) }
func LLMCallTimeout() string      { return viper.GetString(KeyLLMCallTimeout) }
func GitTimeout() string          { return viper.GetString(KeyGitTimeout) }
func RepoPath() string            { return viper.GetString(KeyRepoPath) }
func HistorySource() string       { return viper.GetString(KeyHistorySource) }
func GitHubRepoURL() string       { return viper.GetString(KeyGitHubRepoURL) }
func GitHubToken() string         { return viper.GetString(KeyGitHubToken) }
func ExportFormat() string        { return viper.GetString(KeyExportFormat) }
func DiffMaxTokens() int          { return viper.GetInt(KeyDiffMaxTokens) }
func DiffFilterGenerated() bool   { return viper.GetBool(KeyDiffFilterGenerated) }
func PostgresURL() string         { return viper.GetString(KeyPostgresURL) }
func DBDebug() bool               { return viper.GetBool(KeyDBDebug) }
func MigrationsDir() string       { return viper.GetString(KeyMigrationsDir) }
func AutoMigrate() bool           { return viper.GetBool(KeyAutoMigrate) }
