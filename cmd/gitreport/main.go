package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roivaz/gitreport/internal/config"
	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/logging"
	"github.com/roivaz/gitreport/internal/pipeline"
	"github.com/roivaz/gitreport/internal/report"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gitreport [<from>..<to>]",
		Short: "Generate AI-written work reports from git history",
		Long: `gitreport reads commits from a revision range or from the last N days of a
branch and asks a language model to write a summary or personal report.
With --deep-dive the commit patches are analyzed in chunks and consolidated
into one final document.`,
		Example: `  gitreport v1.2.0..v1.3.0
  gitreport -b main -d 14 --report-type personal --dev-filter alice
  gitreport v1.2.0..HEAD --deep-dive --chunk-size 3 -o reports/`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE:          run,
	}

	flags := root.Flags()
	flags.StringP("branch", "b", "", "Branch to read instead of a revision range")
	flags.IntP("days", "d", 7, "Number of days to look back in branch mode")
	flags.String("report-type", "summary", "Report template: summary or personal")
	flags.Bool("deep-dive", false, "Analyze commit patches in chunks before consolidating")
	flags.Int("chunk-size", report.DefaultChunkSize, "Commits per chunk in deep-dive mode (overrides CHUNK_SIZE)")
	flags.String("provider", "gemini", "Model provider: gemini, ollama, openai or mock (overrides DEFAULT_PROVIDER)")
	flags.StringP("model", "m", "", "Model identifier (provider default when empty)")
	flags.String("dev-filter", "", "Only include commits by this author")
	flags.StringP("out", "o", "", "Directory to export the report (and chunk analyses) to")
	flags.BoolP("verbose", "v", false, "Echo fetched commits and enable debug logging")
	flags.String("source", pipeline.SourceLocal, "History source: local or github")
	flags.String("repo", ".", "Path of the local git repository")
	flags.String("github-repo", "", "GitHub repository URL for --source github")
	flags.String("export-format", "md", "Export file format")
	flags.String("postgres-url", "", "Archive reports in this Postgres database")

	config.Init(root)
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gitreport: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	branch, _ := flags.GetString("branch")
	days, _ := flags.GetInt("days")

	query := history.Query{Branch: branch, Days: days}
	if len(args) == 1 {
		query.Range = args[0]
	}
	if query.Range != "" && query.Branch != "" {
		return errors.New("give either a commit range or --branch, not both")
	}
	if err := query.Validate(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	query.Author, _ = flags.GetString("dev-filter")
	deepDive, _ := flags.GetBool("deep-dive")
	verbose, _ := flags.GetBool("verbose")
	outPath, _ := flags.GetString("out")

	level := config.LogLevel()
	if verbose {
		level = "debug"
	}
	log := logging.New(logging.LoggerForLevel(level))

	cfg, err := pipeline.LoadConfig()
	if err != nil {
		return err
	}
	reportType, err := report.ParseType(cfg.ReportType)
	if err != nil {
		return err
	}

	req := pipeline.Request{
		Query:    query,
		DeepDive: deepDive,
		Verbose:  verbose,
		Options: report.Options{
			ReportType: reportType,
			ChunkSize:  cfg.ChunkSize,
			OutPath:    outPath,
		},
	}

	session, err := pipeline.Open(cmd.Context(), cfg, req, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}
	defer session.Close()

	_, err = session.Run(cmd.Context(), req)
	return err
}
