package report

import (
	"context"

	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/logging"
)

// Generate builds one prompt from the whole commit list and issues exactly one
// model call. The personal template is used for TypePersonal, the summary
// template otherwise.
func Generate(ctx context.Context, sender Sender, commits []history.CommitRecord, opts Options, log logging.Logger) (string, bool) {
	lines := FormatCommitLines(commits)

	var prompt string
	if opts.ReportType == TypePersonal {
		prompt = PersonalPrompt(lines)
	} else {
		prompt = SummaryPrompt(lines)
	}

	log.Info("generating report", "type", opts.ReportType, "commits", len(commits),
		"provider", opts.Provider, "model", opts.ModelName)
	return sender.Send(ctx, prompt)
}
