// Package pipeline drives one report run: query the history, pick the
// single-shot or deep-dive generator, print the report and export it.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/roivaz/gitreport/internal/export"
	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/logging"
	"github.com/roivaz/gitreport/internal/patch"
	"github.com/roivaz/gitreport/internal/report"
)

const (
	reportStartBanner = "\n--- REPORT START ---\n"
	reportEndBanner   = "\n--- REPORT END ---\n"
)

// Request is one invocation of the pipeline.
type Request struct {
	Query    history.Query
	DeepDive bool
	Verbose  bool
	Options  report.Options
}

// Result is the outcome of a run. Produced is false when no report could be
// generated; the reason has been logged.
type Result struct {
	Report   string
	Produced bool
	Commits  int
	RunID    string
}

// Driver wires a history source, a model sender and the export targets for
// a single run.
type Driver struct {
	source history.Source
	sender report.Sender
	files  report.Exporter // nil when no output path is configured
	store  report.Exporter // nil when the archive is disabled
	patch  patch.Options
	out    io.Writer
	log    logging.Logger
	runID  string
}

type DriverOption func(*Driver)

func WithFiles(e report.Exporter) DriverOption   { return func(d *Driver) { d.files = e } }
func WithArchive(e report.Exporter) DriverOption { return func(d *Driver) { d.store = e } }
func WithPatchOptions(o patch.Options) DriverOption {
	return func(d *Driver) { d.patch = o }
}
func WithRunID(id string) DriverOption { return func(d *Driver) { d.runID = id } }

// WithOutput sets where the report is printed. A nil writer keeps the
// default, which discards output.
func WithOutput(w io.Writer) DriverOption {
	return func(d *Driver) {
		if w != nil {
			d.out = w
		}
	}
}

func NewDriver(source history.Source, sender report.Sender, log logging.Logger, opts ...DriverOption) *Driver {
	d := &Driver{source: source, sender: sender, out: io.Discard, log: log.WithName("pipeline")}
	for _, opt := range opts {
		opt(d)
	}
	if d.runID != "" {
		d.log = d.log.WithValues("run_id", d.runID)
	}
	return d
}

// Run executes req. The returned error is reserved for configuration
// problems detected before any network call.
func (d *Driver) Run(ctx context.Context, req Request) (Result, error) {
	if err := req.Options.Validate(); err != nil {
		return Result{}, err
	}
	if err := req.Query.Validate(); err != nil {
		return Result{}, err
	}
	res := Result{RunID: d.runID}

	d.log.Info("fetching commits", "query", req.Query.Describe())
	commits, err := d.source.ListCommits(ctx, req.Query)
	if err != nil {
		d.log.Error(err, "commit query failed", "query", req.Query.Describe())
		commits = nil
	}
	res.Commits = len(commits)

	if req.Verbose {
		d.echoCommits(commits)
	}
	if len(commits) == 0 {
		d.log.Info("no commits found", "query", req.Query.Describe())
		return res, nil
	}
	d.log.Info("commits fetched", "count", len(commits))

	var text string
	var ok bool
	if req.DeepDive {
		text, ok = d.runDeepDive(ctx, commits, req.Options)
	} else {
		text, ok = report.Generate(ctx, d.sender, commits, req.Options, d.log)
	}
	if !ok {
		d.log.Info("no report was generated", "report_type", req.Options.ReportType, "deep_dive", req.DeepDive)
		return res, nil
	}
	res.Report, res.Produced = text, true

	fmt.Fprint(d.out, reportStartBanner)
	fmt.Fprintln(d.out, text)
	fmt.Fprint(d.out, reportEndBanner)

	d.exportFinal(ctx, text, req.Options)
	return res, nil
}

func (d *Driver) runDeepDive(ctx context.Context, commits []history.CommitRecord, opts report.Options) (string, bool) {
	d.log.Info("starting deep-dive analysis", "commits", len(commits))

	withDiffs := make([]report.CommitWithDiff, 0, len(commits))
	for _, c := range commits {
		raw, err := d.source.Diff(ctx, c.Hash)
		if err != nil {
			d.log.Error(err, "diff fetch failed, commit dropped", "commit", c.Hash)
			continue
		}
		prepared, stats := patch.Prepare(raw, d.patch)
		d.log.Debug("diff prepared", "commit", c.Hash, "files", stats.FilesTotal,
			"filtered", stats.FilesFiltered, "tokens", stats.Tokens, "truncated", stats.Truncated)
		withDiffs = append(withDiffs, report.CommitWithDiff{CommitRecord: c, Diff: prepared})
	}
	if len(withDiffs) == 0 {
		d.log.Error(report.ErrNoAnalyses, "no commit diff could be fetched", "commits", len(commits))
		return "", false
	}

	return report.NewDeepDive(d.sender, d.chunkExporter(), opts, d.log).Run(ctx, withDiffs)
}

// chunkExporter returns every configured target. Chunk analyses are only
// exported when an output path is set.
func (d *Driver) chunkExporter() report.Exporter {
	targets := d.targets()
	if len(targets) == 0 {
		return nil
	}
	return targets
}

func (d *Driver) exportFinal(ctx context.Context, text string, opts report.Options) {
	label := string(opts.ReportType)
	if d.files != nil && opts.OutPath != "" {
		if err := d.files.Export(ctx, text, label); err != nil {
			d.log.Error(err, "final report export failed")
		}
	}
	if d.store != nil {
		if err := d.store.Export(ctx, text, label); err != nil {
			d.log.Error(err, "final report archive failed")
		}
	}
}

func (d *Driver) targets() export.Tee {
	var t export.Tee
	if d.files != nil {
		t = append(t, d.files)
	}
	if d.store != nil {
		t = append(t, d.store)
	}
	return t
}

func (d *Driver) echoCommits(commits []history.CommitRecord) {
	out, err := yaml.Marshal(commits)
	if err != nil {
		d.log.Error(err, "render commits failed")
		return
	}
	fmt.Fprintf(d.out, "Fetched commits:\n%s\n", out)
}
