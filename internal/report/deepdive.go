package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/roivaz/gitreport/internal/logging"
)

var ErrNoAnalyses = errors.New("no chunk analysis succeeded")

// DeepDive is the chunked map-reduce report pipeline. Chunks are analyzed one
// at a time; a chunk's export finishes before the next chunk is sent.
type DeepDive struct {
	sender   Sender
	exporter Exporter // optional; receives each successful chunk analysis
	opts     Options
	log      logging.Logger
}

func NewDeepDive(sender Sender, exporter Exporter, opts Options, log logging.Logger) *DeepDive {
	return &DeepDive{sender: sender, exporter: exporter, opts: opts, log: log.WithName("deepdive")}
}

// ChunkLabel names the export of the chunk at zero-based index i.
func ChunkLabel(i int) string {
	return fmt.Sprintf("chunk-%d", i+1)
}

// Run returns the consolidated report. ok is false when every chunk analysis
// failed or the consolidation call failed.
func (d *DeepDive) Run(ctx context.Context, commits []CommitWithDiff) (string, bool) {
	chunks := Partition(commits, d.opts.ChunkSize)
	d.log.Info("analyzing commit chunks", "chunks", len(chunks), "commits", len(commits),
		"chunk_size", d.opts.ChunkSize, "provider", d.opts.Provider)

	analyses := d.analyzeChunks(ctx, chunks)
	if len(analyses) == 0 {
		d.log.Error(ErrNoAnalyses, "could not analyze any chunk", "chunks", len(chunks))
		return "", false
	}

	d.log.Info("generating consolidated report", "analyses", len(analyses), "chunks", len(chunks))
	return d.sender.Send(ctx, ConsolidationPrompt(analyses))
}

func (d *DeepDive) analyzeChunks(ctx context.Context, chunks [][]CommitWithDiff) []string {
	analyses := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		d.log.Info(fmt.Sprintf("analyzing chunk %d/%d", i+1, len(chunks)), "commits", len(chunk))

		analysis, ok := d.sender.Send(ctx, ChunkAnalysisPrompt(FormatChunk(chunk)))
		if !ok {
			d.log.Info("chunk dropped", "chunk", i+1)
			continue
		}
		d.log.Debug("chunk analysis", "chunk", i+1, "analysis", analysis)
		analyses = append(analyses, analysis)

		if d.exporter != nil && d.opts.OutPath != "" {
			if err := d.exporter.Export(ctx, analysis, ChunkLabel(i)); err != nil {
				d.log.Error(err, "chunk export failed", "chunk", i+1)
			}
		}
	}
	return analyses
}
