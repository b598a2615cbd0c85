package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/llm"
	"github.com/roivaz/gitreport/internal/logging"
	"github.com/roivaz/gitreport/internal/report"
)

type fakeSource struct {
	commits  []history.CommitRecord
	listErr  error
	diffErrs map[string]error
	queries  []history.Query
	diffs    []string
}

func (f *fakeSource) ListCommits(_ context.Context, q history.Query) ([]history.CommitRecord, error) {
	f.queries = append(f.queries, q)
	return f.commits, f.listErr
}

func (f *fakeSource) Diff(_ context.Context, hash string) (string, error) {
	f.diffs = append(f.diffs, hash)
	if err := f.diffErrs[hash]; err != nil {
		return "", err
	}
	return "diff --git a/" + hash + ".go b/" + hash + ".go\n+change\n", nil
}

type countingSender struct {
	prompts []string
	fail    map[int]bool // 1-based call numbers that fail
	events  *[]string
}

func (s *countingSender) Send(_ context.Context, prompt string) (string, bool) {
	s.prompts = append(s.prompts, prompt)
	n := len(s.prompts)
	if s.events != nil {
		*s.events = append(*s.events, fmt.Sprintf("send-%d", n))
	}
	if s.fail[n] {
		return "", false
	}
	return fmt.Sprintf("reply-%d", n), true
}

type recordingExporter struct {
	labels []string
	events *[]string
}

func (e *recordingExporter) Export(_ context.Context, _ string, label string) error {
	e.labels = append(e.labels, label)
	if e.events != nil {
		*e.events = append(*e.events, "export-"+label)
	}
	return nil
}

func commits(n int) []history.CommitRecord {
	out := make([]history.CommitRecord, n)
	for i := range out {
		out[i] = history.CommitRecord{
			Hash:    fmt.Sprintf("c%d", i),
			Date:    "2025-07-01T10:00:00Z",
			Author:  "dev",
			Message: fmt.Sprintf("change %d", i),
		}
	}
	return out
}

func summaryRequest(outPath string, deepDive bool) Request {
	return Request{
		Query:    history.Query{Range: "v1..v2"},
		DeepDive: deepDive,
		Options: report.Options{
			ReportType: report.TypeSummary,
			ChunkSize:  5,
			OutPath:    outPath,
		},
	}
}

func TestDeepDiveExportsChunksThenFinal(t *testing.T) {
	var events []string
	source := &fakeSource{commits: commits(6)}
	sender := &countingSender{events: &events}
	files := &recordingExporter{events: &events}
	var out bytes.Buffer

	d := NewDriver(source, sender, logging.Discard(), WithFiles(files), WithOutput(&out))
	res, err := d.Run(context.Background(), summaryRequest("/tmp/reports", true))
	require.NoError(t, err)

	assert.True(t, res.Produced)
	assert.Equal(t, "reply-3", res.Report)
	assert.Equal(t, 6, res.Commits)
	assert.Len(t, sender.prompts, 3)
	assert.Len(t, source.diffs, 6)
	assert.Equal(t, []string{"chunk-1", "chunk-2", "summary"}, files.labels)
	assert.Equal(t, []string{"send-1", "export-chunk-1", "send-2", "export-chunk-2", "send-3", "export-summary"}, events)
	assert.True(t, strings.HasPrefix(sender.prompts[2], "You are a Software Architect"))
	assert.Contains(t, out.String(), "--- REPORT START ---")
	assert.Contains(t, out.String(), "reply-3")
	assert.Contains(t, out.String(), "--- REPORT END ---")
}

func TestZeroCommitsMakesNoModelCalls(t *testing.T) {
	source := &fakeSource{}
	sender := &countingSender{}
	files := &recordingExporter{}

	d := NewDriver(source, sender, logging.Discard(), WithFiles(files))
	res, err := d.Run(context.Background(), summaryRequest("/tmp/reports", true))
	require.NoError(t, err)

	assert.False(t, res.Produced)
	assert.Empty(t, sender.prompts)
	assert.Empty(t, files.labels)
}

func TestQueryFailureCountsAsZeroCommits(t *testing.T) {
	source := &fakeSource{listErr: errors.New("unknown revision")}
	sender := &countingSender{}

	d := NewDriver(source, sender, logging.Discard())
	res, err := d.Run(context.Background(), summaryRequest("", false))
	require.NoError(t, err)

	assert.False(t, res.Produced)
	assert.Zero(t, res.Commits)
	assert.Empty(t, sender.prompts)
}

func TestPersonalSingleShot(t *testing.T) {
	source := &fakeSource{commits: commits(3)}
	sender := &countingSender{}
	files := &recordingExporter{}
	req := summaryRequest("/tmp/reports", false)
	req.Options.ReportType = report.TypePersonal
	req.Query = history.Query{Branch: "main", Days: 7, Author: "dev"}

	d := NewDriver(source, sender, logging.Discard(), WithFiles(files))
	res, err := d.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, sender.prompts, 1)
	assert.True(t, strings.HasPrefix(sender.prompts[0], report.PersonalMarker))
	assert.Equal(t, []string{"personal"}, files.labels)
	assert.Empty(t, source.diffs)
	assert.True(t, res.Produced)
	require.Len(t, source.queries, 1)
	assert.Equal(t, "dev", source.queries[0].Author)
}

func TestSingleShotFailureExportsNothing(t *testing.T) {
	source := &fakeSource{commits: commits(2)}
	sender := &countingSender{fail: map[int]bool{1: true}}
	files := &recordingExporter{}
	var out bytes.Buffer

	d := NewDriver(source, sender, logging.Discard(), WithFiles(files), WithOutput(&out))
	res, err := d.Run(context.Background(), summaryRequest("/tmp/reports", false))
	require.NoError(t, err)

	assert.False(t, res.Produced)
	assert.Empty(t, files.labels)
	assert.NotContains(t, out.String(), "REPORT START")
}

func TestDiffFailureDropsCommit(t *testing.T) {
	source := &fakeSource{
		commits:  commits(3),
		diffErrs: map[string]error{"c1": errors.New("bad object")},
	}
	sender := &countingSender{}

	d := NewDriver(source, sender, logging.Discard())
	res, err := d.Run(context.Background(), summaryRequest("", true))
	require.NoError(t, err)

	require.True(t, res.Produced)
	require.Len(t, sender.prompts, 2)
	assert.Contains(t, sender.prompts[0], "Commit: c0")
	assert.NotContains(t, sender.prompts[0], "Commit: c1")
	assert.Contains(t, sender.prompts[0], "Commit: c2")
}

func TestAllDiffsFailSkipsModel(t *testing.T) {
	source := &fakeSource{
		commits:  commits(1),
		diffErrs: map[string]error{"c0": errors.New("bad object")},
	}
	sender := &countingSender{}

	d := NewDriver(source, sender, logging.Discard())
	res, err := d.Run(context.Background(), summaryRequest("", true))
	require.NoError(t, err)
	assert.False(t, res.Produced)
	assert.Empty(t, sender.prompts)
}

func TestArchiveReceivesFinalWithoutOutPath(t *testing.T) {
	source := &fakeSource{commits: commits(6)}
	sender := &countingSender{}
	files := &recordingExporter{}
	archive := &recordingExporter{}

	d := NewDriver(source, sender, logging.Discard(), WithFiles(files), WithArchive(archive))
	_, err := d.Run(context.Background(), summaryRequest("", true))
	require.NoError(t, err)

	assert.Empty(t, files.labels)
	assert.Equal(t, []string{"summary"}, archive.labels)
}

func TestVerboseEchoesCommitsAsYAML(t *testing.T) {
	source := &fakeSource{commits: commits(1)}
	var out bytes.Buffer
	req := summaryRequest("", false)
	req.Verbose = true

	d := NewDriver(source, &countingSender{}, logging.Discard(), WithOutput(&out))
	_, err := d.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "hash: c0")
	assert.Contains(t, out.String(), "message: change 0")
}

func TestInvalidOptionsAreConfigErrors(t *testing.T) {
	sender := &countingSender{}
	d := NewDriver(&fakeSource{commits: commits(1)}, sender, logging.Discard())

	req := summaryRequest("", true)
	req.Options.ChunkSize = 0
	_, err := d.Run(context.Background(), req)
	require.Error(t, err)

	req = summaryRequest("", false)
	req.Query = history.Query{}
	_, err = d.Run(context.Background(), req)
	require.ErrorIs(t, err, history.ErrEmptyQuery)
	assert.Empty(t, sender.prompts)
}

func TestMockClientAnswersPipelinePrompts(t *testing.T) {
	client, err := llm.New(context.Background(), llm.Config{Mock: true})
	require.NoError(t, err)

	var out bytes.Buffer
	d := NewDriver(&fakeSource{commits: commits(2)}, client, logging.Discard(), WithOutput(&out))

	res, err := d.Run(context.Background(), summaryRequest("", false))
	require.NoError(t, err)
	assert.Equal(t, llm.MockSummaryResponse, res.Report)

	req := summaryRequest("", false)
	req.Options.ReportType = report.TypePersonal
	res, err = d.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, llm.MockPersonalResponse, res.Report)

	res, err = d.Run(context.Background(), summaryRequest("", true))
	require.NoError(t, err)
	assert.Equal(t, llm.MockDefaultResponse, res.Report)
}

func TestRunIDIsAttachedToLogs(t *testing.T) {
	var lines []string
	base := funcr.New(func(prefix, args string) {
		lines = append(lines, prefix+" "+args)
	}, funcr.Options{})

	d := NewDriver(&fakeSource{}, &countingSender{}, logging.New(base), WithRunID("run-42"))
	_, err := d.Run(context.Background(), summaryRequest("", false))
	require.NoError(t, err)

	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, `"run_id"="run-42"`)
	}
}
