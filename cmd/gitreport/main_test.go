package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/gitreport/internal/history"
	"github.com/roivaz/gitreport/internal/llm"
)

func newTestRepo(t *testing.T, commits int) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	git := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	git("init", "-q", "-b", "main")
	git("config", "user.email", "ana@example.com")
	git("config", "user.name", "Ana")
	for i := 0; i < commits; i++ {
		name := fmt.Sprintf("file%d.txt", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name+"\n"), 0o644))
		git("add", name)
		git("commit", "-q", "-m", fmt.Sprintf("feat: change %d", i))
	}
	return dir
}

// execute runs a fresh root command in mock mode and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("E2E_TEST_MOCK_AI", "true")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func exported(t *testing.T, dir, label string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*-"+label+".md"))
	require.NoError(t, err)
	return matches
}

func TestMissingRangeOrBranchIsUsageError(t *testing.T) {
	_, err := execute(t)
	require.ErrorIs(t, err, history.ErrEmptyQuery)
}

func TestRangeAndBranchTogetherAreRejected(t *testing.T) {
	_, err := execute(t, "v1..v2", "--branch", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestMalformedRangeIsRejected(t *testing.T) {
	for _, rng := range []string{"main", "v1...v2", "..v2"} {
		_, err := execute(t, rng)
		assert.Error(t, err, rng)
	}
}

func TestConfigErrorsFailBeforeRunning(t *testing.T) {
	_, err := execute(t, "-b", "main", "--report-type", "weekly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report type")

	_, err = execute(t, "-b", "main", "--deep-dive", "--chunk-size", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk size")
}

func TestMissingCredentialFails(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("E2E_TEST_MOCK_AI", "false")
	t.Setenv("OPENAI_API_KEY", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"-b", "main", "--provider", "openai"})
	require.ErrorIs(t, cmd.Execute(), llm.ErrMissingCredential)
}

func TestNoCommitsExitsCleanly(t *testing.T) {
	repo := newTestRepo(t, 1)

	out, err := execute(t, "HEAD..HEAD", "--repo", repo)
	require.NoError(t, err)
	assert.NotContains(t, out, "REPORT START")
}

func TestDeepDiveExportsChunksAndFinal(t *testing.T) {
	repo := newTestRepo(t, 6)
	outDir := filepath.Join(t.TempDir(), "reports")

	out, err := execute(t, "-b", "main", "--repo", repo, "--deep-dive", "-o", outDir)
	require.NoError(t, err)

	assert.Len(t, exported(t, outDir, "chunk-1"), 1)
	assert.Len(t, exported(t, outDir, "chunk-2"), 1)
	assert.Empty(t, exported(t, outDir, "chunk-3"))
	assert.Len(t, exported(t, outDir, "summary"), 1)
	assert.Contains(t, out, "--- REPORT START ---")
	assert.Contains(t, out, llm.MockDefaultResponse)
}

func TestChunkSizeFlagReachesPipeline(t *testing.T) {
	repo := newTestRepo(t, 6)
	outDir := t.TempDir()

	_, err := execute(t, "-b", "main", "--repo", repo, "--deep-dive", "--chunk-size", "2", "-o", outDir)
	require.NoError(t, err)

	for _, label := range []string{"chunk-1", "chunk-2", "chunk-3", "summary"} {
		assert.Len(t, exported(t, outDir, label), 1, label)
	}
	assert.Empty(t, exported(t, outDir, "chunk-4"))
}

func TestPersonalReportTypeReachesPipeline(t *testing.T) {
	repo := newTestRepo(t, 2)
	outDir := t.TempDir()

	out, err := execute(t, "HEAD~1..HEAD", "--repo", repo, "--report-type", "personal", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, llm.MockPersonalResponse)

	files := exported(t, outDir, "personal")
	require.Len(t, files, 1)
	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, llm.MockPersonalResponse, string(content))
}
