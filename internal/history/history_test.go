package history

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/gitreport/internal/gitrepo"
)

func TestQueryValidate(t *testing.T) {
	assert.ErrorIs(t, Query{}.Validate(), ErrEmptyQuery)
	assert.NoError(t, Query{Range: "main..develop"}.Validate())
	assert.NoError(t, Query{Branch: "main", Days: 7}.Validate())
	assert.Error(t, Query{Branch: "main"}.Validate())
	assert.Error(t, Query{Range: "main"}.Validate())
	assert.Error(t, Query{Range: "..develop"}.Validate())
	assert.Error(t, Query{Range: "main...develop"}.Validate())
}

func TestOptionLikeRevisionsAreRejected(t *testing.T) {
	cases := []Query{
		{Branch: "--output=/tmp/x", Days: 7},
		{Branch: " -p", Days: 7},
		{Range: "--output=/tmp/x..HEAD"},
		{Range: "main..--all"},
		{Branch: "main\n--all", Days: 7},
	}
	for _, q := range cases {
		assert.ErrorIs(t, q.Validate(), ErrInvalidRevision, q.Describe())
	}
}

func TestLocalDoesNotPassOptionsToGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitRun(t, dir, "init", "-q", "-b", "main")
	gitRun(t, dir, "config", "user.email", "ana@example.com")
	gitRun(t, dir, "config", "user.name", "Ana")
	commitFile(t, dir, "a.txt", "one\n", "feat: first")

	src := NewLocal(gitrepo.New(gitrepo.RepoConfig{Path: dir}))
	target := filepath.Join(t.TempDir(), "written.txt")

	_, err := src.ListCommits(context.Background(), Query{Branch: "--output=" + target, Days: 7})
	require.ErrorIs(t, err, ErrInvalidRevision)
	_, err = src.ListCommits(context.Background(), Query{Range: "--output=" + target + "..main"})
	require.ErrorIs(t, err, ErrInvalidRevision)
	_, err = src.Diff(context.Background(), "--output="+target)
	require.Error(t, err)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "git must not create %s", target)
}

func TestSplitRange(t *testing.T) {
	from, to, err := SplitRange("v1.0.0..HEAD")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", from)
	assert.Equal(t, "HEAD", to)
}

func TestQuerySince(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	q := Query{Branch: "main", Days: 7}
	assert.Equal(t, time.Date(2025, 7, 3, 12, 0, 0, 0, time.UTC), q.Since(now))
}

func TestLocalAgainstRealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitRun(t, dir, "init", "-q", "-b", "main")
	gitRun(t, dir, "config", "user.email", "ana@example.com")
	gitRun(t, dir, "config", "user.name", "Ana")
	commitFile(t, dir, "a.txt", "one\n", "feat: first")
	gitRun(t, dir, "tag", "start")
	commitFile(t, dir, "b.txt", "two\n", "feat: second")
	commitFile(t, dir, "a.txt", "one\nthree\n", "fix: third")

	src := NewLocal(gitrepo.New(gitrepo.RepoConfig{Path: dir}))
	ctx := context.Background()

	commits, err := src.ListCommits(ctx, Query{Range: "start..main"})
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "fix: third", commits[0].Message)
	assert.Equal(t, "feat: second", commits[1].Message)
	assert.Equal(t, "Ana", commits[0].Author)

	byBranch, err := src.ListCommits(ctx, Query{Branch: "main", Days: 1})
	require.NoError(t, err)
	assert.Len(t, byBranch, 3)

	none, err := src.ListCommits(ctx, Query{Range: "start..main", Author: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)

	diff, err := src.Diff(ctx, commits[0].Hash)
	require.NoError(t, err)
	assert.Contains(t, diff, "+three")

	_, err = src.Diff(ctx, "0000000000000000000000000000000000000000")
	assert.Error(t, err)
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func commitFile(t *testing.T, dir, name, content, msg string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	gitRun(t, dir, "add", name)
	gitRun(t, dir, "commit", "-q", "-m", msg)
}
