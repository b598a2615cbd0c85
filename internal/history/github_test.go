package history

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRepo(t *testing.T) {
	owner, name, err := ParseGitHubRepo("https://github.com/Azure/ARO-HCP")
	require.NoError(t, err)
	assert.Equal(t, "Azure", owner)
	assert.Equal(t, "ARO-HCP", name)

	_, _, err = ParseGitHubRepo("https://gitlab.com/group/project")
	assert.Error(t, err)
}

func newTestGitHub(t *testing.T, mux *http.ServeMux) *GitHub {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return NewGitHub(client, "o", "r")
}

func TestGitHubCompareIsNewestFirst(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/compare/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"commits":[
			{"sha":"a1","commit":{"message":"feat: old\n\nbody","author":{"name":"Ana","email":"ana@x.io","date":"2025-07-05T10:00:00Z"}}},
			{"sha":"b2","commit":{"message":"fix: new","author":{"name":"Luis","email":"luis@x.io","date":"2025-07-06T10:00:00Z"}}}
		]}`)
	})
	gh := newTestGitHub(t, mux)

	commits, err := gh.ListCommits(context.Background(), Query{Range: "main..dev"})
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, CommitRecord{Hash: "b2", Date: "2025-07-06T10:00:00Z", Author: "Luis", Message: "fix: new"}, commits[0])
	assert.Equal(t, "feat: old", commits[1].Message)

	filtered, err := gh.ListCommits(context.Background(), Query{Range: "main..dev", Author: "ANA@"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a1", filtered[0].Hash)
}

func TestGitHubDiff(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/commits/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept"), "diff") {
			http.Error(w, "expected diff media type", http.StatusBadRequest)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/empty") {
			return
		}
		fmt.Fprint(w, "diff --git a/x b/x\n+hello\n")
	})
	gh := newTestGitHub(t, mux)

	diff, err := gh.Diff(context.Background(), "abc")
	require.NoError(t, err)
	assert.Contains(t, diff, "+hello")

	_, err = gh.Diff(context.Background(), "empty")
	assert.Error(t, err)
}
