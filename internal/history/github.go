package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	vcsurl "github.com/gitsight/go-vcsurl"
	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const maxGitHubPages = 10

func NewGitHubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(&http.Client{Timeout: 30 * time.Second})
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = 30 * time.Second
	return github.NewClient(tc)
}

// ParseGitHubRepo extracts owner and name from any GitHub URL form
// (https, ssh, git@).
func ParseGitHubRepo(rawURL string) (owner, name string, err error) {
	info, err := vcsurl.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", fmt.Errorf("parse repository url %q: %w", rawURL, err)
	}
	if info.Host != vcsurl.GitHub {
		return "", "", fmt.Errorf("repository %q is not hosted on github.com", rawURL)
	}
	if info.Username == "" || info.Name == "" {
		return "", "", fmt.Errorf("repository url %q is missing owner or name", rawURL)
	}
	return info.Username, info.Name, nil
}

// GitHub reads history through the GitHub REST API.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	now    func() time.Time
}

func NewGitHub(client *github.Client, owner, repo string) *GitHub {
	return &GitHub{client: client, owner: owner, repo: repo, now: time.Now}
}

func (g *GitHub) ListCommits(ctx context.Context, q Query) ([]CommitRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var (
		commits []*github.RepositoryCommit
		err     error
	)
	if q.Branch != "" {
		commits, err = g.listBranch(ctx, q)
	} else {
		commits, err = g.compare(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("list commits (%s): %w", q.Describe(), err)
	}

	records := make([]CommitRecord, 0, len(commits))
	for _, c := range commits {
		if q.Author != "" && !matchesAuthor(c, q.Author) {
			continue
		}
		records = append(records, toCommitRecord(c))
	}
	return records, nil
}

func (g *GitHub) listBranch(ctx context.Context, q Query) ([]*github.RepositoryCommit, error) {
	opts := &github.CommitsListOptions{
		SHA:         q.Branch,
		Since:       q.Since(g.now()),
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var all []*github.RepositoryCommit
	for page := 0; page < maxGitHubPages; page++ {
		commits, resp, err := g.client.Repositories.ListCommits(ctx, g.owner, g.repo, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, commits...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// compare lists base..head. GitHub returns the commits oldest first; they are
// reversed to match git log ordering.
func (g *GitHub) compare(ctx context.Context, q Query) ([]*github.RepositoryCommit, error) {
	base, head, err := SplitRange(q.Range)
	if err != nil {
		return nil, err
	}
	cmp, _, err := g.client.Repositories.CompareCommits(ctx, g.owner, g.repo, base, head, &github.ListOptions{PerPage: 250})
	if err != nil {
		return nil, err
	}
	commits := cmp.Commits
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}

func (g *GitHub) Diff(ctx context.Context, hash string) (string, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return "", errors.New("commit hash is required")
	}
	raw, _, err := g.client.Repositories.GetCommitRaw(ctx, g.owner, g.repo, hash, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", hash, err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("empty diff")
	}
	return raw, nil
}

func toCommitRecord(c *github.RepositoryCommit) CommitRecord {
	author := c.GetCommit().GetAuthor()
	message := c.GetCommit().GetMessage()
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}
	return CommitRecord{
		Hash:    c.GetSHA(),
		Date:    author.GetDate().Format(time.RFC3339),
		Author:  author.GetName(),
		Message: strings.TrimSpace(message),
	}
}

// matchesAuthor mirrors git's --author: a case-insensitive match against the
// name, email or login.
func matchesAuthor(c *github.RepositoryCommit, filter string) bool {
	filter = strings.ToLower(filter)
	author := c.GetCommit().GetAuthor()
	for _, v := range []string{author.GetName(), author.GetEmail(), c.GetAuthor().GetLogin()} {
		if v != "" && strings.Contains(strings.ToLower(v), filter) {
			return true
		}
	}
	return false
}
