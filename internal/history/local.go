package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roivaz/gitreport/internal/gitrepo"
)

// Local reads history from a git checkout on disk.
type Local struct {
	repo *gitrepo.Repo
	now  func() time.Time
}

func NewLocal(repo *gitrepo.Repo) *Local {
	return &Local{repo: repo, now: time.Now}
}

func (l *Local) ListCommits(ctx context.Context, q Query) ([]CommitRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var revs []string
	var opts []string
	if q.Branch != "" {
		revs = []string{q.Branch}
		opts = append(opts, "--since="+q.Since(l.now()).UTC().Format(time.RFC3339))
	} else {
		from, to, _ := SplitRange(q.Range)
		revs = []string{fmt.Sprintf("%s..%s", from, to)}
	}
	if q.Author != "" {
		opts = append(opts, "--author="+q.Author)
	}

	entries, err := l.repo.Log(ctx, revs, opts...)
	if err != nil {
		return nil, fmt.Errorf("list commits (%s): %w", q.Describe(), err)
	}

	commits := make([]CommitRecord, 0, len(entries))
	for _, e := range entries {
		commits = append(commits, CommitRecord{Hash: e.SHA, Date: e.Date, Author: e.Author, Message: e.Subject})
	}
	return commits, nil
}

func (l *Local) Diff(ctx context.Context, hash string) (string, error) {
	out, err := l.repo.Show(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", hash, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("empty diff")
	}
	return out, nil
}
