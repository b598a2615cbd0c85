package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CommitRecord is the metadata of a single commit as returned by a Source.
type CommitRecord struct {
	Hash    string `json:"hash"`
	Date    string `json:"date"`
	Author  string `json:"author"`
	Message string `json:"message"`
}

// Query selects commits either by revision range or by branch and time window.
type Query struct {
	Range  string // "<from>..<to>"
	Branch string
	Days   int
	Author string
}

var (
	ErrEmptyQuery      = errors.New("a commit range or a branch is required")
	ErrInvalidRevision = errors.New("invalid revision")
)

// Source queries a version-control history.
type Source interface {
	ListCommits(ctx context.Context, q Query) ([]CommitRecord, error)
	Diff(ctx context.Context, hash string) (string, error)
}

// Validate checks that the query names exactly one selection mode and that a
// range is made of two non-empty revisions.
func (q Query) Validate() error {
	if q.Branch != "" {
		if err := checkRevision(q.Branch); err != nil {
			return err
		}
		if q.Days <= 0 {
			return fmt.Errorf("days must be positive, got %d", q.Days)
		}
		return nil
	}
	if q.Range == "" {
		return ErrEmptyQuery
	}
	_, _, err := SplitRange(q.Range)
	return err
}

// Since returns the start of the branch window relative to now.
func (q Query) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -q.Days)
}

// Describe renders the query for log messages.
func (q Query) Describe() string {
	if q.Branch != "" {
		return fmt.Sprintf("branch %s, last %d days", q.Branch, q.Days)
	}
	return "range " + q.Range
}

// SplitRange splits "<from>..<to>" into its two revisions.
func SplitRange(r string) (from, to string, err error) {
	if strings.Contains(r, "...") {
		return "", "", fmt.Errorf("invalid range %q: expected <from>..<to>", r)
	}
	parts := strings.SplitN(r, "..", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("invalid range %q: expected <from>..<to>", r)
	}
	from, to = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if err := checkRevision(from); err != nil {
		return "", "", err
	}
	if err := checkRevision(to); err != nil {
		return "", "", err
	}
	return from, to, nil
}

// checkRevision rejects names git would parse as options or that carry
// control characters.
func checkRevision(rev string) error {
	if strings.HasPrefix(strings.TrimSpace(rev), "-") {
		return fmt.Errorf("%w %q: must not start with '-'", ErrInvalidRevision, rev)
	}
	if strings.ContainsAny(rev, "\x00\n\r") {
		return fmt.Errorf("%w %q: contains control characters", ErrInvalidRevision, rev)
	}
	return nil
}
