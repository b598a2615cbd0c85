package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Minute

type RepoConfig struct {
	Path    string
	Timeout time.Duration // per git invocation; default 2m
}

type Repo struct {
	cfg    RepoConfig
	runner Runner
}

func New(cfg RepoConfig) *Repo {
	if cfg.Path == "" {
		cfg.Path = "."
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Repo{cfg: cfg, runner: Runner{Timeout: cfg.Timeout}}
}

// Runner executes git as a subprocess, killing it when the timeout elapses or
// the context is cancelled.
type Runner struct {
	Timeout time.Duration
}

func (r Runner) Git(ctx context.Context, dir string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, "git", args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Start(); err != nil {
		return "", formatGitError(args, err, stderr.String())
	}
	done := make(chan error, 1)
	go func() { done <- c.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return "", formatGitError(args, err, stderr.String())
		}
		return stdout.String(), nil
	case <-time.After(r.Timeout):
		_ = c.Process.Kill()
		<-done
		return "", formatGitTimeoutError(args, r.Timeout, stderr.String())
	case <-ctx.Done():
		_ = c.Process.Kill()
		<-done
		return "", formatGitContextError(args, ctx.Err(), stderr.String())
	}
}

func formatGitError(args []string, cause error, stderr string) error {
	cmd := strings.Join(args, " ")
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("git %s: %w: %s", cmd, cause, stderr)
	}
	return fmt.Errorf("git %s: %w", cmd, cause)
}

func formatGitTimeoutError(args []string, timeout time.Duration, stderr string) error {
	return formatGitError(args, fmt.Errorf("command timed out after %s", timeout), stderr)
}

func formatGitContextError(args []string, cause error, stderr string) error {
	if cause == nil {
		cause = errors.New("context canceled")
	}
	return formatGitError(args, cause, stderr)
}

// Log runs `git log` with the record format understood by ParseLog. opts
// (such as --since or --author) come first; revs follow --end-of-options so
// git never reads a revision as an option.
func (r *Repo) Log(ctx context.Context, revs []string, opts ...string) ([]LogEntry, error) {
	args := append([]string{"log", "--no-color", logFormat, "--date=iso-strict"}, opts...)
	args = append(args, "--end-of-options")
	args = append(args, revs...)
	args = append(args, "--")
	out, err := r.runner.Git(ctx, r.cfg.Path, args...)
	if err != nil {
		return nil, err
	}
	return ParseLog(out), nil
}

// Show returns the full patch of a single commit. -m expands merge commits
// against each parent so their changes are not hidden.
func (r *Repo) Show(ctx context.Context, sha string) (string, error) {
	sha = strings.TrimSpace(sha)
	if sha == "" {
		return "", errors.New("commit hash is required")
	}
	return r.runner.Git(ctx, r.cfg.Path, "show", "-m", "--no-color", "--no-ext-diff", "--find-renames", "--end-of-options", sha)
}
