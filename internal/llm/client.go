// Package llm is the single call surface for language-model backends. A Client
// never returns backend errors to its callers: failures are logged and
// reported as a missing result.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roivaz/gitreport/internal/logging"
	"github.com/roivaz/gitreport/internal/tokens"
)

type Client struct {
	backend Backend
	model   string
	log     logging.Logger
	to      time.Duration
}

// New resolves the provider and builds its backend. Configuration problems,
// such as a missing credential, are returned before any network call.
func New(ctx context.Context, cfg Config) (*Client, error) {
	log := cfg.Logger.WithName("llm")

	p, model, known := cfg.resolved()
	if !known {
		log.Info("unknown provider, using default", "requested", cfg.Provider, "provider", p)
	}

	backend, err := newBackend(ctx, p, model, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, model, cfg.CallTimeout, log), nil
}

// NewWithBackend wraps an already constructed backend.
func NewWithBackend(backend Backend, model string, timeout time.Duration, log logging.Logger) *Client {
	return &Client{backend: backend, model: model, log: log, to: timeout}
}

// Provider returns the name of the backend in use.
func (c *Client) Provider() string { return c.backend.Name() }

// Model returns the model identifier in use.
func (c *Client) Model() string { return c.model }

// Send issues one completion. ok is false when the backend failed, timed out
// or returned an empty response; the cause has already been logged.
func (c *Client) Send(ctx context.Context, prompt string) (string, bool) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if c.log.DebugEnabled() {
		c.log.Debug("sending prompt", "provider", c.backend.Name(), "model", c.model,
			"chars", len(prompt), "tokens", tokens.Estimate(prompt))
	}

	start := time.Now()
	text, err := c.backend.Complete(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyResponse
	}
	if err != nil {
		c.log.Error(c.annotateError(err), "model call failed",
			"provider", c.backend.Name(), "model", c.model, "elapsed", time.Since(start).String())
		return "", false
	}
	c.log.Debug("model call completed", "provider", c.backend.Name(), "elapsed", time.Since(start).String())
	return text, true
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.to <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.to)
}

func (c *Client) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("llm call timed out after %s: %w", c.to, err)
	}
	return err
}
