package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/roivaz/gitreport/internal/history"
)

type Type string

const (
	TypeSummary  Type = "summary"
	TypePersonal Type = "personal"
)

const DefaultChunkSize = 5

// ParseType accepts "summary" or "personal" case-insensitively; an empty
// string selects summary.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case "", TypeSummary:
		return TypeSummary, nil
	case TypePersonal:
		return TypePersonal, nil
	default:
		return "", fmt.Errorf("unsupported report type %q (must be summary or personal)", s)
	}
}

// Options is built once per run and never modified afterwards.
type Options struct {
	Provider   string
	ModelName  string
	ReportType Type
	ChunkSize  int
	OutPath    string
}

func (o Options) Validate() error {
	if o.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be at least 1, got %d", o.ChunkSize)
	}
	if _, err := ParseType(string(o.ReportType)); err != nil {
		return err
	}
	return nil
}

// CommitWithDiff is a commit whose patch was fetched successfully.
type CommitWithDiff struct {
	history.CommitRecord
	Diff string
}

// Sender is the model call surface used by the generators. ok is false when
// the call failed.
type Sender interface {
	Send(ctx context.Context, prompt string) (string, bool)
}

// Exporter persists a document under a label.
type Exporter interface {
	Export(ctx context.Context, content, label string) error
}
