// Package export writes finished reports to timestamped files and, optionally,
// to the report archive.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roivaz/gitreport/internal/logging"
)

const FormatMarkdown = "md"

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Files writes each document to <dir>/<timestamp>-<label>.<format>.
type Files struct {
	dir    string
	format string
	log    logging.Logger
	now    func() time.Time
}

func NewFiles(dir, format string, log logging.Logger) *Files {
	if format == "" {
		format = FormatMarkdown
	}
	return &Files{dir: dir, format: strings.ToLower(format), log: log.WithName("export"), now: time.Now}
}

// Filename builds the export file name for label at time t: the UTC ISO-8601
// timestamp with ':' and '.' replaced by '-'.
func Filename(t time.Time, label, format string) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return fmt.Sprintf("%s-%s.%s", ts, label, format)
}

// Export writes content under label. Failures are logged and returned; they
// never affect the report already produced.
func (f *Files) Export(_ context.Context, content, label string) error {
	if f.format != FormatMarkdown {
		err := fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.format)
		f.log.Error(err, "report not exported", "label", label)
		return err
	}

	path := filepath.Join(f.dir, Filename(f.now(), label, f.format))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.log.Error(err, "create export directory failed", "dir", f.dir)
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		f.log.Error(err, "write report failed", "path", path)
		return fmt.Errorf("write report: %w", err)
	}
	f.log.Info("report exported", "path", path)
	return nil
}

// Exporter is the shape shared by every export target.
type Exporter interface {
	Export(ctx context.Context, content, label string) error
}

// Tee forwards every export to all targets in order and joins their errors.
type Tee []Exporter

func (t Tee) Export(ctx context.Context, content, label string) error {
	var errs []error
	for _, target := range t {
		if err := target.Export(ctx, content, label); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
