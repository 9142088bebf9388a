package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// WriteFile writes the report as indented JSON to path, replacing any
// existing file and creating parent directories.
func WriteFile(path string, report *domain.RunReport) error {
	return writeFile(path, func(f *os.File) Writer {
		return NewJSONWriter(f, WithPrettyPrint())
	}, report)
}

// WriteMarkdownFile writes the Markdown summary of report to path.
func WriteMarkdownFile(path string, report *domain.RunReport) error {
	return writeFile(path, func(f *os.File) Writer {
		return NewMarkdownWriter(f)
	}, report)
}

func writeFile(path string, newWriter func(*os.File) Writer, report *domain.RunReport) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	if _, err := newWriter(f).Write(report); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
