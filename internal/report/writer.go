// Package report renders a RunReport as JSON or a Markdown summary.
package report

import (
	"io"

	"github.com/hamed0406/perfprobe/internal/domain"
)

// Writer renders a run report to some destination.
type Writer interface {
	// Write returns the number of bytes written.
	Write(report *domain.RunReport) (int, error)
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
