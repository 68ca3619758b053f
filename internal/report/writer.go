package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/annoview/annoview/internal/model"
)

// Writer defines the interface for extraction output.
// Implementations write the extraction table in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or buffers with
// the same API.
type Writer interface {
	// WriteWide outputs the wide-form table. The schema lists the label
	// columns for formats with a fixed column set (CSV, Markdown);
	// formats with per-row keys (JSON) ignore it.
	// Returns the number of bytes written and any error encountered.
	WriteWide(rows []*model.Row, schema []string) (int, error)

	// WriteLong outputs the long-form table.
	WriteLong(rows []model.LongRow) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Writer interface is different from io.Writer;
// we write tables, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteWide outputs the wide table to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteWide(rows []*model.Row, schema []string) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteWide(rows, schema)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteLong outputs the long table to all configured Writers.
func (m *MultiWriter) WriteLong(rows []model.LongRow) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteLong(rows)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// CreateFile opens path for writing, creating parent directories as
// needed. Failures are wrapped with the target path so the operator knows
// which output could not be written.
func CreateFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory for %s: %w", path, err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, nil
}
