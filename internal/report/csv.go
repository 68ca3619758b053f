package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/annoview/annoview/internal/model"
)

// CSVWriter outputs the extraction in CSV format for spreadsheet import.
//
// In the wide shape there is one column per schema label and list cells are
// serialized as JSON arrays, so a spreadsheet keeps the full token list in
// one cell without inventing a lossy join character. In the long shape each
// extracted token gets its own row.
type CSVWriter struct {
	// counter tracks bytes written through the csv encoder.
	counter *countingWriter

	// idField is the record-identifier column name.
	idField string
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithCSVIDField sets the record-identifier column name.
// Defaults to "RECORD_ID".
func WithCSVIDField(name string) CSVWriterOption {
	return func(w *CSVWriter) {
		w.idField = name
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		counter: &countingWriter{w: output},
		idField: "RECORD_ID",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteWide outputs one CSV row per record with the schema's label columns.
// A row lacking a schema label gets an empty cell; labels outside the
// schema are not written.
func (w *CSVWriter) WriteWide(rows []*model.Row, schema []string) (int, error) {
	enc := csv.NewWriter(w.counter)

	header := append([]string{w.idField}, schema...)
	if err := enc.Write(header); err != nil {
		return w.counter.n, fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, 0, len(header))
	for _, row := range rows {
		record = record[:0]
		record = append(record, strconv.Itoa(row.ID))
		for _, label := range schema {
			if !row.Has(label) {
				record = append(record, "")
				continue
			}
			cell, err := json.Marshal(row.Values(label))
			if err != nil {
				return w.counter.n, fmt.Errorf("failed to encode cell for label %q: %w", label, err)
			}
			record = append(record, string(cell))
		}
		if err := enc.Write(record); err != nil {
			return w.counter.n, fmt.Errorf("failed to write CSV row %d: %w", row.ID, err)
		}
	}

	enc.Flush()
	return w.counter.n, enc.Error()
}

// WriteLong outputs one CSV row per extracted token with columns
// <id>, NAME, VALUE.
func (w *CSVWriter) WriteLong(rows []model.LongRow) (int, error) {
	enc := csv.NewWriter(w.counter)

	if err := enc.Write([]string{w.idField, model.NameColumn, model.ValueColumn}); err != nil {
		return w.counter.n, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{strconv.Itoa(row.ID), row.Name, row.Value}
		if err := enc.Write(record); err != nil {
			return w.counter.n, fmt.Errorf("failed to write CSV row %d: %w", row.ID, err)
		}
	}

	enc.Flush()
	return w.counter.n, enc.Error()
}

// countingWriter counts bytes so the Writer interface can report how much
// was written through the csv encoder.
type countingWriter struct {
	w io.Writer
	n int
}

// Write implements io.Writer.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
