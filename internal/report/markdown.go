package report

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/annoview/annoview/internal/model"
)

// MarkdownWriter outputs the extraction in Markdown format.
// This format is designed for human review and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables and headings instead of
// hand-concatenated strings.
type MarkdownWriter struct {
	baseWriter

	// idField is the record-identifier column name.
	idField string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownIDField sets the record-identifier column name.
// Defaults to "RECORD_ID".
func WithMarkdownIDField(name string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.idField = name
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		idField:    "RECORD_ID",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteWide outputs the wide table as a Markdown document with one column
// per schema label. List cells are serialized as JSON arrays, matching the
// CSV shape.
func (w *MarkdownWriter) WriteWide(rows []*model.Row, schema []string) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, len(rows), len(schema))

	table := markdown.TableSet{
		Header: append([]string{w.idField}, schema...),
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		record := make([]string, 0, len(schema)+1)
		record = append(record, strconv.Itoa(row.ID))
		for _, label := range schema {
			if !row.Has(label) {
				record = append(record, "")
				continue
			}
			cell, err := json.Marshal(row.Values(label))
			if err != nil {
				return 0, err
			}
			record = append(record, "`"+string(cell)+"`")
		}
		table.Rows = append(table.Rows, record)
	}

	md.H2("Extracted Tokens (wide)")
	md.PlainText("")
	md.Table(table)

	return len(md.String()), md.Build()
}

// WriteLong outputs the long table as a Markdown document with one row per
// extracted token.
func (w *MarkdownWriter) WriteLong(rows []model.LongRow) (int, error) {
	md := markdown.NewMarkdown(w.output)

	labels := make(map[string]bool)
	for _, row := range rows {
		labels[row.Name] = true
	}
	w.writeHeader(md, len(rows), len(labels))

	table := markdown.TableSet{
		Header: []string{w.idField, model.NameColumn, model.ValueColumn},
		Rows:   make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(row.ID), row.Name, row.Value,
		})
	}

	md.H2("Extracted Tokens (long)")
	md.PlainText("")
	md.Table(table)

	return len(md.String()), md.Build()
}

// writeHeader writes the document title and summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, rowCount, labelCount int) {
	md.H1("Annotation Extraction Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Rows", strconv.Itoa(rowCount)},
			{"Labels", strconv.Itoa(labelCount)},
		},
	})
	md.PlainText("")
}
