package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/annoview/annoview/internal/model"
)

// JSONWriter outputs the extraction in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: encoding/json marshals maps in sorted key order, but the
// wide form's column order is first-occurrence insertion order with the
// identifier field first. We therefore assemble each object by hand from
// individually-marshaled keys and values instead of marshaling a map.
type JSONWriter struct {
	baseWriter

	// idField is the record-identifier key name.
	idField string

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIDField sets the record-identifier key name.
// Defaults to "RECORD_ID".
func WithIDField(name string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.idField = name
	}
}

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		idField:    "RECORD_ID",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteWide outputs the wide table as a JSON array of objects. Each object
// carries the identifier field first, then one key per label in the row's
// first-occurrence order. Labels absent from a row are omitted, not
// null-filled. The schema argument is ignored; JSON keys vary per row.
func (w *JSONWriter) WriteWide(rows []*model.Row, _ []string) (int, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := w.writeObject(&buf, row.ID, func(buf *bytes.Buffer) error {
			for _, label := range row.Labels() {
				if err := w.writeField(buf, label, row.Values(label)); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return 0, err
		}
	}

	buf.WriteByte(']')
	return w.flush(buf.Bytes())
}

// WriteLong outputs the long table as a JSON array of
// {<id>, NAME, VALUE} objects.
func (w *JSONWriter) WriteLong(rows []model.LongRow) (int, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, row := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := w.writeObject(&buf, row.ID, func(buf *bytes.Buffer) error {
			if err := w.writeField(buf, model.NameColumn, row.Name); err != nil {
				return err
			}
			return w.writeField(buf, model.ValueColumn, row.Value)
		}); err != nil {
			return 0, err
		}
	}

	buf.WriteByte(']')
	return w.flush(buf.Bytes())
}

// writeObject writes one JSON object opening with the identifier field and
// continuing with the fields emitted by rest.
func (w *JSONWriter) writeObject(buf *bytes.Buffer, id int, rest func(*bytes.Buffer) error) error {
	buf.WriteByte('{')

	key, err := json.Marshal(w.idField)
	if err != nil {
		return fmt.Errorf("failed to encode id field name: %w", err)
	}
	buf.Write(key)
	buf.WriteByte(':')
	fmt.Fprintf(buf, "%d", id)

	if err := rest(buf); err != nil {
		return err
	}

	buf.WriteByte('}')
	return nil
}

// writeField appends one ",key:value" pair to buf.
func (w *JSONWriter) writeField(buf *bytes.Buffer, name string, value any) error {
	key, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("failed to encode field name %q: %w", name, err)
	}
	val, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode field %q: %w", name, err)
	}

	buf.WriteByte(',')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

// flush optionally indents the assembled JSON and writes it out with a
// trailing newline for better terminal output.
func (w *JSONWriter) flush(data []byte) (int, error) {
	if w.indent {
		var indented bytes.Buffer
		if err := json.Indent(&indented, data, w.indentPrefix, w.indentString); err != nil {
			return 0, fmt.Errorf("failed to indent JSON output: %w", err)
		}
		data = indented.Bytes()
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
