package format

import (
	"log/slog"

	"github.com/annoview/annoview/internal/model"
)

// Formatter converts Records into wide output rows.
type Formatter struct {
	// logger is used for structured logging during formatting.
	logger *slog.Logger
}

// Option is a function that configures a Formatter.
type Option func(*Formatter)

// WithLogger sets a custom logger for the formatter.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Formatter) {
		f.logger = logger
	}
}

// New creates a new Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Wide produces one Row per Record. Each entity span is sliced out of the
// record's text and appended to the list keyed by the span's label, so
// column order within a row is first-occurrence order of its labels, and
// value order within a column is span order. Records without entities
// still produce a row carrying only the identifier.
//
// Pure transformation: the input records are not modified.
func (f *Formatter) Wide(records []model.Record) []*model.Row {
	rows := make([]*model.Row, 0, len(records))
	tokens := 0

	for i := range records {
		record := &records[i]
		row := model.NewRow(record.RecordID)
		for _, span := range record.Entities {
			row.Append(span.Label, record.Slice(span))
			tokens++
		}
		rows = append(rows, row)
	}

	f.logger.Debug("wide table built", "rows", len(rows), "tokens", tokens)

	return rows
}
