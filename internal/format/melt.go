package format

import (
	"errors"
	"fmt"
	"sort"

	"github.com/annoview/annoview/internal/model"
)

// SchemaMode selects how the melt derives its label columns.
type SchemaMode int

const (
	// SchemaFirstRow derives the column set from the first wide row
	// only. Labels that first occur on later rows are silently omitted
	// from the melt. This is a latent correctness gap whenever a later
	// record's label set is not a subset of the first record's; it is
	// kept as the default because downstream consumers of the original
	// export rely on it.
	SchemaFirstRow SchemaMode = iota

	// SchemaUnion derives the column set from the union of all rows'
	// labels, in first-occurrence order across the whole table.
	SchemaUnion
)

// Schema mode names as accepted by configuration.
const (
	schemaFirstRowName = "first-row"
	schemaUnionName    = "union"
)

// ErrUnknownSchemaMode is returned by ParseSchemaMode for unknown names.
var ErrUnknownSchemaMode = errors.New("unknown schema mode")

// ErrUnknownSortColumn is returned by SortLong for unknown column names.
var ErrUnknownSortColumn = errors.New("unknown sort column")

// ParseSchemaMode converts a configuration string into a SchemaMode.
func ParseSchemaMode(name string) (SchemaMode, error) {
	switch name {
	case schemaFirstRowName:
		return SchemaFirstRow, nil
	case schemaUnionName:
		return SchemaUnion, nil
	default:
		return SchemaFirstRow, fmt.Errorf("%w: %q", ErrUnknownSchemaMode, name)
	}
}

// String returns the configuration name of the mode.
func (m SchemaMode) String() string {
	if m == SchemaUnion {
		return schemaUnionName
	}
	return schemaFirstRowName
}

// Schema derives the melt's label columns from the wide rows under the
// given mode. The result never includes the identifier column.
func Schema(rows []*model.Row, mode SchemaMode) []string {
	if len(rows) == 0 {
		return nil
	}

	if mode == SchemaFirstRow {
		// Copy so callers cannot mutate the row's internal slice.
		return append([]string(nil), rows[0].Labels()...)
	}

	var schema []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, label := range row.Labels() {
			if !seen[label] {
				seen[label] = true
				schema = append(schema, label)
			}
		}
	}
	return schema
}

// Melt unpivots the wide rows into one LongRow per (record, label, token)
// triple. Only labels present in schema contribute; a row lacking a schema
// label simply contributes no rows for it, and empty columns are dropped
// entirely rather than null-filled.
//
// Pure transformation: the wide rows are not modified.
func Melt(rows []*model.Row, schema []string) []model.LongRow {
	var long []model.LongRow
	for _, row := range rows {
		for _, label := range schema {
			for _, value := range row.Values(label) {
				long = append(long, model.LongRow{
					ID:    row.ID,
					Name:  label,
					Value: value,
				})
			}
		}
	}
	return long
}

// SortLong stably sorts the long rows ascending by the named column.
// Valid columns are idField (or the empty string, which also means the
// identifier), model.NameColumn, and model.ValueColumn. The stable sort
// preserves token order within equal keys, so values within one label list
// keep their original order.
func SortLong(rows []model.LongRow, column, idField string) error {
	var less func(i, j int) bool

	switch column {
	case "", idField:
		less = func(i, j int) bool { return rows[i].ID < rows[j].ID }
	case model.NameColumn:
		less = func(i, j int) bool { return rows[i].Name < rows[j].Name }
	case model.ValueColumn:
		less = func(i, j int) bool { return rows[i].Value < rows[j].Value }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSortColumn, column)
	}

	sort.SliceStable(rows, less)
	return nil
}
