package model

// Column names used by the long (melted) output form.
// The identifier column name is configurable; these two are fixed.
const (
	// NameColumn is the long-form column holding the entity label.
	NameColumn = "NAME"

	// ValueColumn is the long-form column holding one extracted substring.
	ValueColumn = "VALUE"
)

// Row is one wide-form output row: a record identifier plus one column per
// label that actually occurs on the record, each holding the ordered list of
// substrings annotated with that label.
//
// Design decision: We keep an explicit ordered label slice next to the value
// map instead of relying on map iteration order. Column order is defined as
// first-occurrence insertion order, and Go maps deliberately randomize
// iteration, so the order must be tracked separately.
type Row struct {
	// ID is the record identifier.
	ID int

	// labels holds column names in first-occurrence order.
	labels []string

	// values maps a label to its extracted substrings in span order.
	values map[string][]string
}

// NewRow creates an empty Row for the given record identifier.
func NewRow(id int) *Row {
	return &Row{
		ID:     id,
		labels: make([]string, 0),
		values: make(map[string][]string),
	}
}

// Append adds one extracted substring under the given label, creating the
// label column on first occurrence.
func (r *Row) Append(label, value string) {
	if _, ok := r.values[label]; !ok {
		r.labels = append(r.labels, label)
	}
	r.values[label] = append(r.values[label], value)
}

// Labels returns the row's label columns in first-occurrence order.
// The returned slice must not be modified.
func (r *Row) Labels() []string {
	return r.labels
}

// Values returns the substrings extracted for label, or nil if the label
// does not occur on this row. The returned slice must not be modified.
func (r *Row) Values(label string) []string {
	return r.values[label]
}

// Has reports whether the row has a column for label.
func (r *Row) Has(label string) bool {
	_, ok := r.values[label]
	return ok
}

// LongRow is one long-form output row: a single (record, label, value)
// triple produced by unpivoting a wide Row.
type LongRow struct {
	// ID is the record identifier.
	ID int

	// Name is the entity label.
	Name string

	// Value is one extracted substring.
	Value string
}
