// Package database provides SQLite-based storage for extraction run history.
//
// Each export can optionally be saved as a run: the source directory, the
// number of records loaded, and every extracted (record, label, value)
// triple. Saved runs let users compare extractions across annotation
// revisions without re-running the loader on old data.
package database
