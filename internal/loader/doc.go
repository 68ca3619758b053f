// Package loader reads directories of JSON annotation files and normalizes
// them into model.Record collections.
//
// The loader flattens each file's nested paragraph/entity structure into one
// Record per paragraph, derives the record identifier from the first run of
// decimal digits in the filename, and returns the records stably sorted by
// that identifier.
//
// Design decision: The loader has no partial-failure recovery. A malformed
// file aborts the whole load with an error naming the offending filename,
// because a silently incomplete record set would corrupt downstream sort
// order and extraction tables. The only tolerated irregularity is files
// whose name does not end in ".json", which are skipped by design.
package loader
