// Package model defines the core data structures used throughout annoview.
//
// This package contains the following main types:
//   - AnnotationFile: One parsed input file (label classes plus paragraphs)
//   - EntitySpan: A labeled character range within a paragraph's text
//   - Record: The normalized unit of work (one paragraph plus its spans)
//   - Row: One wide-form output row (record identifier plus label columns)
//   - LongRow: One long-form output row (record, name, value)
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (loader, format, report, server) need these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be deserializable from the annotation wire format
// (positional JSON arrays) and serializable to JSON for report output.
package model
