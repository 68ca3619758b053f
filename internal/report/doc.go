// Package report provides extraction output generation in several formats.
//
// This package contains writers for different output shapes:
//   - JSONWriter: Wide-form JSON array for tool integration
//   - CSVWriter: Wide or long tabular output for spreadsheets
//   - MarkdownWriter: Human-reviewable extraction tables
//
// Design decision: We separate report writing from the table data
// structures (which are in the model package) so that new output formats
// can be added without modifying the core data structures. Writers
// implement the Writer interface, allowing them to be used interchangeably
// and composed for multi-format output.
package report
