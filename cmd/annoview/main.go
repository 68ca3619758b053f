// Package main provides the entry point for the annoview CLI.
//
// annoview loads NER annotation exports from a directory, normalizes them
// into id-sorted records, and either serves a color-highlighted view of the
// annotated text or exports the extracted tokens as JSON, CSV, or Markdown
// tables.
//
// Usage:
//
//	annoview serve <annotation-dir>
//	annoview export <annotation-dir> --csv out.csv
//
// See --help for all available options.
package main

// main is the entry point for annoview.
func main() {
	Execute()
}
