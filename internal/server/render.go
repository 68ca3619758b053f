package server

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/annoview/annoview/internal/model"
	"github.com/annoview/annoview/internal/palette"
)

// renderRecord converts one record's text into HTML with entity spans
// wrapped in colored <mark> elements.
//
// Spans are applied in start-offset order. A span overlapping an already
// rendered one is skipped so its text appears unmarked; rendering is
// best-effort and never fails. Offsets are code-point offsets, so the walk
// happens over runes, and all text passes through HTML escaping.
func renderRecord(record *model.Record, colors *palette.Assignment) template.HTML {
	spans := append([]model.EntitySpan(nil), record.Entities...)
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})

	runes := []rune(record.Text)
	var b strings.Builder
	cursor := 0

	for _, span := range spans {
		start, end := span.Start, span.End
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		// Overlapping or empty spans contribute no mark.
		if start < cursor || start >= end {
			continue
		}

		b.WriteString(template.HTMLEscapeString(string(runes[cursor:start])))
		writeMark(&b, string(runes[start:end]), span.Label, colors)
		cursor = end
	}

	b.WriteString(template.HTMLEscapeString(string(runes[cursor:])))
	return template.HTML(b.String()) //nolint:gosec // All fragments are escaped above
}

// writeMark writes one highlighted entity with its label tag.
func writeMark(b *strings.Builder, text, label string, colors *palette.Assignment) {
	background := "rgb(221,221,221)"
	if c, ok := colors.Color(label); ok {
		background = c.RGB()
	}

	fmt.Fprintf(b,
		`<mark class="entity" style="background: %s">%s<span class="label">%s</span></mark>`,
		background,
		template.HTMLEscapeString(text),
		template.HTMLEscapeString(label),
	)
}
