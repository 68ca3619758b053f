package model

import (
	"encoding/json"
	"fmt"
)

// EntitySpan is a labeled half-open character range [Start, End) into a
// paragraph's text. Offsets count Unicode code points, not bytes, because
// annotation tools index text by characters.
//
// Wire format: a 3-element JSON array [start, end, label].
type EntitySpan struct {
	// Start is the inclusive start offset in code points.
	Start int `json:"start"`

	// End is the exclusive end offset in code points.
	// Start == End denotes an empty span.
	End int `json:"end"`

	// Label is the entity class name. It is one of the owning file's
	// declared classes in well-formed input (not enforced).
	Label string `json:"label"`
}

// UnmarshalJSON decodes the positional [start, end, label] triple.
func (s *EntitySpan) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("entity span is not an array: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("entity span has %d elements, expected 3", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Start); err != nil {
		return fmt.Errorf("entity span start: %w", err)
	}
	if err := json.Unmarshal(raw[1], &s.End); err != nil {
		return fmt.Errorf("entity span end: %w", err)
	}
	if err := json.Unmarshal(raw[2], &s.Label); err != nil {
		return fmt.Errorf("entity span label: %w", err)
	}
	return nil
}

// paragraphEntities is the object half of a paragraph pair.
type paragraphEntities struct {
	Entities []EntitySpan `json:"entities"`
}

// Paragraph is one (text, entity spans) pair from an annotation file.
//
// Wire format: a 2-element JSON array [text, {"entities": [[s,e,label], ...]}].
type Paragraph struct {
	// Text is the paragraph text the spans index into.
	Text string

	// Entities are the spans annotated on Text, in input order.
	Entities []EntitySpan
}

// UnmarshalJSON decodes the positional [text, {"entities": ...}] pair.
//
// Design decision: The pair mixes a string and an object in one array, so
// struct tags cannot express it. We decode through json.RawMessage instead
// of interface{} to keep type errors precise.
func (p *Paragraph) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("annotation entry is not an array: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("annotation entry has %d elements, expected 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Text); err != nil {
		return fmt.Errorf("annotation text: %w", err)
	}
	var ents paragraphEntities
	if err := json.Unmarshal(raw[1], &ents); err != nil {
		return fmt.Errorf("annotation entities: %w", err)
	}
	p.Entities = ents.Entities
	return nil
}

// AnnotationFile is one parsed input file. It is built once by the loader
// and read-only afterward.
type AnnotationFile struct {
	// Classes is the ordered list of entity label names declared by the
	// file. Order matters: it drives color assignment order.
	Classes []string `json:"classes"`

	// Annotations is the sequence of annotated paragraphs.
	Annotations []Paragraph `json:"annotations"`
}

// Record is the normalized unit of work: one paragraph's text plus its
// entity spans, keyed by a numeric identifier derived from the source
// filename. Records are immutable after loading.
type Record struct {
	// Text is the paragraph text.
	Text string `json:"text"`

	// Entities are the spans annotated on Text. Order is preserved from
	// the input but carries no semantics.
	Entities []EntitySpan `json:"ents"`

	// Labels is the owning file's declared class list.
	Labels []string `json:"labels"`

	// SourceTitle is the originating filename.
	SourceTitle string `json:"title"`

	// RecordID is the integer extracted from the filename. It is the
	// cross-file sort key and the output identifier. Duplicate IDs are
	// not rejected; they sort adjacently in discovery order.
	RecordID int `json:"rec_num"`
}

// Slice returns the substring of Text covered by span under half-open
// code-point semantics. A span with Start == End yields the empty string.
// Out-of-range offsets are clamped to the text bounds so that malformed
// spans degrade to shorter substrings instead of panicking.
func (r *Record) Slice(span EntitySpan) string {
	runes := []rune(r.Text)
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
