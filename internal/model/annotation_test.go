package model

import (
	"encoding/json"
	"testing"
)

// TestEntitySpanUnmarshalJSON tests decoding of the positional triple.
func TestEntitySpanUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a well-formed triple", func(t *testing.T) {
		t.Parallel()

		var span EntitySpan
		if err := json.Unmarshal([]byte(`[0, 5, "LOC"]`), &span); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if span.Start != 0 || span.End != 5 || span.Label != "LOC" {
			t.Errorf("got %+v, expected {0 5 LOC}", span)
		}
	})

	t.Run("rejects wrong element count", func(t *testing.T) {
		t.Parallel()

		var span EntitySpan
		if err := json.Unmarshal([]byte(`[0, 5]`), &span); err == nil {
			t.Error("expected error for 2-element span")
		}
	})

	t.Run("rejects non-integer offset", func(t *testing.T) {
		t.Parallel()

		var span EntitySpan
		if err := json.Unmarshal([]byte(`["a", 5, "LOC"]`), &span); err == nil {
			t.Error("expected error for string start offset")
		}
	})

	t.Run("rejects non-array input", func(t *testing.T) {
		t.Parallel()

		var span EntitySpan
		if err := json.Unmarshal([]byte(`{"start": 0}`), &span); err == nil {
			t.Error("expected error for object input")
		}
	})
}

// TestParagraphUnmarshalJSON tests decoding of the [text, entities] pair.
func TestParagraphUnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a well-formed pair", func(t *testing.T) {
		t.Parallel()

		var p Paragraph
		data := []byte(`["Paris is nice", {"entities": [[0, 5, "LOC"]]}]`)
		if err := json.Unmarshal(data, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Text != "Paris is nice" {
			t.Errorf("got text %q, expected 'Paris is nice'", p.Text)
		}
		if len(p.Entities) != 1 {
			t.Fatalf("got %d entities, expected 1", len(p.Entities))
		}
		if p.Entities[0].Label != "LOC" {
			t.Errorf("got label %q, expected LOC", p.Entities[0].Label)
		}
	})

	t.Run("decodes a pair with no entities", func(t *testing.T) {
		t.Parallel()

		var p Paragraph
		data := []byte(`["plain text", {"entities": []}]`)
		if err := json.Unmarshal(data, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(p.Entities) != 0 {
			t.Errorf("got %d entities, expected 0", len(p.Entities))
		}
	})

	t.Run("rejects wrong element count", func(t *testing.T) {
		t.Parallel()

		var p Paragraph
		if err := json.Unmarshal([]byte(`["only text"]`), &p); err == nil {
			t.Error("expected error for 1-element pair")
		}
	})

	t.Run("rejects malformed entities object", func(t *testing.T) {
		t.Parallel()

		var p Paragraph
		data := []byte(`["text", {"entities": [[1]]}]`)
		if err := json.Unmarshal(data, &p); err == nil {
			t.Error("expected error for malformed entity triple")
		}
	})
}

// TestRecordSlice tests half-open code-point slicing.
func TestRecordSlice(t *testing.T) {
	t.Parallel()

	t.Run("extracts substring by half-open range", func(t *testing.T) {
		t.Parallel()

		r := &Record{Text: "Paris is nice"}
		got := r.Slice(EntitySpan{Start: 0, End: 5, Label: "LOC"})
		if got != "Paris" {
			t.Errorf("got %q, expected 'Paris'", got)
		}
	})

	t.Run("empty span yields empty string", func(t *testing.T) {
		t.Parallel()

		r := &Record{Text: "Paris is nice"}
		if got := r.Slice(EntitySpan{Start: 3, End: 3}); got != "" {
			t.Errorf("got %q, expected empty string", got)
		}
	})

	t.Run("offsets count code points not bytes", func(t *testing.T) {
		t.Parallel()

		// "café" is 4 code points but 5 bytes in UTF-8.
		r := &Record{Text: "café au lait"}
		if got := r.Slice(EntitySpan{Start: 0, End: 4}); got != "café" {
			t.Errorf("got %q, expected 'café'", got)
		}
		if got := r.Slice(EntitySpan{Start: 5, End: 7}); got != "au" {
			t.Errorf("got %q, expected 'au'", got)
		}
	})

	t.Run("clamps out-of-range offsets", func(t *testing.T) {
		t.Parallel()

		r := &Record{Text: "short"}
		if got := r.Slice(EntitySpan{Start: 2, End: 100}); got != "ort" {
			t.Errorf("got %q, expected 'ort'", got)
		}
		if got := r.Slice(EntitySpan{Start: -3, End: 2}); got != "sh" {
			t.Errorf("got %q, expected 'sh'", got)
		}
		if got := r.Slice(EntitySpan{Start: 10, End: 20}); got != "" {
			t.Errorf("got %q, expected empty string", got)
		}
	})
}
