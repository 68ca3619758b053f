package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFile writes an annotation fixture into dir.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

// TestLoaderLoad tests directory loading and record normalization.
func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads two files ordered by record id", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		// Written in reverse lexical order to prove the sort is by id.
		writeFile(t, dir, "record_2.json",
			`{"classes": ["LOC"], "annotations": [["Rome is old", {"entities": [[0, 4, "LOC"]]}]]}`)
		writeFile(t, dir, "record_1.json",
			`{"classes": ["LOC"], "annotations": [["Paris is nice", {"entities": [[0, 5, "LOC"]]}]]}`)

		records, err := New().Load(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(records) != 2 {
			t.Fatalf("got %d records, expected 2", len(records))
		}
		if records[0].RecordID != 1 || records[1].RecordID != 2 {
			t.Errorf("got ids %d, %d, expected 1, 2", records[0].RecordID, records[1].RecordID)
		}
		if records[0].Text != "Paris is nice" {
			t.Errorf("got text %q, expected 'Paris is nice'", records[0].Text)
		}
		if records[0].SourceTitle != "record_1.json" {
			t.Errorf("got title %q, expected record_1.json", records[0].SourceTitle)
		}
	})

	t.Run("flattens multiple paragraphs per file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "record_7.json",
			`{"classes": ["LOC", "ORG"], "annotations": [`+
				`["first paragraph", {"entities": []}],`+
				`["second paragraph", {"entities": [[0, 6, "ORG"]]}]]}`)

		records, err := New().Load(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(records) != 2 {
			t.Fatalf("got %d records, expected 2", len(records))
		}
		for i, r := range records {
			if r.RecordID != 7 {
				t.Errorf("record %d: got id %d, expected 7", i, r.RecordID)
			}
			if len(r.Labels) != 2 {
				t.Errorf("record %d: got %d labels, expected 2", i, len(r.Labels))
			}
		}
		if records[1].Entities[0].Label != "ORG" {
			t.Errorf("got label %q, expected ORG", records[1].Entities[0].Label)
		}
	})

	t.Run("duplicate ids keep discovery order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		// Same digit run in both names; lexical readdir order is
		// a_3.json then b_3.json.
		writeFile(t, dir, "a_3.json",
			`{"classes": ["LOC"], "annotations": [["from a", {"entities": []}]]}`)
		writeFile(t, dir, "b_3.json",
			`{"classes": ["LOC"], "annotations": [["from b", {"entities": []}]]}`)

		records, err := New().Load(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(records) != 2 {
			t.Fatalf("got %d records, expected 2", len(records))
		}
		if records[0].Text != "from a" || records[1].Text != "from b" {
			t.Errorf("stable sort broken: got %q then %q", records[0].Text, records[1].Text)
		}
	})

	t.Run("load result is non-decreasing in record id", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "record_10.json",
			`{"classes": ["LOC"], "annotations": [["ten", {"entities": []}]]}`)
		writeFile(t, dir, "record_2.json",
			`{"classes": ["LOC"], "annotations": [["two", {"entities": []}]]}`)
		writeFile(t, dir, "record_33.json",
			`{"classes": ["LOC"], "annotations": [["thirty-three", {"entities": []}]]}`)

		records, err := New().Load(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := 1; i < len(records); i++ {
			if records[i-1].RecordID > records[i].RecordID {
				t.Errorf("records out of order at %d: %d > %d",
					i, records[i-1].RecordID, records[i].RecordID)
			}
		}
	})

	t.Run("skips non-json files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "record_1.json",
			`{"classes": ["LOC"], "annotations": [["text", {"entities": []}]]}`)
		writeFile(t, dir, "README.md", "not json at all")
		writeFile(t, dir, "record_2.json.bak", "{broken")

		records, err := New().Load(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("got %d records, expected 1", len(records))
		}
	})

	t.Run("filename without digits fails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "notes.json",
			`{"classes": ["LOC"], "annotations": []}`)

		_, err := New().Load(dir)
		if !errors.Is(err, ErrMalformedFilename) {
			t.Errorf("got %v, expected ErrMalformedFilename", err)
		}

		var mfe *MalformedFilenameError
		if !errors.As(err, &mfe) {
			t.Fatalf("expected *MalformedFilenameError, got %T", err)
		}
		if mfe.File != "notes.json" {
			t.Errorf("got file %q, expected notes.json", mfe.File)
		}
	})

	t.Run("invalid json aborts the whole load", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "record_1.json",
			`{"classes": ["LOC"], "annotations": [["ok", {"entities": []}]]}`)
		writeFile(t, dir, "record_2.json", `{"classes": ["LOC"`)

		_, err := New().Load(dir)
		if !errors.Is(err, ErrParse) {
			t.Fatalf("got %v, expected ErrParse", err)
		}

		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("expected *ParseError, got %T", err)
		}
		if pe.File != "record_2.json" {
			t.Errorf("got file %q, expected record_2.json", pe.File)
		}
	})

	t.Run("entity with wrong shape aborts the load", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "record_1.json",
			`{"classes": ["LOC"], "annotations": [["text", {"entities": [[0, 5]]}]]}`)

		_, err := New().Load(dir)
		if !errors.Is(err, ErrParse) {
			t.Errorf("got %v, expected ErrParse", err)
		}
	})

	t.Run("missing directory fails", func(t *testing.T) {
		t.Parallel()

		_, err := New().Load(filepath.Join(t.TempDir(), "missing"))
		if err == nil {
			t.Error("expected error for missing directory")
		}
	})
}

// TestRecordIDFromFilename tests identifier extraction.
func TestRecordIDFromFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		want     int
		wantErr  bool
	}{
		{name: "conventional name", filename: "record_12.json", want: 12},
		{name: "digits anywhere", filename: "batch7_export.json", want: 7},
		{name: "first run wins", filename: "v2_record_9.json", want: 2},
		{name: "leading zeros", filename: "record_007.json", want: 7},
		{name: "no digits", filename: "notes.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := recordIDFromFilename(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, expected %d", got, tt.want)
			}
		})
	}
}
