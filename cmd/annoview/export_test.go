package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annoview/annoview/internal/config"
)

// writeTestAnnotations writes a small annotation directory for CLI tests.
func writeTestAnnotations(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	body := `{
		"classes": ["LOC"],
		"annotations": [["Paris is nice", {"entities": [[0, 5, "LOC"]]}]]
	}`
	if err := os.WriteFile(filepath.Join(dir, "record_7.json"), []byte(body), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return dir
}

// TestNewExportCmd tests the export command creation.
func TestNewExportCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExportCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "export [annotation-dir]" {
			t.Errorf("expected use 'export [annotation-dir]', got %q", cmd.Use)
		}
	})

	t.Run("has output flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"json", "csv", "markdown"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has shaping flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"melt", "sort-by", "schema", "id-field"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("schema flag defaults to first-row", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("schema")
		if flag == nil {
			t.Fatal("expected schema flag")
		}
		if flag.DefValue != config.SchemaModeFirstRow {
			t.Errorf("expected default %q, got %q", config.SchemaModeFirstRow, flag.DefValue)
		}
	})

	t.Run("has history flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"save-db", "db-dir"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestRunExportCmd tests the export command execution.
func TestRunExportCmd(t *testing.T) {
	t.Run("writes a wide csv table", func(t *testing.T) {
		inputDir := writeTestAnnotations(t)
		outPath := filepath.Join(t.TempDir(), "out.csv")

		cmd := NewExportCmd()
		cmd.SetArgs([]string{inputDir, "--csv", outPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "RECORD_ID,LOC") {
			t.Errorf("expected wide header, got:\n%s", data)
		}
		if !strings.Contains(string(data), "Paris") {
			t.Errorf("expected extracted token in output:\n%s", data)
		}
	})

	t.Run("writes a long csv table with melt", func(t *testing.T) {
		inputDir := writeTestAnnotations(t)
		outPath := filepath.Join(t.TempDir(), "out.csv")

		cmd := NewExportCmd()
		cmd.SetArgs([]string{inputDir, "--csv", outPath, "--melt"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "RECORD_ID,NAME,VALUE") {
			t.Errorf("expected long header, got:\n%s", data)
		}
	})

	t.Run("honors a custom id field", func(t *testing.T) {
		inputDir := writeTestAnnotations(t)
		outPath := filepath.Join(t.TempDir(), "out.csv")

		cmd := NewExportCmd()
		cmd.SetArgs([]string{inputDir, "--csv", outPath, "--id-field", "DOC"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "DOC,") {
			t.Errorf("expected DOC id column, got:\n%s", data)
		}
	})

	t.Run("fails without any output", func(t *testing.T) {
		cmd := NewExportCmd()
		cmd.SetArgs([]string{writeTestAnnotations(t)})

		err := cmd.Execute()
		if err == nil {
			t.Fatal("expected error when no output is requested")
		}
		if !strings.Contains(err.Error(), "no output requested") {
			t.Errorf("expected 'no output requested' error, got %v", err)
		}
	})

	t.Run("fails without an input directory", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "out.csv")

		cmd := NewExportCmd()
		cmd.SetArgs([]string{"--csv", outPath})

		if err := cmd.Execute(); err == nil {
			t.Error("expected a configuration error without an input directory")
		}
	})

	t.Run("rejects an unknown schema mode", func(t *testing.T) {
		inputDir := writeTestAnnotations(t)
		outPath := filepath.Join(t.TempDir(), "out.csv")

		cmd := NewExportCmd()
		cmd.SetArgs([]string{inputDir, "--csv", outPath, "--schema", "widest"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error for an unknown schema mode")
		}
	})
}
