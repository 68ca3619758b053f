package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annoview/annoview/internal/database"
	"github.com/annoview/annoview/internal/model"
)

// saveTestRun saves one extraction run and returns its database directory.
func saveTestRun(t *testing.T) string {
	t.Helper()
	dbDir := t.TempDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	rows := []model.LongRow{
		{ID: 1, Name: "LOC", Value: "Paris"},
		{ID: 1, Name: "ORG", Value: "UN"},
	}
	if _, err := db.SaveRun(context.Background(), "/data/anno", 1, rows); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}
	return dbDir
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has run-id and json flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"run-id", "json", "db-dir"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestRunHistoryCmd tests the history command execution.
func TestRunHistoryCmd(t *testing.T) {
	t.Run("lists saved runs", func(t *testing.T) {
		dbDir := saveTestRun(t)

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "/data/anno") {
			t.Errorf("expected source dir in listing, got:\n%s", output)
		}
	})

	t.Run("shows the rows of one run", func(t *testing.T) {
		dbDir := saveTestRun(t)

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, "--run-id", "1"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"LOC", "Paris", "ORG", "UN"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in run output, got:\n%s", want, output)
			}
		}
	})

	t.Run("json output is emitted", func(t *testing.T) {
		dbDir := saveTestRun(t)

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dbDir, "--json"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"SourceDir"`) {
			t.Errorf("expected JSON run listing, got:\n%s", buf.String())
		}
	})

	t.Run("missing database is an error", func(t *testing.T) {
		cmd := NewHistoryCmd()
		cmd.SetArgs([]string{"--db-dir", filepath.Join(t.TempDir(), "empty")})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error for a missing history database")
		}
	})

	t.Run("unknown run id is an error", func(t *testing.T) {
		dbDir := saveTestRun(t)

		cmd := NewHistoryCmd()
		cmd.SetArgs([]string{"--db-dir", dbDir, "--run-id", "99"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected an error for an unknown run id")
		}
	})
}
