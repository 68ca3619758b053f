package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestNewConfig tests default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.IDField != DefaultIDField {
		t.Errorf("got id field %q, expected %q", cfg.IDField, DefaultIDField)
	}
	if cfg.SortColumn != "" {
		t.Errorf("got sort column %q, expected empty (sort by id field)", cfg.SortColumn)
	}
	if cfg.SchemaMode != SchemaModeFirstRow {
		t.Errorf("got schema mode %q, expected %q", cfg.SchemaMode, SchemaModeFirstRow)
	}
	if cfg.ColorThreshold != DefaultColorThreshold {
		t.Errorf("got threshold %d, expected %d", cfg.ColorThreshold, DefaultColorThreshold)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("got port %d, expected %d", cfg.Port, DefaultPort)
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// valid returns a config that passes validation; each case breaks it.
	valid := func() *Config {
		cfg := NewConfig()
		cfg.InputDir = "testdata"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config passes",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "missing input directory",
			mutate:  func(c *Config) { c.InputDir = "" },
			wantErr: ErrNoInputDir,
		},
		{
			name:    "empty id field",
			mutate:  func(c *Config) { c.IDField = "" },
			wantErr: ErrEmptyIDField,
		},
		{
			name:    "negative threshold",
			mutate:  func(c *Config) { c.ColorThreshold = -1 },
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.MaxColorRetries = 0 },
			wantErr: ErrInvalidRetries,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantErr: ErrInvalidPort,
		},
		{
			name:    "unknown schema mode",
			mutate:  func(c *Config) { c.SchemaMode = "last-row" },
			wantErr: ErrInvalidSchemaMode,
		},
		{
			name:    "unknown sort column",
			mutate:  func(c *Config) { c.SortColumn = "WHEN" },
			wantErr: ErrInvalidSortColumn,
		},
		{
			name:    "sort by NAME is allowed",
			mutate:  func(c *Config) { c.SortColumn = "NAME" },
			wantErr: nil,
		},
		{
			name: "sort by custom id field is allowed",
			mutate: func(c *Config) {
				c.IDField = "doc_id"
				c.SortColumn = "doc_id"
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, expected %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads and applies fields", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := []byte("inputDir: ./anno\nidField: doc_id\nmelt: true\nport: 9000\ncolorThreshold: 0\n")
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.InputDir != "./anno" {
			t.Errorf("got input dir %q, expected ./anno", cfg.InputDir)
		}
		if cfg.IDField != "doc_id" {
			t.Errorf("got id field %q, expected doc_id", cfg.IDField)
		}
		if !cfg.Melt {
			t.Error("expected melt to be enabled")
		}
		if cfg.Port != 9000 {
			t.Errorf("got port %d, expected 9000", cfg.Port)
		}
		if cfg.ColorThreshold != 0 {
			t.Errorf("got threshold %d, expected explicit 0", cfg.ColorThreshold)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("got %v, expected ErrConfigNotFound", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("port: [not-a-port\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}
