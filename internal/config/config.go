package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/annoview/annoview/internal/model"
)

// Default configuration values.
// These values match the conventions of the annotation format this tool
// consumes where applicable.
const (
	// DefaultIDField is the name of the record-identifier column in both
	// JSON and tabular output. Annotation exports conventionally call
	// this column RECORD_ID.
	DefaultIDField = "RECORD_ID"

	// DefaultColorThreshold is the minimum per-channel separation used by
	// the color allocator. 10 out of a 128-value channel range keeps
	// label colors visually distinct without exhausting the color space
	// for typical label counts (under ten classes).
	DefaultColorThreshold = 10

	// DefaultMaxColorRetries bounds the rejection-sampling loop per label.
	// The separation criterion is not guaranteed satisfiable, so the
	// allocator must fail rather than loop forever. 1000 retries is far
	// beyond what a feasible label set needs.
	DefaultMaxColorRetries = 1000

	// DefaultHost is the visualization server bind address. We bind to
	// loopback because the highlighted view is a local review tool, not
	// a service meant for network exposure.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the visualization server port.
	DefaultPort = 8753

	// DefaultSchemaMode reshapes the wide table using only the first
	// row's label columns. This reproduces the historical behavior of
	// annotation melt exports; use SchemaModeUnion to include labels
	// that first appear on later records.
	DefaultSchemaMode = SchemaModeFirstRow

	// AppName is the application name used for XDG directory paths.
	AppName = "annoview"
)

// Schema derivation modes for the wide-to-long reshape.
const (
	// SchemaModeFirstRow uses only the first wide row's label columns.
	// Labels that exist only on later records are silently omitted.
	SchemaModeFirstRow = "first-row"

	// SchemaModeUnion uses the union of label columns across all rows.
	SchemaModeUnion = "union"
)

// Config holds all configuration options for annoview.
// This struct is designed to be populated from CLI flags and the optional
// config file, then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., ColorConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// InputDir is the directory containing JSON annotation files.
	// Files not ending in ".json" are silently skipped.
	InputDir string

	// IDField is the name of the record-identifier column in JSON and
	// tabular output.
	IDField string

	// Melt reshapes tabular output from wide form (one column per label)
	// to long form (one row per extracted token).
	Melt bool

	// SortColumn is the column the long form is sorted by. Valid values
	// are IDField, "NAME", and "VALUE". Empty means sort by IDField.
	SortColumn string

	// SchemaMode selects how the melt derives its label columns:
	// SchemaModeFirstRow or SchemaModeUnion.
	SchemaMode string

	// ColorThreshold is the minimum per-channel separation between any
	// two assigned label colors.
	ColorThreshold int

	// MaxColorRetries bounds the color allocator's rejection sampling
	// per label before it gives up.
	MaxColorRetries int

	// Host is the visualization server bind address.
	Host string

	// Port is the visualization server port.
	Port int

	// JSONFile is the path the wide-form extraction is written to as
	// JSON. Empty disables JSON output.
	JSONFile string

	// CSVFile is the path the tabular extraction is written to as CSV.
	// The shape (wide or long) follows Melt. Empty disables CSV output.
	CSVFile string

	// MarkdownFile is the path the extraction report is written to as
	// Markdown. Empty disables Markdown output.
	MarkdownFile string

	// DBDir is the directory for the run-history SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB persists the extraction to the run-history database.
	SaveToDB bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .annoview in the current directory and then
	// in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., threshold, port).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	// SortColumn stays empty: empty means "sort by IDField" downstream,
	// which keeps a custom IDField and the default sort consistent.
	return &Config{
		IDField:         DefaultIDField,
		SchemaMode:      DefaultSchemaMode,
		ColorThreshold:  DefaultColorThreshold,
		MaxColorRetries: DefaultMaxColorRetries,
		Host:            DefaultHost,
		Port:            DefaultPort,
		DBDir:           XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for annoview.
// On Linux: ~/.local/share/annoview
// On macOS: ~/Library/Application Support/annoview
// On Windows: %LOCALAPPDATA%\annoview
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for annoview.
// On Linux: ~/.config/annoview
// On macOS: ~/Library/Application Support/annoview
// On Windows: %APPDATA%\annoview
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any loading begins.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return ErrNoInputDir
	}

	if c.IDField == "" {
		return ErrEmptyIDField
	}

	// A negative threshold has no meaning; zero disables separation.
	if c.ColorThreshold < 0 {
		return ErrInvalidThreshold
	}

	// Zero retries would reject every label after the first.
	if c.MaxColorRetries <= 0 {
		return ErrInvalidRetries
	}

	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}

	if c.SchemaMode != SchemaModeFirstRow && c.SchemaMode != SchemaModeUnion {
		return ErrInvalidSchemaMode
	}

	if c.SortColumn != "" && c.SortColumn != c.IDField &&
		c.SortColumn != model.NameColumn && c.SortColumn != model.ValueColumn {
		return ErrInvalidSortColumn
	}

	return nil
}
