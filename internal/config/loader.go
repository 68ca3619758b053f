package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".annoview"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .annoview configuration file.
// Every field is optional; set fields override the built-in defaults but
// are in turn overridden by explicit CLI flags.
type File struct {
	// InputDir is the default annotation directory.
	InputDir string `yaml:"inputDir,omitempty"`

	// IDField is the record-identifier column name.
	IDField string `yaml:"idField,omitempty"`

	// Melt reshapes tabular output to long form.
	Melt *bool `yaml:"melt,omitempty"`

	// SortColumn is the long-form sort column.
	SortColumn string `yaml:"sortColumn,omitempty"`

	// SchemaMode is the melt schema derivation mode.
	SchemaMode string `yaml:"schemaMode,omitempty"`

	// ColorThreshold is the minimum per-channel color separation.
	ColorThreshold *int `yaml:"colorThreshold,omitempty"`

	// MaxColorRetries bounds color rejection sampling per label.
	MaxColorRetries *int `yaml:"maxColorRetries,omitempty"`

	// Host is the visualization server bind address.
	Host string `yaml:"host,omitempty"`

	// Port is the visualization server port.
	Port *int `yaml:"port,omitempty"`

	// JSONFile is the JSON output path.
	JSONFile string `yaml:"jsonFile,omitempty"`

	// CSVFile is the CSV output path.
	CSVFile string `yaml:"csvFile,omitempty"`

	// MarkdownFile is the Markdown output path.
	MarkdownFile string `yaml:"markdownFile,omitempty"`

	// DBDir is the run-history database directory.
	DBDir string `yaml:"dbDir,omitempty"`

	// SaveToDB persists extractions to the run-history database.
	SaveToDB *bool `yaml:"saveToDB,omitempty"`
}

// LoadConfigFile loads configuration defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .annoview in the current directory
// 3. Look for .annoview in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file's set fields onto cfg. String fields count as set
// when non-empty; bool and int fields use pointers so that explicit zero
// values (e.g. melt: false) can still override.
func (cf *File) Apply(cfg *Config) {
	if cf.InputDir != "" {
		cfg.InputDir = cf.InputDir
	}
	if cf.IDField != "" {
		cfg.IDField = cf.IDField
	}
	if cf.Melt != nil {
		cfg.Melt = *cf.Melt
	}
	if cf.SortColumn != "" {
		cfg.SortColumn = cf.SortColumn
	}
	if cf.SchemaMode != "" {
		cfg.SchemaMode = cf.SchemaMode
	}
	if cf.ColorThreshold != nil {
		cfg.ColorThreshold = *cf.ColorThreshold
	}
	if cf.MaxColorRetries != nil {
		cfg.MaxColorRetries = *cf.MaxColorRetries
	}
	if cf.Host != "" {
		cfg.Host = cf.Host
	}
	if cf.Port != nil {
		cfg.Port = *cf.Port
	}
	if cf.JSONFile != "" {
		cfg.JSONFile = cf.JSONFile
	}
	if cf.CSVFile != "" {
		cfg.CSVFile = cf.CSVFile
	}
	if cf.MarkdownFile != "" {
		cfg.MarkdownFile = cf.MarkdownFile
	}
	if cf.DBDir != "" {
		cfg.DBDir = cf.DBDir
	}
	if cf.SaveToDB != nil {
		cfg.SaveToDB = *cf.SaveToDB
	}
}
