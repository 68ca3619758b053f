package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInputDir is returned when no annotation directory is specified.
	ErrNoInputDir = errors.New("no input directory specified: provide a directory of JSON annotation files")

	// ErrEmptyIDField is returned when the record-identifier column name
	// is empty. Every output shape keys rows by this field.
	ErrEmptyIDField = errors.New("invalid id field: must not be empty")

	// ErrInvalidThreshold is returned when the color separation threshold
	// is negative. Use 0 to disable the separation constraint.
	ErrInvalidThreshold = errors.New("invalid color threshold: must be non-negative")

	// ErrInvalidRetries is returned when the color retry budget is not
	// positive. A zero budget could never accept a second color.
	ErrInvalidRetries = errors.New("invalid color retries: must be positive")

	// ErrInvalidPort is returned when the server port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be in range 1-65535")

	// ErrInvalidSchemaMode is returned when the melt schema mode is
	// neither "first-row" nor "union".
	ErrInvalidSchemaMode = errors.New(`invalid schema mode: must be "first-row" or "union"`)

	// ErrInvalidSortColumn is returned when the long-form sort column is
	// not the identifier field, NAME, or VALUE.
	ErrInvalidSortColumn = errors.New("invalid sort column: must be the id field, NAME, or VALUE")
)
