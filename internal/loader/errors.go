package loader

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic matching with errors.Is().
// The typed errors below carry the offending filename and satisfy
// errors.Is against these sentinels.
var (
	// ErrParse indicates an input file is not valid JSON or is missing
	// an expected key or shape.
	ErrParse = errors.New("failed to parse annotation file")

	// ErrMalformedFilename indicates a filename contains no decimal
	// digit run to derive a record identifier from.
	ErrMalformedFilename = errors.New("filename contains no record number")
)

// ParseError reports that a specific annotation file could not be parsed.
// It wraps the underlying decode error and names the file.
type ParseError struct {
	// File is the offending filename.
	File string

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrParse, e.File, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrParse, so callers can match the error
// class without knowing the filename.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// MalformedFilenameError reports that a filename has no digit run to derive
// a record identifier from.
type MalformedFilenameError struct {
	// File is the offending filename.
	File string
}

// Error implements the error interface.
func (e *MalformedFilenameError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMalformedFilename, e.File)
}

// Is reports whether target is ErrMalformedFilename.
func (e *MalformedFilenameError) Is(target error) bool {
	return target == ErrMalformedFilename
}
