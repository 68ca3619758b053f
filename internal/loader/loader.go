package loader

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/annoview/annoview/internal/model"
)

// jsonSuffix is the filename suffix that marks a file as an annotation file.
const jsonSuffix = ".json"

// digitRun matches the first run of decimal digits in a filename.
// Conventionally filenames look like "record_12.json", but any digit run
// anywhere in the name is accepted.
var digitRun = regexp.MustCompile(`\d+`)

// Loader reads a directory of JSON annotation files into Records.
type Loader struct {
	// logger is used for structured logging during loading.
	logger *slog.Logger
}

// Option is a function that configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger for the loader.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads every file in dir whose name ends in ".json", parses it as an
// annotation file, and flattens its paragraphs into one Record each.
//
// The returned collection is sorted ascending by record identifier. The
// sort is stable: duplicate identifiers keep their discovery order, which
// is the lexical filename order of os.ReadDir followed by paragraph order
// within each file.
//
// Each input file is opened, fully read, and closed before the next one;
// no file handles are held across the iteration. Any parse failure aborts
// the load with a *ParseError naming the file; a filename without a digit
// run aborts with a *MalformedFilenameError.
func (l *Loader) Load(dir string) ([]model.Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation directory %s: %w", dir, err)
	}

	records := make([]model.Record, 0, len(entries))
	parsed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, jsonSuffix) {
			l.logger.Debug("skipping non-annotation entry", "name", name)
			continue
		}

		recs, err := l.loadFile(dir, name)
		if err != nil {
			return nil, err
		}

		records = append(records, recs...)
		parsed++
	}

	// Stable so that duplicate record IDs keep discovery order.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordID < records[j].RecordID
	})

	l.logger.Info("annotation directory loaded",
		"dir", dir,
		"files", parsed,
		"records", len(records),
	)

	return records, nil
}

// loadFile parses a single annotation file into its Records.
func (l *Loader) loadFile(dir, name string) ([]model.Record, error) {
	recordID, err := recordIDFromFilename(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // Reading user-selected annotation files is the point
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation file %s: %w", name, err)
	}

	var file model.AnnotationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &ParseError{File: name, Err: err}
	}

	records := make([]model.Record, 0, len(file.Annotations))
	for _, paragraph := range file.Annotations {
		records = append(records, model.Record{
			Text:        paragraph.Text,
			Entities:    paragraph.Entities,
			Labels:      file.Classes,
			SourceTitle: name,
			RecordID:    recordID,
		})
	}

	l.logger.Debug("annotation file parsed",
		"file", name,
		"record_id", recordID,
		"paragraphs", len(records),
	)

	return records, nil
}

// recordIDFromFilename extracts the first decimal digit run from name and
// parses it as the record identifier.
func recordIDFromFilename(name string) (int, error) {
	run := digitRun.FindString(name)
	if run == "" {
		return 0, &MalformedFilenameError{File: name}
	}

	id, err := strconv.Atoi(run)
	if err != nil {
		// A digit run longer than an int only occurs with absurd
		// filenames, but it must still be a hard error.
		return 0, fmt.Errorf("record number %q in %s: %w", run, name, err)
	}

	return id, nil
}
