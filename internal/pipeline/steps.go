package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/annoview/annoview/internal/config"
	"github.com/annoview/annoview/internal/database"
	"github.com/annoview/annoview/internal/format"
	"github.com/annoview/annoview/internal/loader"
	"github.com/annoview/annoview/internal/palette"
	"github.com/annoview/annoview/internal/report"
	"github.com/annoview/annoview/internal/server"
)

// LoadStep reads the annotation directory into Records.
type LoadStep struct {
	// dir is the annotation directory to load.
	dir string

	// loader performs the actual reading and normalization.
	loader *loader.Loader
}

// NewLoadStep creates a loading step for the given directory.
func NewLoadStep(dir string, l *loader.Loader) *LoadStep {
	return &LoadStep{dir: dir, loader: l}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, result *Result) error {
	records, err := s.loader.Load(s.dir)
	if err != nil {
		return err
	}

	result.SourceDir = s.dir
	result.Records = records
	return nil
}

// ColorStep assigns display colors to the entity labels.
//
// The labels come from the first loaded record's declared class list:
// every file in one annotation set declares the same classes, so the first
// record's list is the representative set.
type ColorStep struct {
	// allocator performs the constrained sampling.
	allocator *palette.Allocator
}

// NewColorStep creates a color assignment step.
func NewColorStep(a *palette.Allocator) *ColorStep {
	return &ColorStep{allocator: a}
}

// Name returns the step name.
func (s *ColorStep) Name() string {
	return "assign_colors"
}

// Do executes the color assignment step.
func (s *ColorStep) Do(_ context.Context, result *Result) error {
	var labels []string
	if len(result.Records) > 0 {
		labels = result.Records[0].Labels
	}

	colors, err := s.allocator.Assign(labels)
	if err != nil {
		return err
	}

	result.Colors = colors
	return nil
}

// FormatStep builds the wide extraction table and derives its schema.
type FormatStep struct {
	// formatter builds the wide rows.
	formatter *format.Formatter

	// schemaMode selects the schema derivation for fixed-column outputs.
	schemaMode format.SchemaMode
}

// NewFormatStep creates a formatting step.
func NewFormatStep(f *format.Formatter, mode format.SchemaMode) *FormatStep {
	return &FormatStep{formatter: f, schemaMode: mode}
}

// Name returns the step name.
func (s *FormatStep) Name() string {
	return "format"
}

// Do executes the format step.
func (s *FormatStep) Do(_ context.Context, result *Result) error {
	result.Wide = s.formatter.Wide(result.Records)
	result.Schema = format.Schema(result.Wide, s.schemaMode)
	return nil
}

// MeltStep reshapes the wide table into sorted long form.
type MeltStep struct {
	// sortColumn is the long-form sort column.
	sortColumn string

	// idField is the identifier column name sortColumn is matched against.
	idField string
}

// NewMeltStep creates a melt step.
func NewMeltStep(sortColumn, idField string) *MeltStep {
	return &MeltStep{sortColumn: sortColumn, idField: idField}
}

// Name returns the step name.
func (s *MeltStep) Name() string {
	return "melt"
}

// Do executes the melt step.
func (s *MeltStep) Do(_ context.Context, result *Result) error {
	long := format.Melt(result.Wide, result.Schema)
	if err := format.SortLong(long, s.sortColumn, s.idField); err != nil {
		return err
	}

	result.Long = long
	return nil
}

// WriteStep writes the extraction through a report writer factory.
// The factory runs per execution so each run gets a fresh output file.
type WriteStep struct {
	// name distinguishes the configured writers in logs.
	name string

	// path is the output file path.
	path string

	// melt selects the long shape instead of the wide one.
	melt bool

	// newWriter builds the writer over the opened file.
	newWriter func(f io.Writer) report.Writer

	// logger is used for structured logging.
	logger *slog.Logger
}

// NewJSONWriteStep creates a step writing the wide extraction as JSON.
// JSON output is always wide: label keys vary per record, which is the
// shape downstream JSON consumers expect.
func NewJSONWriteStep(path, idField string, logger *slog.Logger) *WriteStep {
	return &WriteStep{
		name: "write_json",
		path: path,
		newWriter: func(f io.Writer) report.Writer {
			return report.NewJSONWriter(f,
				report.WithIDField(idField),
				report.WithPrettyPrint(),
			)
		},
		logger: logger,
	}
}

// NewCSVWriteStep creates a step writing the extraction as CSV in the
// wide or long shape.
func NewCSVWriteStep(path, idField string, melt bool, logger *slog.Logger) *WriteStep {
	return &WriteStep{
		name: "write_csv",
		path: path,
		melt: melt,
		newWriter: func(f io.Writer) report.Writer {
			return report.NewCSVWriter(f, report.WithCSVIDField(idField))
		},
		logger: logger,
	}
}

// NewMarkdownWriteStep creates a step writing the extraction as Markdown
// in the wide or long shape.
func NewMarkdownWriteStep(path, idField string, melt bool, logger *slog.Logger) *WriteStep {
	return &WriteStep{
		name: "write_markdown",
		path: path,
		melt: melt,
		newWriter: func(f io.Writer) report.Writer {
			return report.NewMarkdownWriter(f, report.WithMarkdownIDField(idField))
		},
		logger: logger,
	}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return s.name
}

// Do executes the write step.
func (s *WriteStep) Do(_ context.Context, result *Result) error {
	f, err := report.CreateFile(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := s.newWriter(f)

	var n int
	if s.melt {
		n, err = w.WriteLong(result.Long)
	} else {
		n, err = w.WriteWide(result.Wide, result.Schema)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	s.logger.Info("extraction written", "path", s.path, "bytes", n)
	return nil
}

// SaveStep persists the extraction to the run-history database.
type SaveStep struct {
	// dbDir is the database directory.
	dbDir string

	// logger is used for structured logging.
	logger *slog.Logger
}

// NewSaveStep creates a history persistence step.
func NewSaveStep(dbDir string, logger *slog.Logger) *SaveStep {
	return &SaveStep{dbDir: dbDir, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save_db"
}

// Do executes the save step.
//
// History always stores the complete long-form extraction under the union
// schema, independent of the configured output reshape, so saved runs stay
// comparable regardless of export settings.
func (s *SaveStep) Do(ctx context.Context, result *Result) error {
	db, err := database.Open(s.dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	long := format.Melt(result.Wide, format.Schema(result.Wide, format.SchemaUnion))

	runID, err := db.SaveRun(ctx, result.SourceDir, len(result.Records), long)
	if err != nil {
		return err
	}

	s.logger.Info("extraction saved to history",
		"db_dir", s.dbDir,
		"run_id", runID,
		"rows", len(long),
	)
	return nil
}

// ServeStep serves the highlighted annotation view. It blocks until the
// context is cancelled, so it must be the final step of its pipeline.
type ServeStep struct {
	// host and port form the bind address.
	host string
	port int

	// logger is used for structured logging.
	logger *slog.Logger
}

// NewServeStep creates a serving step.
func NewServeStep(host string, port int, logger *slog.Logger) *ServeStep {
	return &ServeStep{host: host, port: port, logger: logger}
}

// Name returns the step name.
func (s *ServeStep) Name() string {
	return "serve"
}

// Do executes the serve step.
func (s *ServeStep) Do(ctx context.Context, result *Result) error {
	srv := server.New(result.Records, result.Colors,
		server.WithHost(s.host),
		server.WithPort(s.port),
		server.WithLogger(s.logger),
	)
	return srv.ListenAndServe(ctx)
}

// ExportPipeline creates the pipeline for the export command:
// load, format, optional melt, configured writers, optional history save.
//
// Color assignment is deliberately absent: export output does not depend
// on colors, so a color exhaustion failure can never block persistence.
func ExportPipeline(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	mode, err := format.ParseSchemaMode(cfg.SchemaMode)
	if err != nil {
		return nil, err
	}

	p := New(WithLogger(logger))
	p.AddSteps(
		NewLoadStep(cfg.InputDir, loader.New(loader.WithLogger(logger))),
		NewFormatStep(format.New(format.WithLogger(logger)), mode),
	)

	if cfg.Melt {
		p.AddStep(NewMeltStep(cfg.SortColumn, cfg.IDField))
	}

	if cfg.JSONFile != "" {
		p.AddStep(NewJSONWriteStep(cfg.JSONFile, cfg.IDField, logger))
	}
	if cfg.CSVFile != "" {
		p.AddStep(NewCSVWriteStep(cfg.CSVFile, cfg.IDField, cfg.Melt, logger))
	}
	if cfg.MarkdownFile != "" {
		p.AddStep(NewMarkdownWriteStep(cfg.MarkdownFile, cfg.IDField, cfg.Melt, logger))
	}

	if cfg.SaveToDB {
		p.AddStep(NewSaveStep(cfg.DBDir, logger))
	}

	return p, nil
}

// ServePipeline creates the pipeline for the serve command:
// load, assign colors, serve. Colors are generated fresh on every run and
// never cached, so the same data may be colored differently between runs.
func ServePipeline(cfg *config.Config, logger *slog.Logger) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewLoadStep(cfg.InputDir, loader.New(loader.WithLogger(logger))),
		NewColorStep(palette.New(
			palette.WithThreshold(cfg.ColorThreshold),
			palette.WithMaxRetries(cfg.MaxColorRetries),
			palette.WithLogger(logger),
		)),
		NewServeStep(cfg.Host, cfg.Port, logger),
	)
	return p
}
