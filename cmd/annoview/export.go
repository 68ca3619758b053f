package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/annoview/annoview/internal/config"
	"github.com/annoview/annoview/internal/pipeline"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [annotation-dir]",
		Short: "Export annotated tokens as JSON, CSV, or Markdown tables",
		Long: `Export loads the annotation directory, slices the annotated tokens out of
each record, and writes them as tables.

The default shape is wide: one row per record, one column per entity label,
each cell holding the list of tokens carrying that label. With --melt the
table is reshaped to long form with RECORD_ID, NAME, and VALUE columns, one
row per token.

Examples:
  # Export a wide CSV table
  annoview export ./annotations --csv tokens.csv

  # Export the long form sorted by label name
  annoview export ./annotations --csv tokens.csv --melt --sort-by NAME

  # Include labels that first appear on later records
  annoview export ./annotations --csv tokens.csv --melt --schema union

  # Write several formats at once and keep a history record
  annoview export ./annotations --json t.json --markdown t.md --save-db`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExportCmd,
	}

	addConfigFlag(cmd)

	// Output destinations
	cmd.Flags().StringP("json", "j", "", "Write a JSON table to the given path")
	cmd.Flags().String("csv", "", "Write a CSV table to the given path")
	cmd.Flags().StringP("markdown", "m", "", "Write a Markdown report to the given path")

	// Table shaping
	cmd.Flags().Bool("melt", false,
		"Reshape tabular output to long form (one row per token)")
	cmd.Flags().StringP("sort-by", "s", "",
		"Long-form sort column: the id field, NAME, or VALUE (default: id field)")
	cmd.Flags().String("schema", config.DefaultSchemaMode,
		"Melt column derivation: first-row or union")
	cmd.Flags().String("id-field", config.DefaultIDField,
		"Name of the record-identifier column")

	// History persistence
	cmd.Flags().Bool("save-db", false,
		"Save the extraction to the run-history database")
	cmd.Flags().String("db-dir", "",
		"Run-history database directory (default: XDG data directory)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := applyExportFlags(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if cfg.JSONFile == "" && cfg.CSVFile == "" && cfg.MarkdownFile == "" && !cfg.SaveToDB {
		return fmt.Errorf("no output requested (use --json, --csv, --markdown, or --save-db)")
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	p, err := pipeline.ExportPipeline(cfg, logger)
	if err != nil {
		return err
	}

	result := &pipeline.Result{}
	if err := p.Execute(ctx, result); err != nil {
		return err
	}

	fmt.Printf("Exported %d records from %s\n", len(result.Records), cfg.InputDir)
	return nil
}

// applyExportFlags overlays explicitly set export flags onto cfg.
func applyExportFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cmd.Flags().Changed("json") {
		if cfg.JSONFile, err = cmd.Flags().GetString("json"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("csv") {
		if cfg.CSVFile, err = cmd.Flags().GetString("csv"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("markdown") {
		if cfg.MarkdownFile, err = cmd.Flags().GetString("markdown"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("melt") {
		if cfg.Melt, err = cmd.Flags().GetBool("melt"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("sort-by") {
		if cfg.SortColumn, err = cmd.Flags().GetString("sort-by"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("schema") {
		if cfg.SchemaMode, err = cmd.Flags().GetString("schema"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("id-field") {
		if cfg.IDField, err = cmd.Flags().GetString("id-field"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("save-db") {
		if cfg.SaveToDB, err = cmd.Flags().GetBool("save-db"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return err
		}
	}

	return nil
}
