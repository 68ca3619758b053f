package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/annoview/annoview/internal/config"
	"github.com/annoview/annoview/internal/database"
)

// NewHistoryCmd creates the history command.
// This command inspects extraction runs saved with 'export --save-db'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and inspect saved extraction runs",
		Long: `History lists extraction runs previously saved to the run-history
database, newest first, and can print the rows of a single run.

Saved rows are always in long form (one row per extracted token) under the
union of all label columns, regardless of the export settings that
produced them.

Examples:
  # List all saved runs
  annoview history

  # Show the rows of run 3
  annoview history --run-id 3

  # Output in JSON format
  annoview history --run-id 3 --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("run-id", "r", 0,
		"Show the extraction rows of a specific run")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"Run-history database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	runID, err := cmd.Flags().GetInt64("run-id")
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// History is read-only; a missing database is reported, not created.
	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history found in %s (save runs with 'export --save-db'): %w", dbDir, err)
	}
	defer db.Close()

	if runID > 0 {
		return showRun(cmd, db, runID, asJSON)
	}
	return listRuns(cmd, db, asJSON)
}

// listRuns prints all saved runs, newest first.
func listRuns(cmd *cobra.Command, db *database.ExtractionDB, asJSON bool) error {
	runs, err := db.Runs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-20s %-8s %s\n", "ID", "SAVED", "RECORDS", "SOURCE")
	for _, run := range runs {
		fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-20s %-8d %s\n",
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Records,
			run.SourceDir,
		)
	}
	return nil
}

// showRun prints the extraction rows of one run.
func showRun(cmd *cobra.Command, db *database.ExtractionDB, runID int64, asJSON bool) error {
	rows, err := db.Extractions(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("run %d has no extraction rows (does it exist?)", runID)
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-12s %s\n", "RECORD_ID", "NAME", "VALUE")
	for _, row := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10d %-12s %s\n", row.ID, row.Name, row.Value)
	}
	return nil
}
