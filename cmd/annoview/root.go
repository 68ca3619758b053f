// Package main provides the entry point for the annoview CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for annoview.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annoview",
		Short: "Viewer and exporter for NER annotation directories",
		Long: `annoview loads a directory of NER annotation files (one JSON file per
record, the record id embedded in the file name), normalizes them into an
id-sorted collection, and works with them in two ways:

  serve   highlight the annotated text in a browser, one color per label
  export  extract the annotated tokens into JSON, CSV, or Markdown tables`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
