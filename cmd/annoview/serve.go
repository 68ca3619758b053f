package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/annoview/annoview/internal/config"
	"github.com/annoview/annoview/internal/pipeline"
)

// Environment variables recognized by the serve command. They sit between
// the configuration file and explicit flags in precedence.
const (
	envHost = "ANNOVIEW_HOST"
	envPort = "ANNOVIEW_PORT"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [annotation-dir]",
		Short: "Serve a color-highlighted view of the annotations",
		Long: `Serve loads the annotation directory and serves a single-page view of all
records with every annotated span highlighted. Each entity label gets a
distinct bright color; a legend at the top maps labels to colors.

Colors are sampled fresh on every start, so the same data may look
different between runs.

Examples:
  # Serve the annotations in ./annotations
  annoview serve ./annotations

  # Bind to another address and port
  annoview serve --host 0.0.0.0 --port 9000 ./annotations

  # Use a custom configuration file
  annoview serve -c myconfig.yaml ./annotations`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServeCmd,
	}

	addConfigFlag(cmd)
	cmd.Flags().StringP("host", "H", config.DefaultHost,
		"Bind address for the annotation server")
	cmd.Flags().IntP("port", "p", config.DefaultPort,
		"Listening port for the annotation server")
	cmd.Flags().Int("color-threshold", config.DefaultColorThreshold,
		"Minimum per-channel RGB separation between label colors")
	cmd.Flags().Int("color-retries", config.DefaultMaxColorRetries,
		"Maximum sampling attempts per label color")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	applyServeEnv(cfg)

	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	p := pipeline.ServePipeline(cfg, logger)

	fmt.Printf("Serving annotations from %s on http://%s:%d\n",
		cfg.InputDir, cfg.Host, cfg.Port)

	return p.Execute(ctx, &pipeline.Result{})
}

// applyServeEnv overlays ANNOVIEW_* environment variables onto cfg.
// A .env file in the working directory is loaded first if present.
func applyServeEnv(cfg *config.Config) {
	// Ignore a missing .env file; already-set variables win.
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	if host := os.Getenv(envHost); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv(envPort); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
}

// applyServeFlags overlays explicitly set serve flags onto cfg.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cmd.Flags().Changed("host") {
		if cfg.Host, err = cmd.Flags().GetString("host"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("port") {
		if cfg.Port, err = cmd.Flags().GetInt("port"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("color-threshold") {
		if cfg.ColorThreshold, err = cmd.Flags().GetInt("color-threshold"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("color-retries") {
		if cfg.MaxColorRetries, err = cmd.Flags().GetInt("color-retries"); err != nil {
			return err
		}
	}

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// addConfigFlag registers the shared configuration file flag.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .annoview in current or home directory)")
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the configuration file, and
// the positional annotation-dir argument. Command-specific flags are
// overlaid by the callers afterwards so that flag values beat file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, error if not found.
	// Otherwise a missing file just means built-in defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if len(args) > 0 {
		cfg.InputDir = args[0]
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}
