package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oss-compliance/license-report/internal/config"
	"github.com/oss-compliance/license-report/internal/database"
	"github.com/oss-compliance/license-report/internal/log"
	"github.com/oss-compliance/license-report/internal/model"
	"github.com/oss-compliance/license-report/internal/pipeline"
	"github.com/oss-compliance/license-report/internal/report"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [source-dir...]",
		Short: "Generate an Excel license report from dependency metadata",
		Long: `Generate reads the license metadata files from a source directory and
writes a consolidated Excel workbook next to them.

It reads two inputs, both optional:
- nuget-licenses.json    (NuGet license metadata, JSON array of records)
- rush-dependencies.csv  (Rush dependency list, CSV with header row)

Each input with data becomes one worksheet in license-report.xlsx. A
missing input file is treated as empty; a malformed one aborts the run.
Every run is recorded in a local history database for later comparison.

Examples:
  # Generate from ./license-reports (the default directory)
  license-report generate

  # Generate from a specific directory
  license-report generate ./build/license-reports

  # Generate for several projects concurrently
  license-report generate ./proj-a/licenses ./proj-b/licenses

  # Print a JSON summary after generation
  license-report generate --json

  # Write a Markdown summary to a file
  license-report generate --markdown --summary-file report.md

  # Use a custom configuration file
  license-report generate -c myconfig.yaml

Configuration file (.license-report) example:
  inputs:
    nuget: nuget-licenses.json
    rush: rush-dependencies.csv
  output: license-report.xlsx
  sheets:
    nuget: NuGet Packages
    rush: Rush Dependencies`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	// Input/output flags
	cmd.Flags().StringP("nuget-file", "n", config.DefaultNuGetFile,
		"NuGet license JSON file name, relative to each source directory")
	cmd.Flags().StringP("rush-file", "r", config.DefaultRushFile,
		"Rush dependency CSV file name, relative to each source directory")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Workbook file name, written into each source directory")

	// Worksheet naming flags
	cmd.Flags().String("nuget-sheet", config.DefaultNuGetSheetName,
		"Worksheet name for the NuGet table")
	cmd.Flags().String("rush-sheet", config.DefaultRushSheetName,
		"Worksheet name for the Rush table")

	// Batch generation flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent runs when processing multiple directories")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .license-report in current or home directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary after generation (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary after generation (mutually exclusive with --json)")
	cmd.Flags().StringP("summary-file", "s", "",
		"Write the summary to the specified file instead of stdout")

	// History flags
	cmd.Flags().Bool("no-save", false,
		"Do not record this run in the history database")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	verbose := getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// stop unregisters the signal handlers once the run is over.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGenerate(ctx, cfg, logger)
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

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.NuGetFile, err = cmd.Flags().GetString("nuget-file")
	if err != nil {
		return nil, err
	}

	cfg.RushFile, err = cmd.Flags().GetString("rush-file")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.NuGetSheetName, err = cmd.Flags().GetString("nuget-sheet")
	if err != nil {
		return nil, err
	}

	cfg.RushSheetName, err = cmd.Flags().GetString("rush-sheet")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load overrides from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
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

	// Flags set explicitly on the command line win over the config file.
	reapplyExplicitFlags(cmd, cfg)

	cfg.JSONSummary, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownSummary, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.SummaryFile, err = cmd.Flags().GetString("summary-file")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()
	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the source directories
	if len(args) > 0 {
		cfg.SourceDirs = args
	}

	return cfg, nil
}

// reapplyExplicitFlags restores flag values the user set explicitly,
// so command-line flags take precedence over config file overrides.
func reapplyExplicitFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("nuget-file") {
		cfg.NuGetFile, _ = cmd.Flags().GetString("nuget-file") //nolint:errcheck // Flag exists
	}
	if cmd.Flags().Changed("rush-file") {
		cfg.RushFile, _ = cmd.Flags().GetString("rush-file") //nolint:errcheck // Flag exists
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputFile, _ = cmd.Flags().GetString("output") //nolint:errcheck // Flag exists
	}
	if cmd.Flags().Changed("nuget-sheet") {
		cfg.NuGetSheetName, _ = cmd.Flags().GetString("nuget-sheet") //nolint:errcheck // Flag exists
	}
	if cmd.Flags().Changed("rush-sheet") {
		cfg.RushSheetName, _ = cmd.Flags().GetString("rush-sheet") //nolint:errcheck // Flag exists
	}
	if cmd.Flags().Changed("batch") {
		cfg.BatchSize, _ = cmd.Flags().GetInt("batch") //nolint:errcheck // Flag exists
	}
}

// runGenerate executes the generation.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting generation",
		"sourceDirs", cfg.SourceDirs,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.DBDir)
	}

	// Use batch processor for concurrent generation if multiple directories
	if len(cfg.SourceDirs) > 1 && cfg.BatchSize > 1 {
		return runBatchGenerate(ctx, cfg, db, logger)
	}

	return runSequentialGenerate(ctx, cfg, db, logger)
}

// runSequentialGenerate processes source directories one at a time.
func runSequentialGenerate(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	failed := 0
	for _, dir := range cfg.SourceDirs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		runReport := model.NewLicenseReport(dir)
		p := newReportPipeline(cfg, dir, logger)

		if err := p.Execute(ctx, runReport); err != nil {
			failed++
			logger.Error("generation failed", "sourceDir", dir, "error", err)
			fmt.Fprintf(os.Stderr, "Error generating report for %s: %v\n", dir, err)
			continue
		}

		if err := finishRun(ctx, cfg, db, runReport, logger); err != nil {
			failed++
			logger.Error("generation failed", "sourceDir", dir, "error", err)
			fmt.Fprintf(os.Stderr, "Error generating report for %s: %v\n", dir, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(cfg.SourceDirs))
	}
	return nil
}

// runBatchGenerate processes multiple source directories concurrently using
// BatchProcessor.
func runBatchGenerate(ctx context.Context, cfg *config.Config, db *database.HistoryDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch generation for %d directories (concurrency: %d)...\n\n",
		len(cfg.SourceDirs), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(dir string) *pipeline.Pipeline {
			return newReportPipeline(cfg, dir, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	failed := 0
	err := bp.ProcessBatchWithCallback(ctx, cfg.SourceDirs, func(runReport *model.LicenseReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		if runReport.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[%d/%d] Error generating report for %s: %v\n",
				index+1, len(cfg.SourceDirs), runReport.SourceDir, runReport.Error)
			return
		}

		if err := finishRun(ctx, cfg, db, runReport, logger); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[%d/%d] Error generating report for %s: %v\n",
				index+1, len(cfg.SourceDirs), runReport.SourceDir, err)
		}
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch generation completed in %s\n", elapsed.Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(cfg.SourceDirs))
	}
	return nil
}

// newReportPipeline creates the load pipeline for one source directory.
func newReportPipeline(cfg *config.Config, dir string, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.ReportPipeline(
		cfg.NuGetPath(dir),
		cfg.RushPath(dir),
		pipeline.WithLogger(logger),
	)
}

// finishRun writes the workbook, emits the summary, and records the run.
func finishRun(ctx context.Context, cfg *config.Config, db *database.HistoryDB, runReport *model.LicenseReport, logger *slog.Logger) error {
	if err := writeWorkbook(cfg, runReport); err != nil {
		return err
	}

	fmt.Printf("Excel report generated at %s\n", runReport.OutputPath)

	if !runReport.HasData() {
		logger.Warn("no dependency data found; workbook written without data sheets",
			"sourceDir", runReport.SourceDir,
		)
	}

	if err := outputSummary(cfg, runReport); err != nil {
		logger.Error("summary output failed", "sourceDir", runReport.SourceDir, "error", err)
	}

	if err := saveRun(ctx, db, runReport, logger); err != nil {
		logger.Error("failed to record run", "sourceDir", runReport.SourceDir, "error", err)
	}

	return nil
}

// writeWorkbook writes the report as an Excel workbook into the source
// directory and records the output path on the report.
func writeWorkbook(cfg *config.Config, runReport *model.LicenseReport) error {
	outputPath := cfg.OutputPath(runReport.SourceDir)

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Path derives from user-selected source dir
	if err != nil {
		return fmt.Errorf("failed to create workbook file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Flushed by Write below; close error on read-back is harmless

	w := report.NewExcelWriter(f, report.WithSheetNames(sheetNames(cfg)))
	if _, err := w.Write(runReport); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	runReport.OutputPath = outputPath
	return nil
}

// outputSummary emits the run summary in the requested format.
// Without --json, --markdown, or --summary-file, no summary is emitted;
// the workbook and the generated-at line are the whole default output.
func outputSummary(cfg *config.Config, runReport *model.LicenseReport) error {
	if !cfg.JSONSummary && !cfg.MarkdownSummary && cfg.SummaryFile == "" {
		return nil
	}

	// Determine output destination
	output := os.Stdout
	if cfg.SummaryFile != "" {
		f, err := os.OpenFile(cfg.SummaryFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided summary path is intentional
		if err != nil {
			return fmt.Errorf("failed to create summary file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Write errors surface from the writer
		output = f
	}

	names := sheetNames(cfg)

	var w report.Writer
	switch {
	case cfg.JSONSummary:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithJSONSheetNames(names))
	case cfg.MarkdownSummary:
		w = report.NewMarkdownWriter(output, report.WithMarkdownSheetNames(names))
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose), report.WithSimpleSheetNames(names))
	}

	_, err := w.Write(runReport)
	return err
}

// sheetNames returns the configured worksheet names.
func sheetNames(cfg *config.Config) model.SheetNames {
	return model.SheetNames{
		NuGet: cfg.NuGetSheetName,
		Rush:  cfg.RushSheetName,
	}
}

// saveRun records the run in the history database if enabled.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.HistoryDB, runReport *model.LicenseReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	runID, err := db.SaveRun(ctx, runReport)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	logger.Info("run recorded",
		"runID", runID,
		"sourceDir", runReport.SourceDir,
	)
	return nil
}
