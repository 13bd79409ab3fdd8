package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/oss-compliance/license-report/internal/config"
	"github.com/oss-compliance/license-report/internal/database"
	"github.com/oss-compliance/license-report/internal/model"
)

// NewCompareCmd creates the compare command.
// This command compares generation runs recorded in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [source-dir]",
		Short: "Compare generation runs recorded in the history database",
		Long: `Compare shows how a project's dependency set changed between runs.

It reads the history database and reports:
- Packages added since the previous run
- Packages removed since the previous run
- Packages whose version or license changed

By default it compares the two most recent runs for the given source
directory (./license-reports when omitted). Use 'license-report generate'
to record runs.

Examples:
  # Compare the latest two runs for the default directory
  license-report compare

  # Compare the latest two runs for a specific directory
  license-report compare ./build/license-reports

  # List recorded runs for a directory
  license-report compare --list ./build/license-reports

  # Compare the latest run with a specific older run by ID
  license-report compare --with-run-id 5

  # Output the comparison in JSON format
  license-report compare --json

  # List all directories with recorded runs
  license-report compare --list-dirs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List recorded runs for the source directory")
	cmd.Flags().BoolP("list-dirs", "L", false,
		"List all source directories with recorded runs")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with a specific run by ID (use --list to see IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listDirs, err := cmd.Flags().GetBool("list-dirs")
	if err != nil {
		return err
	}

	// The source directory defaults to the generation default, cleaned the
	// same way generate records it.
	sourceDir := filepath.Clean(config.DefaultSourceDir)
	if len(args) > 0 {
		sourceDir = filepath.Clean(args[0])
	}

	// Open the history database read-only; compare never creates it.
	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database (run 'license-report generate' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listDirs {
		return listSourceDirs(ctx, db)
	}

	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listRuns {
		return listRunHistory(ctx, db, sourceDir)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, sourceDir, withRunID, jsonOutput)
}

// listSourceDirs lists all source directories with recorded runs.
func listSourceDirs(ctx context.Context, db *database.HistoryDB) error {
	dirs, err := db.ListSourceDirs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source directories: %w", err)
	}

	if len(dirs) == 0 {
		fmt.Println("No recorded runs found in the history database.")
		fmt.Println("\nUse 'license-report generate' to generate a report and record a run.")
		return nil
	}

	fmt.Printf("Source directories with recorded runs (%d):\n\n", len(dirs))
	for _, dir := range dirs {
		fmt.Printf("  • %s\n", dir)
	}
	fmt.Println("\nUse 'license-report compare --list <dir>' to see the runs for a directory.")

	return nil
}

// listRunHistory lists all recorded runs for a source directory.
func listRunHistory(ctx context.Context, db *database.HistoryDB, sourceDir string) error {
	runs, err := db.ListRuns(ctx, sourceDir, 0)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No recorded runs found for %s\n", sourceDir)
		fmt.Println("\nUse 'license-report generate' to generate a report for this directory.")
		return nil
	}

	fmt.Printf("Recorded runs for %s (%d runs):\n\n", sourceDir, len(runs))

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Generated", "NuGet Rows", "Rush Rows", "Status"})
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "error: " + run.Error
		}
		tw.AppendRow(table.Row{
			run.ID,
			run.GeneratedAt.Format("2006-01-02 15:04:05"),
			run.NuGetRows,
			run.RushRows,
			status,
		})
	}
	fmt.Println(tw.Render())

	fmt.Println("\nUse 'license-report compare' to compare the latest two runs.")
	fmt.Println("Use 'license-report compare --with-run-id <id>' to compare with a specific run.")

	return nil
}

// runComparison performs the comparison and outputs the result.
func runComparison(ctx context.Context, db *database.HistoryDB, sourceDir string, withRunID int64, jsonOutput bool) error {
	var diff *database.Diff
	var err error

	if withRunID > 0 {
		// Compare the latest run with the specified older run
		runs, err := db.ListRuns(ctx, sourceDir, 1)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			return fmt.Errorf("no recorded runs found for %s", sourceDir)
		}
		if runs[0].ID == withRunID {
			return fmt.Errorf("run %d is the latest run; pick an older run to compare against", withRunID)
		}

		old, err := db.GetRun(ctx, withRunID)
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("run %d not found", withRunID)
		}
		if old.SourceDir != sourceDir {
			return fmt.Errorf("run %d belongs to %s, not %s", withRunID, old.SourceDir, sourceDir)
		}

		diff, err = db.CompareRuns(ctx, withRunID, runs[0].ID)
		if err != nil {
			return err
		}
	} else {
		diff, err = db.CompareLatest(ctx, sourceDir)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return outputDiffJSON(diff)
	}
	return outputDiffText(sourceDir, diff)
}

// outputDiffJSON outputs the comparison result in JSON format.
func outputDiffJSON(diff *database.Diff) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diff)
}

// outputDiffText outputs the comparison result in human-readable format.
func outputDiffText(sourceDir string, diff *database.Diff) error {
	fmt.Printf("Run comparison for %s (run %d -> run %d)\n\n", sourceDir, diff.OldRunID, diff.NewRunID)

	if !diff.HasChanges() {
		fmt.Println("No changes: the dependency sets are identical.")
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Printf("Added (%d):\n", len(diff.Added))
		fmt.Println(renderPackageTable(diff.Added))
		fmt.Println()
	}

	if len(diff.Removed) > 0 {
		fmt.Printf("Removed (%d):\n", len(diff.Removed))
		fmt.Println(renderPackageTable(diff.Removed))
		fmt.Println()
	}

	if len(diff.Changed) > 0 {
		fmt.Printf("Changed (%d):\n", len(diff.Changed))
		tw := table.NewWriter()
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Source", "Package", "Version", "License"})
		for _, change := range diff.Changed {
			tw.AppendRow(table.Row{
				change.After.Source,
				change.After.Name,
				formatChange(change.Before.Version, change.After.Version),
				formatChange(change.Before.License, change.After.License),
			})
		}
		fmt.Println(tw.Render())
	}

	return nil
}

// renderPackageTable renders a package list as a bordered table.
func renderPackageTable(packages []model.Package) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Source", "Package", "Version", "License"})
	for _, pkg := range packages {
		tw.AppendRow(table.Row{pkg.Source, pkg.Name, pkg.Version, pkg.License})
	}
	return tw.Render()
}

// formatChange renders a before/after pair, collapsing unchanged values.
func formatChange(before, after string) string {
	if before == after {
		return after
	}
	return before + " -> " + after
}
