// Package main provides the entry point for the license-report CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for license-report.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license-report",
		Short: "Generate Excel license reports from dependency metadata",
		Long: `license-report consolidates the license metadata collected for a project
(NuGet license JSON and Rush dependency CSV) into a single Excel workbook.

By default it reads the inputs from ./license-reports and writes
license-report.xlsx into the same directory. Every run is recorded in a
local history database so runs can be compared later.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewCompareCmd())
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
