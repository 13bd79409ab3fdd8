package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oss-compliance/license-report/internal/config"
)

// captureStdout runs fn while capturing everything written to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	_ = w.Close() //nolint:errcheck // Pipe teardown
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r) //nolint:errcheck // Pipe teardown
	_ = r.Close()          //nolint:errcheck // Pipe teardown

	return buf.String(), fnErr
}

// TestGenerateEndToEnd runs the generate command through the CLI surface.
func TestGenerateEndToEnd(t *testing.T) {
	t.Run("generates a workbook and prints the output path", func(t *testing.T) {
		dir := writeSourceDir(t)

		output, err := captureStdout(t, func() error {
			rootCmd := NewRootCmd()
			rootCmd.SetArgs([]string{"generate", dir, "--no-save"})
			return rootCmd.Execute()
		})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		workbook := filepath.Join(dir, config.DefaultOutputFile)
		if !strings.Contains(output, "Excel report generated at "+workbook) {
			t.Errorf("output missing the generated-at line:\n%s", output)
		}
		if _, err := os.Stat(workbook); err != nil {
			t.Errorf("expected workbook at %s: %v", workbook, err)
		}
	})

	t.Run("runs repeatedly in one process", func(t *testing.T) {
		dir := writeSourceDir(t)

		for i := 0; i < 2; i++ {
			_, err := captureStdout(t, func() error {
				rootCmd := NewRootCmd()
				rootCmd.SetArgs([]string{"generate", dir, "--no-save"})
				return rootCmd.Execute()
			})
			if err != nil {
				t.Fatalf("run %d failed: %v", i+1, err)
			}
		}
	})

	t.Run("rejects conflicting summary formats", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"generate", t.TempDir(), "--no-save", "--json", "--markdown"})

		err := rootCmd.Execute()
		if err == nil {
			t.Fatal("expected error for conflicting summary formats")
		}
		if !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got: %v", err)
		}
	})

	t.Run("rejects an invalid sheet name", func(t *testing.T) {
		rootCmd := NewRootCmd()
		rootCmd.SetArgs([]string{"generate", t.TempDir(), "--no-save", "--nuget-sheet", "bad[name]"})

		if err := rootCmd.Execute(); err == nil {
			t.Fatal("expected error for invalid sheet name")
		}
	})

	t.Run("writes a markdown summary file", func(t *testing.T) {
		dir := writeSourceDir(t)
		summaryPath := filepath.Join(t.TempDir(), "summary.md")

		_, err := captureStdout(t, func() error {
			rootCmd := NewRootCmd()
			rootCmd.SetArgs([]string{"generate", dir, "--no-save", "--markdown", "--summary-file", summaryPath})
			return rootCmd.Execute()
		})
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		content, err := os.ReadFile(summaryPath)
		if err != nil {
			t.Fatalf("failed to read summary: %v", err)
		}
		if !strings.Contains(string(content), "# License Report") {
			t.Errorf("summary missing markdown header:\n%s", string(content))
		}
	})
}
