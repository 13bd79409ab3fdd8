package report

import (
	"io"

	"github.com/oss-compliance/license-report/internal/config"
	"github.com/oss-compliance/license-report/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a generation run in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or in-memory
// buffers with the same API.
type Writer interface {
	// Write outputs the full report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.LicenseReport) (int, error)

	// WriteSummary outputs only the run summary.
	// This is useful for quick status output without the full tables.
	WriteSummary(summary *model.Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.LicenseReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer

	// sheets are the worksheet names used when summarizing a report.
	sheets model.SheetNames
}

// newBaseWriter creates a baseWriter with the given output destination and
// the default worksheet names.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{
		output: output,
		sheets: DefaultSheetNames(),
	}
}

// DefaultSheetNames returns the configured default worksheet names.
func DefaultSheetNames() model.SheetNames {
	return model.SheetNames{
		NuGet: config.DefaultNuGetSheetName,
		Rush:  config.DefaultRushSheetName,
	}
}

// summarize builds the summary for a report using the writer's sheet names.
func (b *baseWriter) summarize(report *model.LicenseReport) *model.Summary {
	return model.NewSummary(report, b.sheets)
}

// sourceLabel returns the display label for an input source.
func sourceLabel(source model.Source) string {
	switch source {
	case model.SourceNuGet:
		return "NuGet"
	case model.SourceRush:
		return "Rush"
	default:
		return string(source)
	}
}
