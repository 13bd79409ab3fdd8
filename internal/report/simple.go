package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/oss-compliance/license-report/internal/model"
)

// maxLicenseRows is the number of license distribution rows shown in
// non-verbose output. The long tail of single-package licenses is noise
// in a terminal summary.
const maxLicenseRows = 10

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a generation run.
//
// Design decision: We render plain bordered tables rather than ANSI-styled
// output because the summary is routinely piped into CI logs and files,
// where styling sequences only get in the way.
type SimpleWriter struct {
	baseWriter

	// verbose enables the full license distribution instead of the
	// top entries.
	verbose bool

	// printer formats numbers with locale-aware grouping so large row
	// counts stay readable.
	printer *message.Printer
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the full license distribution.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithSimpleSheetNames overrides the worksheet names used when
// summarizing a report.
func WithSimpleSheetNames(names model.SheetNames) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.sheets = names
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.LicenseReport) (int, error) {
	return w.WriteSummary(w.summarize(report))
}

// WriteSummary outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeSheets(&sb, summary)
	w.writeLicenses(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         LICENSE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source Directory: %s\n", summary.SourceDir))
	if summary.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Workbook:         %s\n", summary.OutputPath))
	}
	sb.WriteString(fmt.Sprintf("Generated:        %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:           ERROR - %s\n", summary.Error))
	} else {
		sb.WriteString("Status:           Complete\n")
	}

	sb.WriteString("\n")
}

// writeSheets writes the worksheet statistics table.
func (w *SimpleWriter) writeSheets(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("WORKSHEETS\n")

	if !summary.HasSheets() {
		sb.WriteString("  No dependency data found; workbook written without data sheets.\n\n")
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Sheet", "Source", "Rows", "Columns"})
	for _, sheet := range summary.Sheets {
		tw.AppendRow(table.Row{
			sheet.Name,
			sourceLabel(sheet.Source),
			w.printer.Sprintf("%d", sheet.Rows),
			sheet.Columns,
		})
	}
	tw.AppendFooter(table.Row{"Total", "", w.printer.Sprintf("%d", summary.TotalRows()), ""})

	sb.WriteString(tw.Render())
	sb.WriteString("\n\n")
}

// writeLicenses writes the license distribution table.
func (w *SimpleWriter) writeLicenses(sb *strings.Builder, summary *model.Summary) {
	if len(summary.Licenses) == 0 {
		return
	}

	sb.WriteString("LICENSE DISTRIBUTION\n")

	licenses := summary.Licenses
	truncated := 0
	if !w.verbose && len(licenses) > maxLicenseRows {
		truncated = len(licenses) - maxLicenseRows
		licenses = licenses[:maxLicenseRows]
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"License", "Packages"})
	for _, lc := range licenses {
		tw.AppendRow(table.Row{lc.License, w.printer.Sprintf("%d", lc.Count)})
	}

	sb.WriteString(tw.Render())
	sb.WriteString("\n")
	if truncated > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more licenses (use --verbose for the full list)\n", truncated))
	}
	sb.WriteString("\n")
}
