package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/oss-compliance/license-report/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation, pull request comments, and
// sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts and mermaid charts
type MarkdownWriter struct {
	baseWriter
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownSheetNames overrides the worksheet names used when
// summarizing a report.
func WithMarkdownSheetNames(names model.SheetNames) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.sheets = names
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.LicenseReport) (int, error) {
	return w.WriteSummary(w.summarize(report))
}

// WriteSummary outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeSheets(md, summary)
	w.writeLicenses(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("License Report")
	md.PlainText("")

	status := "✅ Complete"
	if summary.Error != "" {
		status = "❌ Error - " + summary.Error
	}

	rows := [][]string{
		{"Source Directory", "`" + summary.SourceDir + "`"},
	}
	if summary.OutputPath != "" {
		rows = append(rows, []string{"Workbook", "`" + summary.OutputPath + "`"})
	}
	rows = append(rows,
		[]string{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Total Packages", strconv.Itoa(summary.TotalPackages)},
		[]string{"Status", status},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSheets writes the worksheet statistics section.
func (w *MarkdownWriter) writeSheets(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Worksheets")
	md.PlainText("")

	if !summary.HasSheets() {
		md.Warning("No dependency data was found; the workbook was written without data sheets.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Sheets))
	for i, sheet := range summary.Sheets {
		rows[i] = []string{
			sheet.Name,
			sourceLabel(sheet.Source),
			strconv.Itoa(sheet.Rows),
			strconv.Itoa(sheet.Columns),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Sheet", "Source", "Rows", "Columns"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeLicenses writes the license distribution section with a pie chart.
func (w *MarkdownWriter) writeLicenses(md *markdown.Markdown, summary *model.Summary) {
	md.H2("License Distribution")
	md.PlainText("")

	if len(summary.Licenses) == 0 {
		md.PlainText("No packages were recognized in the inputs.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Licenses))
	unknown := 0
	for i, lc := range summary.Licenses {
		rows[i] = []string{lc.License, strconv.Itoa(lc.Count)}
		if lc.License == model.UnknownLicense {
			unknown = lc.Count
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"License", "Packages"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
	w.writeAlert(md, unknown)
}

// writePieChart writes a mermaid pie chart for the license distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("License Distribution"),
		piechart.WithShowData(true),
	)

	for _, lc := range summary.Licenses {
		chart.LabelAndIntValue(lc.License, uint64(lc.Count))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert when packages carry no recognizable license.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, unknown int) {
	if unknown > 0 {
		md.Importantf(
			"%d package(s) carry no recognizable license value. Review them before release.",
			unknown,
		)
	} else {
		md.Tip("Every recognized package carries a license value.")
	}
	md.PlainText("")
}
