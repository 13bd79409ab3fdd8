package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/oss-compliance/license-report/internal/model"
)

// defaultSheetName is the worksheet excelize creates in every new workbook.
// It is removed once a data sheet exists; when no input produced data it is
// kept, because the xlsx format requires at least one visible worksheet.
const defaultSheetName = "Sheet1"

// summarySheetName is the worksheet name used by WriteSummary.
const summarySheetName = "Summary"

// ExcelWriter outputs reports as xlsx workbooks.
// This is the primary report artifact: one worksheet per non-empty input,
// header row first, no row index column, column order preserved from the
// input.
type ExcelWriter struct {
	baseWriter
}

// ExcelWriterOption configures an ExcelWriter.
type ExcelWriterOption func(*ExcelWriter)

// WithSheetNames overrides the worksheet names.
func WithSheetNames(names model.SheetNames) ExcelWriterOption {
	return func(w *ExcelWriter) {
		w.sheets = names
	}
}

// NewExcelWriter creates an ExcelWriter that outputs to the given writer.
func NewExcelWriter(output io.Writer, opts ...ExcelWriterOption) *ExcelWriter {
	w := &ExcelWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as a workbook.
// Each non-empty table becomes one worksheet; empty tables produce no
// worksheet at all. The workbook is fully built in memory and written out
// in one pass, so a failed run never leaves a half-written document
// structure behind on the writer.
func (w *ExcelWriter) Write(report *model.LicenseReport) (int, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // In-memory workbook, nothing to flush

	written := make([]string, 0, 2)

	if !report.NuGet.IsEmpty() {
		if err := writeTableSheet(f, w.sheets.NuGet, report.NuGet); err != nil {
			return 0, err
		}
		written = append(written, w.sheets.NuGet)
	}

	if !report.Rush.IsEmpty() {
		if err := writeTableSheet(f, w.sheets.Rush, report.Rush); err != nil {
			return 0, err
		}
		written = append(written, w.sheets.Rush)
	}

	// A configured sheet name may equal the default sheet, in which case the
	// data landed in it and the sheet must survive.
	if len(written) > 0 && !slices.Contains(written, defaultSheetName) {
		if err := f.DeleteSheet(defaultSheetName); err != nil {
			return 0, fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	n, err := f.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("failed to write workbook: %w", err)
	}
	return int(n), nil
}

// WriteSummary outputs a workbook containing a single summary worksheet
// with run metadata, per-sheet statistics, and the license distribution.
func (w *ExcelWriter) WriteSummary(summary *model.Summary) (int, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // In-memory workbook, nothing to flush

	if _, err := f.NewSheet(summarySheetName); err != nil {
		return 0, fmt.Errorf("failed to create summary sheet: %w", err)
	}

	rows := [][]any{
		{"Source Directory", summary.SourceDir},
		{"Generated At", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Total Packages", summary.TotalPackages},
		{},
		{"Sheet", "Source", "Rows", "Columns"},
	}
	for _, sheet := range summary.Sheets {
		rows = append(rows, []any{sheet.Name, sourceLabel(sheet.Source), sheet.Rows, sheet.Columns})
	}
	if len(summary.Licenses) > 0 {
		rows = append(rows, []any{}, []any{"License", "Packages"})
		for _, lc := range summary.Licenses {
			rows = append(rows, []any{lc.License, lc.Count})
		}
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(summarySheetName, cell, &row); err != nil {
			return 0, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.DeleteSheet(defaultSheetName); err != nil {
		return 0, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	n, err := f.WriteTo(w.output)
	if err != nil {
		return int(n), fmt.Errorf("failed to write workbook: %w", err)
	}
	return int(n), nil
}

// writeTableSheet writes one table as a worksheet: header row in row 1,
// data rows from row 2.
func writeTableSheet(f *excelize.File, name string, t model.Table) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of sheet %q: %w", name, err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d of sheet %q: %w", i+2, name, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", i+2, name, err)
		}
	}

	return nil
}
