package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/oss-compliance/license-report/internal/model"
)

// sampleReport returns a report with both tables populated.
func sampleReport() *model.LicenseReport {
	return &model.LicenseReport{
		SourceDir:   "license-reports",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		NuGet: model.Table{
			Columns: []string{"name", "version", "license.type"},
			Rows: [][]any{
				{"Newtonsoft.Json", "13.0.3", "MIT"},
				{"Serilog", "3.1.1", "Apache-2.0"},
			},
		},
		Rush: model.Table{
			Columns: []string{"name", "version", "license"},
			Rows: [][]any{
				{"lodash", "4.17.21", "MIT"},
			},
		},
	}
}

// openWorkbook parses a written workbook back for inspection.
func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	t.Cleanup(func() {
		if err := f.Close(); err != nil {
			t.Errorf("failed to close workbook: %v", err)
		}
	})
	return f
}

func TestExcelWriterWrite(t *testing.T) {
	t.Parallel()

	t.Run("both inputs produce two data sheets", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewExcelWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if n <= 0 {
			t.Errorf("Write() returned %d bytes, want > 0", n)
		}

		f := openWorkbook(t, &buf)
		got := f.GetSheetList()
		want := []string{"NuGet Packages", "Rush Dependencies"}
		if len(got) != len(want) {
			t.Fatalf("sheet list = %v, want %v", got, want)
		}
		for i, name := range want {
			if got[i] != name {
				t.Errorf("sheet[%d] = %q, want %q", i, got[i], name)
			}
		}
	})

	t.Run("header row and cell values survive the round trip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewExcelWriter(&buf).Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		f := openWorkbook(t, &buf)
		rows, err := f.GetRows("NuGet Packages")
		if err != nil {
			t.Fatalf("GetRows() error = %v", err)
		}

		want := [][]string{
			{"name", "version", "license.type"},
			{"Newtonsoft.Json", "13.0.3", "MIT"},
			{"Serilog", "3.1.1", "Apache-2.0"},
		}
		if len(rows) != len(want) {
			t.Fatalf("got %d rows, want %d", len(rows), len(want))
		}
		for i, wantRow := range want {
			for j, wantCell := range wantRow {
				if rows[i][j] != wantCell {
					t.Errorf("cell[%d][%d] = %q, want %q", i, j, rows[i][j], wantCell)
				}
			}
		}
	})

	t.Run("empty table produces no sheet", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()
		report.Rush = model.Table{}

		var buf bytes.Buffer
		if _, err := NewExcelWriter(&buf).Write(report); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		f := openWorkbook(t, &buf)
		got := f.GetSheetList()
		if len(got) != 1 || got[0] != "NuGet Packages" {
			t.Errorf("sheet list = %v, want [NuGet Packages]", got)
		}
	})

	t.Run("no data keeps the default sheet", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewExcelWriter(&buf).Write(model.NewLicenseReport("empty")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		f := openWorkbook(t, &buf)
		got := f.GetSheetList()
		if len(got) != 1 || got[0] != "Sheet1" {
			t.Errorf("sheet list = %v, want [Sheet1]", got)
		}
	})

	t.Run("custom sheet names", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewExcelWriter(&buf, WithSheetNames(model.SheetNames{
			NuGet: "DotNet",
			Rush:  "Node",
		}))
		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		f := openWorkbook(t, &buf)
		got := f.GetSheetList()
		want := []string{"DotNet", "Node"}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("sheet list = %v, want %v", got, want)
		}
	})

	t.Run("data sheet named like the default sheet keeps its rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewExcelWriter(&buf, WithSheetNames(model.SheetNames{
			NuGet: "Sheet1",
			Rush:  "Rush Dependencies",
		}))
		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		f := openWorkbook(t, &buf)
		got := f.GetSheetList()
		want := []string{"Sheet1", "Rush Dependencies"}
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("sheet list = %v, want %v", got, want)
		}

		rows, err := f.GetRows("Sheet1")
		if err != nil {
			t.Fatalf("GetRows() error = %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("got %d rows, want 3", len(rows))
		}
		if rows[1][0] != "Newtonsoft.Json" {
			t.Errorf("cell[1][0] = %q, want Newtonsoft.Json", rows[1][0])
		}
	})

	t.Run("default sheet is removed when its configured name got no data", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()
		report.NuGet = model.Table{}

		var buf bytes.Buffer
		w := NewExcelWriter(&buf, WithSheetNames(model.SheetNames{
			NuGet: "Sheet1",
			Rush:  "Rush Dependencies",
		}))
		if _, err := w.Write(report); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		f := openWorkbook(t, &buf)
		got := f.GetSheetList()
		if len(got) != 1 || got[0] != "Rush Dependencies" {
			t.Errorf("sheet list = %v, want [Rush Dependencies]", got)
		}
	})

	t.Run("writing the same report twice yields the same sheets and rows", func(t *testing.T) {
		t.Parallel()

		report := sampleReport()

		var first, second bytes.Buffer
		if _, err := NewExcelWriter(&first).Write(report); err != nil {
			t.Fatalf("first Write() error = %v", err)
		}
		if _, err := NewExcelWriter(&second).Write(report); err != nil {
			t.Fatalf("second Write() error = %v", err)
		}

		f1 := openWorkbook(t, &first)
		f2 := openWorkbook(t, &second)

		for _, sheet := range f1.GetSheetList() {
			rows1, err := f1.GetRows(sheet)
			if err != nil {
				t.Fatalf("GetRows(%q) error = %v", sheet, err)
			}
			rows2, err := f2.GetRows(sheet)
			if err != nil {
				t.Fatalf("GetRows(%q) error = %v", sheet, err)
			}
			if len(rows1) != len(rows2) {
				t.Fatalf("sheet %q: %d rows vs %d rows", sheet, len(rows1), len(rows2))
			}
			for i := range rows1 {
				for j := range rows1[i] {
					if rows1[i][j] != rows2[i][j] {
						t.Errorf("sheet %q cell[%d][%d]: %q vs %q", sheet, i, j, rows1[i][j], rows2[i][j])
					}
				}
			}
		}
	})
}

func TestExcelWriterWriteSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewExcelWriter(&buf)

	summary := model.NewSummary(sampleReport(), DefaultSheetNames())
	if _, err := w.WriteSummary(summary); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	f := openWorkbook(t, &buf)
	got := f.GetSheetList()
	if len(got) != 1 || got[0] != "Summary" {
		t.Fatalf("sheet list = %v, want [Summary]", got)
	}

	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) == 0 || rows[0][0] != "Source Directory" {
		t.Errorf("first summary row = %v, want Source Directory header", rows)
	}
}
