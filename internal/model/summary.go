package model

import (
	"sort"
	"time"
)

// UnknownLicense is the label used for packages without a license value.
const UnknownLicense = "Unknown"

// Summary is a condensed view of a generation run for terminal, JSON,
// and Markdown output.
//
// Design decision: We derive a separate summary struct instead of having
// the writers walk LicenseReport directly because:
//  1. It keeps the per-format writers free of aggregation logic
//  2. It serializes cleanly for tool integration
//  3. The same aggregation feeds all output formats identically
type Summary struct {
	// SourceDir is the directory the inputs were read from.
	SourceDir string `json:"source_dir"`

	// OutputPath is the generated workbook path.
	OutputPath string `json:"output_path,omitempty"`

	// GeneratedAt is when the run started.
	GeneratedAt time.Time `json:"generated_at"`

	// Sheets describes the data sheets written to the workbook.
	// Empty when both inputs were absent or empty.
	Sheets []SheetSummary `json:"sheets,omitempty"`

	// TotalPackages is the number of packages recognized across all inputs.
	TotalPackages int `json:"total_packages"`

	// Licenses is the license distribution, most frequent first.
	Licenses []LicenseCount `json:"licenses,omitempty"`

	// Error is set when the run failed.
	Error string `json:"error,omitempty"`
}

// SheetSummary describes one data sheet in the output workbook.
type SheetSummary struct {
	// Name is the worksheet name.
	Name string `json:"name"`

	// Source is the input the sheet was built from.
	Source Source `json:"source"`

	// Rows is the number of data rows (excluding the header row).
	Rows int `json:"rows"`

	// Columns is the number of columns.
	Columns int `json:"columns"`
}

// LicenseCount is the number of packages under one license.
type LicenseCount struct {
	// License is the license identifier, or UnknownLicense.
	License string `json:"license"`

	// Count is the number of packages with this license.
	Count int `json:"count"`
}

// SheetNames maps a report to the worksheet names used in the workbook.
// The writers and the summary must agree on these, so they are injected
// rather than hardcoded in two places.
type SheetNames struct {
	// NuGet is the worksheet name for the NuGet table.
	NuGet string

	// Rush is the worksheet name for the Rush table.
	Rush string
}

// NewSummary builds a Summary from a completed (or failed) report.
func NewSummary(r *LicenseReport, names SheetNames) *Summary {
	s := &Summary{
		SourceDir:   r.SourceDir,
		OutputPath:  r.OutputPath,
		GeneratedAt: r.GeneratedAt,
		Error:       r.ErrorMessage,
	}

	if !r.NuGet.IsEmpty() {
		s.Sheets = append(s.Sheets, SheetSummary{
			Name:    names.NuGet,
			Source:  SourceNuGet,
			Rows:    r.NuGet.RowCount(),
			Columns: r.NuGet.ColumnCount(),
		})
	}
	if !r.Rush.IsEmpty() {
		s.Sheets = append(s.Sheets, SheetSummary{
			Name:    names.Rush,
			Source:  SourceRush,
			Rows:    r.Rush.RowCount(),
			Columns: r.Rush.ColumnCount(),
		})
	}

	packages := r.Packages()
	s.TotalPackages = len(packages)
	s.Licenses = countLicenses(packages)

	return s
}

// HasSheets reports whether any data sheet was written.
func (s *Summary) HasSheets() bool {
	return len(s.Sheets) > 0
}

// TotalRows returns the total number of data rows across all sheets.
func (s *Summary) TotalRows() int {
	total := 0
	for _, sheet := range s.Sheets {
		total += sheet.Rows
	}
	return total
}

// countLicenses aggregates packages into a license distribution sorted by
// descending count, then by license name for a deterministic order.
func countLicenses(packages []Package) []LicenseCount {
	counts := make(map[string]int)
	for _, pkg := range packages {
		license := pkg.License
		if license == "" {
			license = UnknownLicense
		}
		counts[license]++
	}

	distribution := make([]LicenseCount, 0, len(counts))
	for license, count := range counts {
		distribution = append(distribution, LicenseCount{License: license, Count: count})
	}

	sort.Slice(distribution, func(i, j int) bool {
		if distribution[i].Count != distribution[j].Count {
			return distribution[i].Count > distribution[j].Count
		}
		return distribution[i].License < distribution[j].License
	})

	return distribution
}
