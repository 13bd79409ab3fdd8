package model

import (
	"path/filepath"
	"time"
)

// Source identifies which input file a table or package came from.
type Source string

// Input sources for license metadata.
const (
	// SourceNuGet is the NuGet license JSON input.
	SourceNuGet Source = "nuget"

	// SourceRush is the Rush dependency CSV input.
	SourceRush Source = "rush"
)

// LicenseReport is the result of one report generation run.
// It accumulates the tabular data loaded by the pipeline steps and is
// consumed by the report writers and the history database.
//
// Design decision: Like the scan-report-as-accumulator pattern, steps
// fill in their portion of a single shared struct rather than returning
// separate values. This keeps the pipeline generic and makes the full
// run state available to every writer.
type LicenseReport struct {
	// SourceDir is the directory the input files were read from.
	SourceDir string `json:"source_dir"`

	// OutputPath is the path of the generated workbook.
	// Empty until the workbook has been written.
	OutputPath string `json:"output_path,omitempty"`

	// GeneratedAt is the timestamp when the run started.
	GeneratedAt time.Time `json:"generated_at"`

	// NuGet is the flattened NuGet license record set.
	// Empty when the JSON input is absent or contains no records.
	NuGet Table `json:"nuget"`

	// Rush is the Rush dependency table.
	// Empty when the CSV input is absent or has no data rows.
	Rush Table `json:"rush"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the first fatal error encountered, if any.
	// Excluded from JSON; ErrorMessage carries the serializable form.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewLicenseReport creates a report for the given source directory with
// the generation timestamp set to now.
func NewLicenseReport(sourceDir string) *LicenseReport {
	return &LicenseReport{
		SourceDir:   filepath.Clean(sourceDir),
		GeneratedAt: time.Now(),
	}
}

// HasData reports whether at least one input produced data rows.
// When false, the workbook is written without any data sheet (the xlsx
// container itself still carries one empty default sheet because the
// format requires at least one visible worksheet).
func (r *LicenseReport) HasData() bool {
	return !r.NuGet.IsEmpty() || !r.Rush.IsEmpty()
}

// Package is the normalized projection of one dependency row.
// It is extracted heuristically from the input tables and feeds the
// license distribution summary and the history database.
type Package struct {
	// Source is the input the package came from.
	Source Source `json:"source"`

	// Name is the package name.
	Name string `json:"name"`

	// Version is the package version, if a version column was found.
	Version string `json:"version,omitempty"`

	// License is the license identifier, or empty if unknown.
	License string `json:"license,omitempty"`
}

// Column name candidates for the heuristic package projection.
// Dotted names match columns produced by flattening nested records.
var (
	nameColumns    = []string{"name", "packagename", "package", "packageid", "id"}
	versionColumns = []string{"version", "packageversion"}
	licenseColumns = []string{"license", "licensetype", "license.type", "licenses", "licenseexpression", "license.expression"}
)

// Packages extracts the normalized package list from both tables.
// Rows from tables without a recognizable name column are skipped;
// the raw tabular data still reaches the workbook unmodified, so a
// failed projection only degrades the summary and history features.
func (r *LicenseReport) Packages() []Package {
	var packages []Package
	packages = append(packages, extractPackages(r.NuGet, SourceNuGet)...)
	packages = append(packages, extractPackages(r.Rush, SourceRush)...)
	return packages
}

// extractPackages projects one table into Package values.
func extractPackages(t Table, source Source) []Package {
	nameIdx, ok := t.FindColumn(nameColumns...)
	if !ok {
		return nil
	}

	versionIdx, hasVersion := t.FindColumn(versionColumns...)
	licenseIdx, hasLicense := t.FindColumn(licenseColumns...)

	packages := make([]Package, 0, t.RowCount())
	for row := range t.Rows {
		name := t.CellString(row, nameIdx)
		if name == "" {
			continue
		}

		pkg := Package{Source: source, Name: name}
		if hasVersion {
			pkg.Version = t.CellString(row, versionIdx)
		}
		if hasLicense {
			pkg.License = t.CellString(row, licenseIdx)
		}
		packages = append(packages, pkg)
	}
	return packages
}
