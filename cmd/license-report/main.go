// Package main provides the entry point for the license-report CLI.
//
// license-report turns the intermediate files produced by a license
// collection run (NuGet license JSON, Rush dependency CSV) into an Excel
// workbook for compliance review.
//
// Usage:
//
//	license-report generate
//	license-report generate ./license-reports
//
// See --help for all available options.
package main

// main is the entry point for license-report.
func main() {
	Execute()
}
