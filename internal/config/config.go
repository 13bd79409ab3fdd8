package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The directory and file names match what the upstream license collection
// tooling produces, so a bare `license-report generate` works against an
// unmodified collection run.
const (
	// DefaultSourceDir is the directory the upstream tooling writes its
	// intermediate files into, and where the workbook is written.
	DefaultSourceDir = "./license-reports"

	// DefaultNuGetFile is the NuGet license metadata input file name.
	DefaultNuGetFile = "nuget-licenses.json"

	// DefaultRushFile is the Rush dependency list input file name.
	DefaultRushFile = "rush-dependencies.csv"

	// DefaultOutputFile is the workbook file name written into the
	// source directory.
	DefaultOutputFile = "license-report.xlsx"

	// DefaultNuGetSheetName is the worksheet name for NuGet records.
	DefaultNuGetSheetName = "NuGet Packages"

	// DefaultRushSheetName is the worksheet name for Rush dependencies.
	DefaultRushSheetName = "Rush Dependencies"

	// DefaultBatchSize is the number of directories processed concurrently
	// when generate is given multiple source directories. Report generation
	// is I/O bound on small files, so a modest limit is enough.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "license-report"

	// MaxSheetNameLength is the worksheet name length limit imposed by
	// the xlsx format.
	MaxSheetNameLength = 31
)

// invalidSheetNameChars are the characters the xlsx format forbids in
// worksheet names.
const invalidSheetNameChars = `:\/?*[]`

// Config holds all configuration options for a report generation run.
// It is populated from CLI flags and the optional configuration file and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., InputConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// SourceDirs are the directories to read inputs from and write the
	// workbook into. Usually a single directory; multiple directories are
	// processed concurrently.
	SourceDirs []string

	// NuGetFile is the NuGet license JSON file name, relative to each
	// source directory.
	NuGetFile string

	// RushFile is the Rush dependency CSV file name, relative to each
	// source directory.
	RushFile string

	// OutputFile is the workbook file name, relative to each source
	// directory.
	OutputFile string

	// NuGetSheetName is the worksheet name for the NuGet table.
	NuGetSheetName string

	// RushSheetName is the worksheet name for the Rush table.
	RushSheetName string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent runs when processing
	// multiple source directories.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .license-report in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// JSONSummary enables JSON summary output after generation.
	// Mutually exclusive with MarkdownSummary.
	JSONSummary bool

	// MarkdownSummary enables Markdown summary output after generation.
	// Mutually exclusive with JSONSummary.
	MarkdownSummary bool

	// SummaryFile is the file path the summary is written to.
	// When empty, the summary goes to stdout.
	SummaryFile string

	// SaveToDB indicates whether to record each run in the history
	// database for later comparison.
	SaveToDB bool

	// DBDir is the directory path for the history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
// All fields are set to the defaults above; CLI flags and the config file
// override specific values after creation.
func NewConfig() *Config {
	return &Config{
		SourceDirs:     []string{DefaultSourceDir},
		NuGetFile:      DefaultNuGetFile,
		RushFile:       DefaultRushFile,
		OutputFile:     DefaultOutputFile,
		NuGetSheetName: DefaultNuGetSheetName,
		RushSheetName:  DefaultRushSheetName,
		BatchSize:      DefaultBatchSize,
		SaveToDB:       true,
	}
}

// NuGetPath returns the NuGet input path for the given source directory.
func (c *Config) NuGetPath(dir string) string {
	return filepath.Join(dir, c.NuGetFile)
}

// RushPath returns the Rush input path for the given source directory.
func (c *Config) RushPath(dir string) string {
	return filepath.Join(dir, c.RushFile)
}

// OutputPath returns the workbook output path for the given source directory.
func (c *Config) OutputPath(dir string) string {
	return filepath.Join(dir, c.OutputFile)
}

// XDGDataDir returns the XDG data directory for the history database.
// On Linux: ~/.local/share/license-report
// On macOS: ~/Library/Application Support/license-report
// On Windows: %LOCALAPPDATA%\license-report
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the application.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate once after CLI parsing rather than at each
// point of use to fail fast with a clear message before any file is touched.
// We return the first error found because fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.SourceDirs) == 0 {
		return ErrNoSourceDir
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONSummary && c.MarkdownSummary {
		return ErrConflictingSummaryFormats
	}

	for _, name := range []string{c.NuGetSheetName, c.RushSheetName} {
		if err := validateSheetName(name); err != nil {
			return err
		}
	}

	if c.NuGetSheetName == c.RushSheetName {
		return ErrDuplicateSheetNames
	}

	return nil
}

// validateSheetName checks a worksheet name against the xlsx format limits.
func validateSheetName(name string) error {
	if name == "" {
		return ErrEmptySheetName
	}
	if len(name) > MaxSheetNameLength {
		return ErrSheetNameTooLong
	}
	if strings.ContainsAny(name, invalidSheetNameChars) {
		return ErrSheetNameInvalidChars
	}
	return nil
}
