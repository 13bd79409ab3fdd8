package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".license-report"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. All fields are optional;
// zero values leave the corresponding Config default untouched.
type File struct {
	// Inputs overrides the input file names, relative to each source
	// directory.
	Inputs struct {
		// NuGet is the NuGet license JSON file name.
		NuGet string `yaml:"nuget"`

		// Rush is the Rush dependency CSV file name.
		Rush string `yaml:"rush"`
	} `yaml:"inputs"`

	// Output overrides the workbook file name.
	Output string `yaml:"output"`

	// Sheets overrides the worksheet names.
	Sheets struct {
		// NuGet is the worksheet name for NuGet records.
		NuGet string `yaml:"nuget"`

		// Rush is the worksheet name for Rush dependencies.
		Rush string `yaml:"rush"`
	} `yaml:"sheets"`

	// Batch overrides the concurrent run limit for multiple directories.
	Batch int `yaml:"batch"`
}

// LoadConfigFile loads overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this error based on whether the path was explicitly specified by
// the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Apply copies the file's non-zero overrides onto the configuration.
func (f *File) Apply(cfg *Config) {
	if f.Inputs.NuGet != "" {
		cfg.NuGetFile = f.Inputs.NuGet
	}
	if f.Inputs.Rush != "" {
		cfg.RushFile = f.Inputs.Rush
	}
	if f.Output != "" {
		cfg.OutputFile = f.Output
	}
	if f.Sheets.NuGet != "" {
		cfg.NuGetSheetName = f.Sheets.NuGet
	}
	if f.Sheets.Rush != "" {
		cfg.RushSheetName = f.Sheets.Rush
	}
	if f.Batch > 0 {
		cfg.BatchSize = f.Batch
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .license-report in the current directory
//  3. Look for .license-report in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if
// not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
