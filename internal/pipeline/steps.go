package pipeline

import (
	"context"
	"log/slog"

	"github.com/oss-compliance/license-report/internal/loader"
	"github.com/oss-compliance/license-report/internal/model"
)

// NuGetStep loads the NuGet license JSON input and stores its flattened
// table in the report. An absent input file leaves the table empty.
type NuGetStep struct {
	// path is the NuGet license JSON file path.
	path string

	// logger for structured logging.
	logger *slog.Logger
}

// NuGetStepOption configures a NuGetStep.
type NuGetStepOption func(*NuGetStep)

// WithNuGetLogger sets a custom logger for the NuGet load step.
func WithNuGetLogger(logger *slog.Logger) NuGetStepOption {
	return func(s *NuGetStep) {
		s.logger = logger
	}
}

// NewNuGetStep creates a step that loads NuGet license records from path.
func NewNuGetStep(path string, opts ...NuGetStepOption) *NuGetStep {
	s := &NuGetStep{
		path:   path,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *NuGetStep) Name() string {
	return "nuget_load"
}

// Do executes the NuGet load step.
func (s *NuGetStep) Do(_ context.Context, report *model.LicenseReport) error {
	table, err := loader.ReadNuGetLicenses(s.path)
	if err != nil {
		return err
	}

	report.NuGet = table
	s.logger.Debug("NuGet licenses loaded",
		"path", s.path,
		"rows", table.RowCount(),
		"columns", table.ColumnCount(),
	)
	return nil
}

// RushStep loads the Rush dependency CSV input and stores its table in the
// report. An absent input file leaves the table empty.
type RushStep struct {
	// path is the Rush dependency CSV file path.
	path string

	// logger for structured logging.
	logger *slog.Logger
}

// RushStepOption configures a RushStep.
type RushStepOption func(*RushStep)

// WithRushLogger sets a custom logger for the Rush load step.
func WithRushLogger(logger *slog.Logger) RushStepOption {
	return func(s *RushStep) {
		s.logger = logger
	}
}

// NewRushStep creates a step that loads Rush dependencies from path.
func NewRushStep(path string, opts ...RushStepOption) *RushStep {
	s := &RushStep{
		path:   path,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RushStep) Name() string {
	return "rush_load"
}

// Do executes the Rush load step.
func (s *RushStep) Do(_ context.Context, report *model.LicenseReport) error {
	table, err := loader.ReadRushDependencies(s.path)
	if err != nil {
		return err
	}

	report.Rush = table
	s.logger.Debug("Rush dependencies loaded",
		"path", s.path,
		"rows", table.RowCount(),
		"columns", table.ColumnCount(),
	)
	return nil
}

// ReportPipeline builds the standard two-step load pipeline for one source
// directory's input files.
func ReportPipeline(nugetPath, rushPath string, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewNuGetStep(nugetPath, WithNuGetLogger(p.logger)),
		NewRushStep(rushPath, WithRushLogger(p.logger)),
	)
	return p
}
