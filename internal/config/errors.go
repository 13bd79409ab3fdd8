package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoSourceDir is returned when no source directory is configured.
	// This should not happen through the CLI, which falls back to the
	// default directory, but protects direct library use.
	ErrNoSourceDir = errors.New("no source directory specified")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no directory is ever processed.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingSummaryFormats is returned when both --json and
	// --markdown are specified. Only one summary format can be used at a time.
	ErrConflictingSummaryFormats = errors.New("conflicting summary formats: --json and --markdown cannot be used together")

	// ErrEmptySheetName is returned when a worksheet name is configured
	// as the empty string.
	ErrEmptySheetName = errors.New("invalid sheet name: must not be empty")

	// ErrSheetNameTooLong is returned when a worksheet name exceeds the
	// 31-character limit imposed by the xlsx format.
	ErrSheetNameTooLong = errors.New("invalid sheet name: must be at most 31 characters")

	// ErrSheetNameInvalidChars is returned when a worksheet name contains
	// characters the xlsx format forbids (: \ / ? * [ ]).
	ErrSheetNameInvalidChars = errors.New(`invalid sheet name: must not contain any of : \ / ? * [ ]`)

	// ErrDuplicateSheetNames is returned when both worksheets are
	// configured with the same name. Worksheet names must be unique
	// within a workbook.
	ErrDuplicateSheetNames = errors.New("invalid sheet names: NuGet and Rush sheets must have distinct names")
)
