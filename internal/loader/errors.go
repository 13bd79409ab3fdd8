package loader

import "errors"

// Parse errors for present-but-malformed inputs. An absent input file is
// never an error; these fire only when a file exists and cannot be turned
// into a table, which aborts the whole run.
//
// Design decision: We use package-level sentinel errors so callers can
// distinguish malformed input from I/O failures with errors.Is() while the
// wrapped message still names the offending file.
var (
	// ErrInvalidJSON is returned when the NuGet input exists but is not
	// syntactically valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON document")

	// ErrNotRecordArray is returned when the NuGet input is valid JSON but
	// its top-level value is neither an array of records, a single record,
	// nor null.
	ErrNotRecordArray = errors.New("top-level JSON value must be an array of records")
)
