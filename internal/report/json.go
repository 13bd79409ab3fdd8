package report

import (
	"encoding/json"
	"io"

	"github.com/oss-compliance/license-report/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json here rather than the
// order-preserving parser used on the input side because output column
// order is already carried explicitly in the table structure; there is
// nothing for a third-party encoder to add.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// WithJSONSheetNames overrides the worksheet names used when summarizing
// a report.
func WithJSONSheetNames(names model.SheetNames) JSONWriterOption {
	return func(w *JSONWriter) {
		w.sheets = names
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonReport wraps the full report with its derived summary so consumers
// get both the raw tables and the aggregate view in one document.
type jsonReport struct {
	Report  *model.LicenseReport `json:"report"`
	Summary *model.Summary       `json:"summary"`
}

// Write outputs the full report (tables and summary) in JSON format.
func (w *JSONWriter) Write(report *model.LicenseReport) (int, error) {
	return w.writeJSON(jsonReport{
		Report:  report,
		Summary: w.summarize(report),
	})
}

// WriteSummary outputs only the run summary in JSON format.
func (w *JSONWriter) WriteSummary(summary *model.Summary) (int, error) {
	return w.writeJSON(summary)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
