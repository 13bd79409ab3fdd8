package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/oss-compliance/license-report/internal/model"
)

// failingWriter always returns an error.
type failingWriter struct {
	err error
}

func (f *failingWriter) Write(*model.LicenseReport) (int, error) {
	return 0, f.err
}

func (f *failingWriter) WriteSummary(*model.Summary) (int, error) {
	return 0, f.err
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every writer and sums the bytes", func(t *testing.T) {
		t.Parallel()

		var simple, jsonBuf bytes.Buffer
		mw := NewMultiWriter(
			NewSimpleWriter(&simple),
			NewJSONWriter(&jsonBuf),
		)

		n, err := mw.Write(sampleReport())
		if err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if want := simple.Len() + jsonBuf.Len(); n != want {
			t.Errorf("Write() returned %d bytes, want %d", n, want)
		}
		if simple.Len() == 0 || jsonBuf.Len() == 0 {
			t.Error("every writer should receive output")
		}
	})

	t.Run("stops on the first failure", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("disk full")
		var buf bytes.Buffer
		mw := NewMultiWriter(&failingWriter{err: wantErr}, NewSimpleWriter(&buf))

		if _, err := mw.Write(sampleReport()); !errors.Is(err, wantErr) {
			t.Errorf("Write() error = %v, want %v", err, wantErr)
		}
		if buf.Len() != 0 {
			t.Error("writers after the failure should not run")
		}
	})

	t.Run("summary fan-out", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewMarkdownWriter(&b))

		summary := model.NewSummary(sampleReport(), DefaultSheetNames())
		if _, err := mw.WriteSummary(summary); err != nil {
			t.Fatalf("WriteSummary() error = %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("every writer should receive the summary")
		}
	})
}

func TestDefaultSheetNames(t *testing.T) {
	t.Parallel()

	names := DefaultSheetNames()
	if names.NuGet != "NuGet Packages" {
		t.Errorf("NuGet sheet name = %q, want %q", names.NuGet, "NuGet Packages")
	}
	if names.Rush != "Rush Dependencies" {
		t.Errorf("Rush sheet name = %q, want %q", names.Rush, "Rush Dependencies")
	}
}
