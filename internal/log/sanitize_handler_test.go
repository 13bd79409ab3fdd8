package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSanitize tests control character stripping.
func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain string unchanged",
			input: "lodash",
			want:  "lodash",
		},
		{
			name:  "CSI color sequence stripped",
			input: "evil\x1b[31mred\x1b[0m",
			want:  "evilred",
		},
		{
			name:  "OSC title sequence stripped",
			input: "pkg\x1b]0;owned\x07name",
			want:  "pkgname",
		},
		{
			name:  "newlines become spaces",
			input: "line1\nline2\r\nline3",
			want:  "line1 line2  line3",
		},
		{
			name:  "tab becomes space",
			input: "a\tb",
			want:  "a b",
		},
		{
			name:  "other control characters dropped",
			input: "a\x00b\x08c\x7fd",
			want:  "abcd",
		},
		{
			name:  "unicode survives",
			input: "パッケージ MIT",
			want:  "パッケージ MIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitizeHandler tests that the handler sanitizes records end to end.
func TestSanitizeHandler(t *testing.T) {
	t.Parallel()

	t.Run("attribute values are sanitized", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewSanitizeHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("loaded package", "package", "bad\x1b[2Jname")

		output := buf.String()
		if strings.Contains(output, "\x1b") {
			t.Error("expected escape sequence to be stripped from output")
		}
		if !strings.Contains(output, "badname") {
			t.Errorf("expected sanitized value in output, got %q", output)
		}
	})

	t.Run("message is sanitized", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewSanitizeHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("fake\nINFO forged line")

		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected single log line, got %q", buf.String())
		}
	})

	t.Run("grouped attributes are sanitized", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewSanitizeHandler(slog.NewTextHandler(&buf, nil)))

		logger.With(slog.Group("input", slog.String("file", "x\x1b[1my"))).Info("reading")

		if strings.Contains(buf.String(), "\x1b") {
			t.Error("expected escape sequence in group attr to be stripped")
		}
	})

	t.Run("non-string attributes pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(NewSanitizeHandler(slog.NewTextHandler(&buf, nil)))

		logger.Info("counts", "rows", 42)

		if !strings.Contains(buf.String(), "rows=42") {
			t.Errorf("expected numeric attr in output, got %q", buf.String())
		}
	})
}

// TestNewLogger tests log level selection.
func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses debug and info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")

		output := buf.String()
		if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
			t.Errorf("expected only warnings, got %q", output)
		}
		if !strings.Contains(output, "warn message") {
			t.Errorf("expected warning in output, got %q", output)
		}
	})

	t.Run("verbose level includes debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug message")

		if !strings.Contains(buf.String(), "debug message") {
			t.Errorf("expected debug message in verbose output, got %q", buf.String())
		}
	})
}
