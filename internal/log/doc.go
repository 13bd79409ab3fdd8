// Package log provides logging utilities built on top of the standard slog
// package.
//
// Log attribute values in this tool frequently come from third-party
// dependency manifests: package names, license strings, and versions are
// whatever the upstream ecosystems published. A malicious or broken package
// name can embed ANSI escape sequences or other control characters that
// corrupt terminal output or spoof log lines. The SanitizeHandler strips
// such sequences from every attribute value before it reaches the
// underlying handler.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("package has no license",
//	    "package", pkgName, // control characters are stripped
//	)
//	slog.SetDefault(logger)
package log
