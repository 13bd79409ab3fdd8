// Package config provides configuration structures and utilities for the
// license report generator. It defines defaults for the input and output
// file names, worksheet names, and report generation behavior, plus the
// optional YAML configuration file loader.
package config
