// Package model defines the data structures for license report generation.
// It contains the tabular representation of dependency inputs, the report
// accumulator filled in by pipeline steps, and the summary derived from it.
package model
