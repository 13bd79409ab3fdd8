// Package database provides SQLite-based storage for generation history.
//
// This package implements the HistoryDB, which stores:
//   - One run record per report generation with row counts and metadata
//   - The normalized package list of each run for diffing
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Packages are stored as rows rather than a JSON blob so run comparison
// can be expressed as straightforward keyed lookups.
package database
