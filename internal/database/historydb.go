package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/oss-compliance/license-report/internal/model"
)

// dbFileName is the database file created inside the data directory.
const dbFileName = "license-report.db"

// HistoryDB provides SQLite-based storage for report generation history.
// It manages connection pooling and provides methods for saving runs,
// listing them, and comparing the packages of two runs.
//
// Design decision: We use a single database file for all source directories
// rather than one file per directory. This keeps listing and cross-run
// comparison in one place and simplifies backup.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one record per report generation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_dir TEXT NOT NULL,
		output_path TEXT NOT NULL,
		generated_at DATETIME NOT NULL,
		nuget_rows INTEGER NOT NULL DEFAULT 0,
		rush_rows INTEGER NOT NULL DEFAULT 0,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source_dir ON runs(source_dir);
	CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);

	-- Packages store the normalized dependency list of each run
	CREATE TABLE IF NOT EXISTS packages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source TEXT NOT NULL,
		name TEXT NOT NULL,
		version TEXT,
		license TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_packages_run ON packages(run_id);
	CREATE INDEX IF NOT EXISTS idx_packages_name ON packages(name);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run represents a stored report generation run.
type Run struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// SourceDir is the directory the inputs were read from.
	SourceDir string

	// OutputPath is the workbook the run produced.
	OutputPath string

	// GeneratedAt is when the run started.
	GeneratedAt time.Time

	// NuGetRows and RushRows are the data row counts per sheet.
	NuGetRows int
	RushRows  int

	// Error is the failure message, empty for successful runs.
	Error string
}

// SaveRun stores a completed report and its package list, and returns the
// run ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.LicenseReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (source_dir, output_path, generated_at, nuget_rows, rush_rows, error)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		report.SourceDir,
		report.OutputPath,
		report.GeneratedAt.UTC().Format(time.RFC3339),
		report.NuGet.RowCount(),
		report.Rush.RowCount(),
		report.ErrorMessage,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO packages (run_id, source, name, version, license)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare package insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck // Read-only cleanup

	for _, pkg := range report.Packages() {
		if _, err := stmt.ExecContext(ctx, runID, string(pkg.Source), pkg.Name, pkg.Version, pkg.License); err != nil {
			return 0, fmt.Errorf("failed to insert package %s: %w", pkg.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns stored runs, newest first. When sourceDir is non-empty,
// only runs for that directory are returned. A limit of 0 returns all runs.
func (hdb *HistoryDB) ListRuns(ctx context.Context, sourceDir string, limit int) ([]Run, error) {
	query := `
	SELECT id, source_dir, output_path, generated_at, nuget_rows, rush_rows, COALESCE(error, '')
	FROM runs
	`
	args := make([]any, 0, 2)

	if sourceDir != "" {
		query += " WHERE source_dir = ?"
		args = append(args, sourceDir)
	}
	query += " ORDER BY generated_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var generatedAt string

		if err := rows.Scan(&run.ID, &run.SourceDir, &run.OutputPath, &generatedAt, &run.NuGetRows, &run.RushRows, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.GeneratedAt = parseTimestamp(generatedAt)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListSourceDirs returns every source directory that has at least one run.
func (hdb *HistoryDB) ListSourceDirs(ctx context.Context) ([]string, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT DISTINCT source_dir FROM runs
	ORDER BY source_dir
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list source directories: %w", err)
	}
	defer rows.Close()

	var dirs []string
	for rows.Next() {
		var dir string
		if err := rows.Scan(&dir); err != nil {
			return nil, fmt.Errorf("failed to scan source directory: %w", err)
		}
		dirs = append(dirs, dir)
	}

	return dirs, rows.Err()
}

// GetRun retrieves a run by ID. Returns nil when the run does not exist.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	var run Run
	var generatedAt string

	err := hdb.db.QueryRowContext(ctx, `
	SELECT id, source_dir, output_path, generated_at, nuget_rows, rush_rows, COALESCE(error, '')
	FROM runs
	WHERE id = ?
	`, id).Scan(&run.ID, &run.SourceDir, &run.OutputPath, &generatedAt, &run.NuGetRows, &run.RushRows, &run.Error)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.GeneratedAt = parseTimestamp(generatedAt)
	return &run, nil
}

// GetPackages retrieves the package list stored for a run.
func (hdb *HistoryDB) GetPackages(ctx context.Context, runID int64) ([]model.Package, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT source, name, COALESCE(version, ''), COALESCE(license, '')
	FROM packages
	WHERE run_id = ?
	ORDER BY source, name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get packages: %w", err)
	}
	defer rows.Close()

	var packages []model.Package
	for rows.Next() {
		var pkg model.Package
		var source string
		if err := rows.Scan(&source, &pkg.Name, &pkg.Version, &pkg.License); err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		pkg.Source = model.Source(source)
		packages = append(packages, pkg)
	}

	return packages, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // Storage format used by SaveRun
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
