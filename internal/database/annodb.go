package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/annoview/annoview/internal/model"
)

// dbFileName is the SQLite database filename inside the database directory.
const dbFileName = "annoview.db"

// ExtractionDB provides SQLite-based storage for extraction runs.
// It manages connection pooling and provides methods for saving and
// querying run history.
type ExtractionDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Run is one saved extraction run.
type Run struct {
	// ID is the run's database identifier.
	ID int64

	// SourceDir is the annotation directory the run was loaded from.
	SourceDir string

	// Records is the number of records loaded in the run.
	Records int

	// CreatedAt is when the run was saved.
	CreatedAt time.Time
}

// Options configures ExtractionDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
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

// Open opens or creates an ExtractionDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*ExtractionDB, error) {
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

	// SQLite only supports one writer; multiple connections buy nothing
	// for this workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	edb := &ExtractionDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := edb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return edb, nil
}

// Close closes the database connection.
func (edb *ExtractionDB) Close() error {
	return edb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (edb *ExtractionDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_dir TEXT NOT NULL,
		records INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		record_id INTEGER NOT NULL,
		label TEXT NOT NULL,
		value TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_extractions_run ON extractions(run_id);
	`
	_, err := edb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun persists one extraction run and its long-form rows.
// The whole run is written in one transaction so a failure leaves no
// half-saved history. Returns the new run's identifier.
func (edb *ExtractionDB) SaveRun(ctx context.Context, sourceDir string, recordCount int, rows []model.LongRow) (int64, error) {
	tx, err := edb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO runs (source_dir, records, created_at) VALUES (?, ?, ?)",
		sourceDir, recordCount, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO extractions (run_id, record_id, label, value, position) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare extraction insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, row.ID, row.Name, row.Value, i); err != nil {
			return 0, fmt.Errorf("failed to insert extraction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// Runs returns all saved runs, newest first.
func (edb *ExtractionDB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := edb.db.QueryContext(ctx,
		"SELECT id, source_dir, records, created_at FROM runs ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.SourceDir, &r.Records, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", createdAt, err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Extractions returns the long-form rows saved for a run, in saved order.
func (edb *ExtractionDB) Extractions(ctx context.Context, runID int64) ([]model.LongRow, error) {
	rows, err := edb.db.QueryContext(ctx,
		"SELECT record_id, label, value FROM extractions WHERE run_id = ? ORDER BY position",
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query extractions for run %d: %w", runID, err)
	}
	defer rows.Close()

	var long []model.LongRow
	for rows.Next() {
		var lr model.LongRow
		if err := rows.Scan(&lr.ID, &lr.Name, &lr.Value); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		long = append(long, lr)
	}

	return long, rows.Err()
}
