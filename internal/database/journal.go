package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"archivedoc/internal/model"
)

// journalFileName is the name of the SQLite file inside the journal
// directory.
const journalFileName = "archivedoc.db"

// Journal provides SQLite-based storage for crawl observability data.
// Every processed URL is recorded with its outcome; nothing is ever
// read back during a crawl.
type Journal struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Journal behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for cheaper writes.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default journal options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Journal in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Journal, error) {
	dbPath := filepath.Join(dbDir, journalFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("journal not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check journal path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer, and the crawl is single-threaded
	// anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := j.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return j, nil
}

// Path returns the path to the SQLite database file.
func (j *Journal) Path() string {
	return j.dbPath
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// createTables creates the journal schema if it doesn't exist.
func (j *Journal) createTables() error {
	schema := `
	-- Page records store one row per processed URL
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		original_url TEXT,
		outcome TEXT NOT NULL,
		status_code INTEGER,
		content_hash TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_outcome ON pages(outcome);
	CREATE INDEX IF NOT EXISTS idx_pages_original ON pages(original_url);
	`

	_, err := j.db.ExecContext(context.Background(), schema)
	return err
}

// PageRecord represents one processed URL.
type PageRecord struct {
	ID          int64
	URL         string
	OriginalURL string
	Outcome     model.Outcome
	StatusCode  int
	ContentHash string
	FetchedAt   time.Time
}

// RecordPage inserts or updates the record for a processed URL.
// Uses UPSERT so re-recording a URL keeps one row with the latest
// outcome.
func (j *Journal) RecordPage(ctx context.Context, record *PageRecord) error {
	query := `
	INSERT INTO pages (url, original_url, outcome, status_code, content_hash)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		original_url = excluded.original_url,
		outcome = excluded.outcome,
		status_code = excluded.status_code,
		content_hash = excluded.content_hash,
		fetched_at = CURRENT_TIMESTAMP
	`

	_, err := j.db.ExecContext(ctx, query,
		record.URL,
		record.OriginalURL,
		record.Outcome.String(),
		record.StatusCode,
		record.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("failed to record page: %w", err)
	}
	return nil
}

// GetPage retrieves the record for a URL, or nil if none exists.
func (j *Journal) GetPage(ctx context.Context, url string) (*PageRecord, error) {
	query := `
	SELECT id, url, original_url, outcome, status_code, content_hash, fetched_at
	FROM pages
	WHERE url = ?
	`

	var record PageRecord
	var outcome string
	var fetchedAt string

	err := j.db.QueryRowContext(ctx, query, url).Scan(
		&record.ID,
		&record.URL,
		&record.OriginalURL,
		&outcome,
		&record.StatusCode,
		&record.ContentHash,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page record: %w", err)
	}

	record.Outcome = parseOutcome(outcome)
	record.FetchedAt = parseTimestamp(fetchedAt)
	return &record, nil
}

// PageCount returns the number of recorded pages.
func (j *Journal) PageCount(ctx context.Context) (int, error) {
	var count int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// OutcomeCounts aggregates recorded pages by outcome.
func (j *Journal) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT outcome, COUNT(*) FROM pages GROUP BY outcome ORDER BY outcome")
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		counts[outcome] = count
	}

	return counts, rows.Err()
}

// parseOutcome maps a stored outcome string back to its model value.
// Unknown strings map to an out-of-range value whose String() is
// "unknown".
func parseOutcome(s string) model.Outcome {
	for _, o := range []model.Outcome{
		model.OutcomeAccepted,
		model.OutcomeDuplicateExact,
		model.OutcomeDuplicateOriginal,
		model.OutcomeDuplicateContent,
		model.OutcomeMalformedURL,
		model.OutcomeFetchFailed,
		model.OutcomeNoContent,
	} {
		if o.String() == s {
			return o
		}
	}
	return model.Outcome(-1)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
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
