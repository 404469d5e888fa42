// Package report keeps a SQLite record of processing runs: which files were fixed,
// whether they parsed cleanly, and every diagnostic raised along the way.
package report

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/QEStudios/ChartTidy/chart"
)

type SQLiteStore struct {
	db *sql.DB
}

// The outcome of processing one input file.
type FileResult struct {
	Path        string
	OK          bool
	Notes       int
	Err         string // Set when the file couldn't be read or written.
	Diagnostics []chart.Diagnostic
}

// A stored file row.
type FileRecord struct {
	ID     int64
	RunID  string
	Path   string
	OK     bool
	Notes  int
	Err    string
	Errors int // Error-severity diagnostics.
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening report database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report tables: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func createTables(db *sql.DB) error {
	createRunsTable := `
    CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        started INTEGER NOT NULL
    );
    `

	createFilesTable := `
    CREATE TABLE IF NOT EXISTS files (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        runID TEXT NOT NULL,
        path TEXT NOT NULL,
        ok INTEGER NOT NULL,
        notes INTEGER NOT NULL,
        err TEXT NOT NULL
    );
    `

	createDiagnosticsTable := `
    CREATE TABLE IF NOT EXISTS diagnostics (
        fileID INTEGER NOT NULL,
        severity TEXT NOT NULL,
        line INTEGER NOT NULL,
        section TEXT NOT NULL,
        tick INTEGER,
        message TEXT NOT NULL
    );
    `

	for name, stmt := range map[string]string{
		"runs":        createRunsTable,
		"files":       createFilesTable,
		"diagnostics": createDiagnosticsTable,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating %s table: %w", name, err)
		}
	}
	return nil
}

// StartRun records a new run and returns its ID.
func (s *SQLiteStore) StartRun() (string, error) {
	id := uuid.NewString()
	if _, err := s.db.Exec("INSERT INTO runs (id, started) VALUES (?, ?)", id, time.Now().Unix()); err != nil {
		return "", fmt.Errorf("adding run: %w", err)
	}
	return id, nil
}

// AddFile stores one file result and its diagnostics in a single transaction.
func (s *SQLiteStore) AddFile(runID string, res FileResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}

	result, err := tx.Exec("INSERT INTO files (runID, path, ok, notes, err) VALUES (?, ?, ?, ?, ?)",
		runID, res.Path, res.OK, res.Notes, res.Err)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("adding file: %w", err)
	}
	fileID, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("getting file ID: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO diagnostics (fileID, severity, line, section, tick, message) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range res.Diagnostics {
		var tick sql.NullInt64
		if d.HasTime {
			tick = sql.NullInt64{Int64: int64(d.Time), Valid: true}
		}
		if _, err := stmt.Exec(fileID, d.Severity.String(), d.Line, d.Section, tick, d.Message); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("adding diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing file: %w", err)
	}
	return fileID, nil
}

// Files returns every file stored for a run, in the order they were added.
func (s *SQLiteStore) Files(runID string) ([]FileRecord, error) {
	rows, err := s.db.Query(`
		SELECT f.id, f.runID, f.path, f.ok, f.notes, f.err,
			(SELECT COUNT(*) FROM diagnostics d WHERE d.fileID = f.id AND d.severity = ?)
		FROM files f
		WHERE f.runID = ?
		ORDER BY f.id
	`, chart.SeverityError.String(), runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.RunID, &f.Path, &f.OK, &f.Notes, &f.Err, &f.Errors); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Messages returns the diagnostic messages stored for a file.
func (s *SQLiteStore) Messages(fileID int64) ([]string, error) {
	rows, err := s.db.Query("SELECT message FROM diagnostics WHERE fileID = ? ORDER BY rowid", fileID)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var messages []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
