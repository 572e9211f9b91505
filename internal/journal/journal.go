// Package journal keeps an append-only history of status changes in SQLite.
//
// A Journal is attached to a status.Manager as its Observer. Recording is
// best-effort: a failed insert is logged and never fails the status write
// that triggered it.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/yinwm/vibedevtools/internal/logger"
	"github.com/yinwm/vibedevtools/internal/status"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DefaultFile is the journal database name inside the specs root.
const DefaultFile = "_journal.db"

// DefaultHistoryLimit caps History when the caller passes no limit.
const DefaultHistoryLimit = 20

// Entry is one recorded status change.
type Entry struct {
	ID            int64  `json:"id" yaml:"id"`
	SessionID     string `json:"session_id" yaml:"session_id"`
	Name          string `json:"name" yaml:"name"`
	Kind          string `json:"kind" yaml:"kind"`
	Stage         string `json:"stage" yaml:"stage"`
	OverallStatus string `json:"overall_status" yaml:"overall_status"`
	Detail        string `json:"detail,omitempty" yaml:"detail,omitempty"`
	At            string `json:"at" yaml:"at"`
}

// Journal is the SQLite-backed status history.
type Journal struct {
	db   *sql.DB
	path string
}

// Open creates the parent directory if needed, opens the database with WAL
// mode and runs migrations.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	j := &Journal{db: db, path: path}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return j, nil
}

// Path returns the database file location.
func (j *Journal) Path() string { return j.path }

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id     TEXT NOT NULL,
			name           TEXT NOT NULL,
			kind           TEXT NOT NULL,
			stage          TEXT NOT NULL,
			overall_status TEXT NOT NULL,
			detail         TEXT NOT NULL DEFAULT '',
			at             TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record inserts one event.
func (j *Journal) Record(ev status.Event) error {
	_, err := j.db.Exec(
		`INSERT INTO events (session_id, name, kind, stage, overall_status, detail, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.SessionID, ev.Name, string(ev.Kind), string(ev.Stage), string(ev.OverallStatus), ev.Detail, ev.At,
	)
	if err != nil {
		return fmt.Errorf("journal: insert %s event: %w", ev.Kind, err)
	}
	return nil
}

// OnStatusChange implements status.Observer.
func (j *Journal) OnStatusChange(ev status.Event) {
	if err := j.Record(ev); err != nil {
		logger.Warn("%v", err)
	}
}

// History returns the newest events for a session, newest first. An empty
// session id returns events across all sessions.
func (j *Journal) History(sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `SELECT id, session_id, name, kind, stage, overall_status, detail, at FROM events`
	args := []any{}
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &e.Kind, &e.Stage, &e.OverallStatus, &e.Detail, &e.At); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
