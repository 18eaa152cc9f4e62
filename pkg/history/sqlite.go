package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT,
	title TEXT,
	author TEXT,
	text TEXT,
	result TEXT,
	timestamp TEXT
)`

const sqliteIndex = `CREATE INDEX IF NOT EXISTS idx_history_username ON history (username, timestamp)`

// SQLiteStore keeps history in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens path, creating the file and table if absent
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite: %w", err)
	}
	// One connection serialises writers within the process
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", sqliteSchema, sqliteIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: init schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	ts, err := prepare(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (username, title, author, text, result, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Username, rec.Title, rec.Author, rec.Text, rec.Result, ts)
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, username string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, title, author, text, result, timestamp FROM history
		 WHERE username = ? ORDER BY timestamp DESC, id DESC`, username)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *SQLiteStore) Aggregate(ctx context.Context, username string) (Summary, error) {
	return aggregateSQL(ctx, s.db,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN result = 'FAKE' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN result = 'REAL' THEN 1 ELSE 0 END), 0)
		 FROM history WHERE username = ?`, username)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, author, text sql.NullString
		if err := rows.Scan(&e.ID, &e.Username, &title, &author, &text, &e.Result, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Title, e.Author, e.Text = title.String, author.String, text.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate: %w", err)
	}
	return entries, nil
}

func aggregateSQL(ctx context.Context, db *sql.DB, query, username string) (Summary, error) {
	var sum Summary
	if err := db.QueryRowContext(ctx, query, username).Scan(&sum.Total, &sum.Fake, &sum.Real); err != nil {
		return Summary{}, fmt.Errorf("history: aggregate: %w", err)
	}
	return sum, nil
}

var _ Store = (*SQLiteStore)(nil)
