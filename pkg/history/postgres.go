package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/veritas/news-classifier/pkg/config"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS history (
	id BIGSERIAL PRIMARY KEY,
	username TEXT,
	title TEXT,
	author TEXT,
	"text" TEXT,
	result TEXT,
	"timestamp" TEXT
)`

const postgresIndex = `CREATE INDEX IF NOT EXISTS idx_history_username ON history (username, "timestamp")`

// PostgresStore keeps history in a shared PostgreSQL database
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects and creates the table if absent
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("history: open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping postgres: %w", err)
	}

	for _, stmt := range []string{postgresSchema, postgresIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: init schema: %w", err)
		}
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	ts, err := prepare(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (username, title, author, "text", result, "timestamp") VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.Username, rec.Title, rec.Author, rec.Text, rec.Result, ts)
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, username string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, title, author, "text", result, "timestamp" FROM history
		 WHERE username = $1 ORDER BY "timestamp" DESC, id DESC`, username)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) Aggregate(ctx context.Context, username string) (Summary, error) {
	return aggregateSQL(ctx, s.db,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE result = 'FAKE'),
		        COUNT(*) FILTER (WHERE result = 'REAL')
		 FROM history WHERE username = $1`, username)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
