// Package history records scored articles per user and answers per-user
// queries and aggregates. SQLite, PostgreSQL and Redis backends share the
// Store interface.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veritas/news-classifier/pkg/config"
	"github.com/veritas/news-classifier/pkg/learning"
)

// TimestampLayout is the persisted timestamp format
const TimestampLayout = "2006-01-02 15:04:05"

var ErrInvalidRecord = errors.New("invalid history record")

// Record is a scored article to append. A zero Timestamp means now.
type Record struct {
	Username  string
	Title     string
	Author    string
	Text      string
	Result    string
	Timestamp time.Time
}

// Entry is a stored record
type Entry struct {
	ID        int64
	Username  string
	Title     string
	Author    string
	Text      string
	Result    string
	Timestamp string
}

// Summary counts a user's predictions
type Summary struct {
	Total int
	Fake  int
	Real  int
}

// Store persists prediction history
type Store interface {
	// Append stores one record
	Append(ctx context.Context, rec Record) error
	// Query returns the user's records, most recent first
	Query(ctx context.Context, username string) ([]Entry, error)
	// Aggregate counts the user's records by result
	Aggregate(ctx context.Context, username string) (Summary, error)
	Close() error
}

// Open creates the store selected by cfg.Backend
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return OpenSQLite(ctx, cfg.SQLite.Path)
	case "postgres":
		return OpenPostgres(ctx, cfg.Postgres)
	case "redis":
		return OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.Backend)
	}
}

// prepare validates rec and returns its formatted timestamp
func prepare(rec Record) (string, error) {
	if strings.TrimSpace(rec.Username) == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidRecord)
	}
	if rec.Result != learning.LabelFake && rec.Result != learning.LabelReal {
		return "", fmt.Errorf("%w: result must be %s or %s, got %q",
			ErrInvalidRecord, learning.LabelFake, learning.LabelReal, rec.Result)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.Format(TimestampLayout), nil
}
