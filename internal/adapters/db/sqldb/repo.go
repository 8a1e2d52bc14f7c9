package sqldb

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Fixed-width UTC timestamps so string columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}

// Repo provides a base for Squirrel-based repositories.
type Repo struct {
	DB      *sql.DB
	SQ      sq.StatementBuilderType
	Dialect Dialect
	now     func() time.Time
}

func NewRepo(db *sql.DB, dialect Dialect) *Repo {
	return &Repo{DB: db, SQ: sq.StatementBuilder, Dialect: dialect, now: time.Now}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// upsertSuffix renders the dialect's insert-or-update clause for a unique key.
func (r *Repo) upsertSuffix(key []string, update ...string) string {
	sets := make([]string, len(update))
	for i, c := range update {
		if r.Dialect == MySQL {
			sets[i] = c + "=VALUES(" + c + ")"
		} else {
			sets[i] = c + "=excluded." + c
		}
	}
	if r.Dialect == MySQL {
		return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	return "ON CONFLICT(" + strings.Join(key, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
}
