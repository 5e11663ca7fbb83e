// Package journal persists per-run outcomes of bulk operations to a
// local sqlite file. Bulk migrations run for a long time and tolerate
// per-run failures, so a durable record of what failed is the only way
// to know what to re-run afterwards.
package journal

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS bulk_outcome (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	operation TEXT NOT NULL,
	run_id TEXT NOT NULL,
	ok INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS bulk_outcome_operation ON bulk_outcome (operation);
`

type Journal struct {
	db *sql.DB
}

// Open opens (or creates) a journal database. Use ":memory:" in tests.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one per-run outcome under an operation label.
func (j *Journal) Record(ctx context.Context, operation, runID string, runErr error) error {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	_, err := j.db.ExecContext(
		ctx,
		`INSERT INTO bulk_outcome (operation, run_id, ok, error, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		operation, runID, runErr == nil, errText, time.Now().Unix(),
	)
	return err
}

type Entry struct {
	Operation string
	RunID     string
	OK        bool
	Error     string
	CreatedAt time.Time
}

// Entries returns every recorded outcome for an operation, oldest first.
func (j *Journal) Entries(ctx context.Context, operation string) ([]Entry, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT operation, run_id, ok, error, created_at
		FROM bulk_outcome WHERE operation = ? ORDER BY id ASC`,
		operation,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var createdAt int64
		err := rows.Scan(&e.Operation, &e.RunID, &e.OK, &e.Error, &createdAt)
		if err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}
