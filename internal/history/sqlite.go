package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	title TEXT NOT NULL,
	time_str TEXT NOT NULL,
	status TEXT NOT NULL,
	response TEXT,
	error TEXT,
	submitted_at DATETIME NOT NULL,
	settled_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_submissions_submitted ON submissions(submitted_at);
`

// SQLiteStore keeps records in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, title, time_str, status, response, error, submitted_at, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Title, r.TimeStr, r.Status, r.Response, r.Error, r.SubmittedAt, r.SettledAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, n int) ([]Record, error) {
	query := `
		SELECT id, title, time_str, status, response, error, submitted_at, settled_at
		FROM submissions
		ORDER BY seq DESC
	`
	args := []any{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var response, errText sql.NullString
		var settledAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Title, &r.TimeStr, &r.Status, &response, &errText, &r.SubmittedAt, &settledAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		r.Response = response.String
		r.Error = errText.String
		if settledAt.Valid {
			r.SettledAt = settledAt.Time
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
