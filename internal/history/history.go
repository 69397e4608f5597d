package history

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/remindme/internal/form"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Record is one settled submission.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	TimeStr     string    `json:"timeStr"`
	Status      string    `json:"status"`
	Response    string    `json:"response,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
	SettledAt   time.Time `json:"settledAt"`
}

// Store persists submission records.
type Store interface {
	Append(ctx context.Context, record Record) error
	// Recent returns up to n records, newest first.
	Recent(ctx context.Context, n int) ([]Record, error)
	Close() error
}

// NewRecord starts a record for a request that is about to be sent.
func NewRecord(req form.Request, submittedAt time.Time) Record {
	return Record{
		ID:          uuid.NewString(),
		Title:       req.Title,
		TimeStr:     req.TimeStr,
		SubmittedAt: submittedAt,
	}
}

// Settle fills in the outcome of the request.
func (r Record) Settle(resp form.Response, err error, settledAt time.Time) Record {
	r.SettledAt = settledAt
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
		r.Response = ""
		return r
	}
	r.Status = StatusSucceeded
	r.Response = resp.Text
	r.Error = ""
	return r
}

// Duration reports how long the request took to settle.
func (r Record) Duration() time.Duration {
	if r.SettledAt.IsZero() {
		return 0
	}
	return r.SettledAt.Sub(r.SubmittedAt)
}

// Open picks a backend from the file extension: SQLite for .db, .sqlite and
// .sqlite3, a JSON file otherwise.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return NewFileStore(path), nil
	}
}
