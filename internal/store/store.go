// Package store handles SQLite persistence of typing sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/barkeep/internal/wpm"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for typing session data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS typing_sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			chars INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_sessions_ended_at ON typing_sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Filter narrows ListSessions results.
type Filter struct {
	// Since keeps sessions that ended at or after this time.
	Since *time.Time
	// Last keeps only the N most recent sessions; zero keeps all.
	Last int
}

// Record is one persisted typing session.
type Record struct {
	ID        int64
	StartedAt time.Time
	EndedAt   time.Time
	Chars     int
	Duration  time.Duration
}

// WPM returns the session's words-per-minute figure.
func (r Record) WPM() float64 {
	return wpm.Session{StartedAt: r.StartedAt, Duration: r.Duration, Chars: r.Chars}.WPM()
}

// InsertSession stores one closed typing session.
func (s *Store) InsertSession(ctx context.Context, sess wpm.Session) (int64, error) {
	endedAt := sess.StartedAt.Add(sess.Duration)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO typing_sessions (started_at, ended_at, chars, duration_ms)
		 VALUES (?, ?, ?, ?)`,
		sess.StartedAt.Format(time.RFC3339Nano),
		endedAt.Format(time.RFC3339Nano),
		sess.Chars,
		sess.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns sessions matching the filter, oldest first.
func (s *Store) ListSessions(ctx context.Context, f Filter) ([]Record, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, f.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, chars, duration_ms
		FROM typing_sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt, endedAt string
		var durationMs int64
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.Chars, &durationMs); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if f.Last > 0 && len(records) > f.Last {
		records = records[len(records)-f.Last:]
	}
	return records, nil
}

// DeleteAll removes every stored session and returns the count removed.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM typing_sessions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
