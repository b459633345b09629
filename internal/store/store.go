// Package store handles SQLite persistence of the session audit log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/keiyara/memotype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and attempt history.
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
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			mode TEXT NOT NULL,
			items_studied INTEGER NOT NULL,
			correct_items INTEGER NOT NULL,
			accuracy_sum REAL NOT NULL,
			wpm_sum REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			session_id INTEGER NOT NULL,
			item_id TEXT NOT NULL,
			accuracy REAL NOT NULL,
			wpm REAL NOT NULL,
			time_taken_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session_id ON attempts(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_item_id ON attempts(item_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed session and its attempts in one transaction.
func (s *Store) InsertSession(ctx context.Context, record model.SessionRecord, attempts []model.AttemptLog) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, mode, items_studied, correct_items, accuracy_sum, wpm_sum)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.StartedAt.Format(time.RFC3339Nano),
		record.EndedAt.Format(time.RFC3339Nano),
		record.Mode,
		record.ItemsStudied,
		record.CorrectItems,
		record.AccuracySum,
		record.WPMSum,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(attempts) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO attempts (session_id, item_id, accuracy, wpm, time_taken_ms, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, a := range attempts {
			if _, err := stmt.ExecContext(ctx, id, a.ItemID, a.Accuracy, a.WPM, a.TimeTakenMs, a.RecordedAt.Format(time.RFC3339Nano)); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by report config.
func (s *Store) ListSessions(ctx context.Context, cfg model.ReportConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, mode, items_studied, correct_items, accuracy_sum, wpm_sum
		FROM sessions
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

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Mode, &agg.ItemsStudied, &agg.CorrectItems, &agg.AccuracySum, &agg.WPMSum); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListItemAggregates aggregates attempt stats per item across the given sessions.
func (s *Store) ListItemAggregates(ctx context.Context, sessionIDs []int64) ([]model.ItemAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT item_id, COUNT(*) AS attempts, SUM(accuracy) AS accuracy_sum,
		SUM(wpm) AS wpm_sum, MAX(recorded_at) AS last_attempt
		FROM attempts
		WHERE session_id IN (%s)
		GROUP BY item_id`, strings.Join(placeholders, ","))
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

	var result []model.ItemAggregate
	for rows.Next() {
		var agg model.ItemAggregate
		var lastAttempt string
		if err := rows.Scan(&agg.ItemID, &agg.Attempts, &agg.AccuracySum, &agg.WPMSum, &lastAttempt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, lastAttempt)
		if err != nil {
			return nil, err
		}
		agg.LastAttempt = parsed
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
