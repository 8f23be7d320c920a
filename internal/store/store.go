// Package store handles SQLite persistence of the transmission history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for transmission history.
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
		`CREATE TABLE IF NOT EXISTS transmissions (
			id INTEGER PRIMARY KEY,
			sent_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			text TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			calibration REAL NOT NULL,
			chars INTEGER NOT NULL,
			keyed_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			completed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_transmissions_sent_at ON transmissions(sent_at);`,
		`CREATE INDEX IF NOT EXISTS idx_transmissions_kind ON transmissions(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordTransmission stores one keyed message.
func (s *Store) RecordTransmission(ctx context.Context, tx model.Transmission) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transmissions (sent_at, kind, text, wpm, calibration, chars, keyed_ms, duration_ms, completed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.SentAt.Format(time.RFC3339Nano),
		string(tx.Kind),
		tx.Text,
		tx.WPM,
		tx.Calibration,
		tx.Chars,
		tx.KeyedMs,
		tx.DurationMs,
		boolToInt(tx.Completed),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTransmissions returns transmissions oldest first, filtered by cfg.
// cfg.Last keeps only the most recent N rows.
func (s *Store) ListTransmissions(ctx context.Context, cfg model.HistoryConfig) ([]model.TransmissionRow, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(cfg.Kind))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "sent_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, sent_at, kind, text, wpm, calibration, chars, keyed_ms, duration_ms, completed
		FROM (
			SELECT * FROM transmissions
			WHERE %s
			ORDER BY sent_at DESC, id DESC
			LIMIT ?
		)
		ORDER BY sent_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var result []model.TransmissionRow
	for rows.Next() {
		var row model.TransmissionRow
		var sentAt, kind string
		var completed int
		if err := rows.Scan(&row.ID, &sentAt, &kind, &row.Text, &row.WPM, &row.Calibration,
			&row.Chars, &row.KeyedMs, &row.DurationMs, &completed); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, sentAt)
		if err != nil {
			return nil, err
		}
		row.SentAt = parsed
		row.Kind = model.Kind(kind)
		row.Completed = completed != 0
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AggregateByKind sums transmissions per kind for the filtered range.
func (s *Store) AggregateByKind(ctx context.Context, cfg model.HistoryConfig) ([]model.KindAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(cfg.Kind))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "sent_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT kind, COUNT(*), SUM(chars), SUM(keyed_ms), SUM(duration_ms)
		FROM transmissions
		WHERE %s
		GROUP BY kind
		ORDER BY kind`, strings.Join(clauses, " AND "))
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

	var result []model.KindAggregate
	for rows.Next() {
		var agg model.KindAggregate
		var kind string
		if err := rows.Scan(&kind, &agg.Count, &agg.Chars, &agg.KeyedMs, &agg.DurationMs); err != nil {
			return nil, err
		}
		agg.Kind = model.Kind(kind)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
