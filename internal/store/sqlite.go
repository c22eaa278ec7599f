package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tatianab/life-narrator/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	snapshot   BLOB NOT NULL,
	turn_count INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite stores the snapshot as one row of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	db, err := sql.Open("sqlite", cleanPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context) (models.GameState, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM saves WHERE slot = ?`, Slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameState{}, ErrNoSave
	}
	if err != nil {
		return models.GameState{}, fmt.Errorf("load snapshot: %w", err)
	}
	return models.DecodeSnapshot(data)
}

// Save upserts the snapshot row; a single statement is atomic in SQLite.
func (s *SQLite) Save(ctx context.Context, state models.GameState) error {
	data, err := models.EncodeSnapshot(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, snapshot, turn_count, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   snapshot = excluded.snapshot,
		   turn_count = excluded.turn_count,
		   updated_at = excluded.updated_at`,
		Slot, data, state.TurnCount, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, Slot); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

func (s *SQLite) HasSave(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saves WHERE slot = ?`, Slot).Scan(&n); err != nil {
		return false, fmt.Errorf("check snapshot: %w", err)
	}
	return n > 0, nil
}
