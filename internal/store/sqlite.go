package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSlot is the save slot the game uses.
const DefaultSlot = "default"

// Migrations returns the schema statements, one per Exec.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot       TEXT PRIMARY KEY,
			data       BLOB NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	}
}

// SQLiteStore keeps saves in an SQLite database, one row per slot.
type SQLiteStore struct {
	db   *sql.DB
	slot string
}

func OpenSQLite(path, slot string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("store: empty database path")
	}
	if slot == "" {
		slot = DefaultSlot
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return &SQLiteStore{db: db, slot: slot}, nil
}

func (s *SQLiteStore) Load() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM saves WHERE slot = ?`, s.slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save: %w", err)
	}
	return data, nil
}

func (s *SQLiteStore) Save(data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO saves (slot, data, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(slot) DO UPDATE SET
			data       = excluded.data,
			updated_at = datetime('now')
	`, s.slot, data)
	if err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// UpdatedAt reports when the slot was last written, in UTC.
func (s *SQLiteStore) UpdatedAt() (time.Time, error) {
	var raw string
	err := s.db.QueryRow(`SELECT updated_at FROM saves WHERE slot = ?`, s.slot).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoSave
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read save time: %w", err)
	}
	return time.Parse(time.DateTime, raw)
}

func (s *SQLiteStore) Delete() error {
	if _, err := s.db.Exec(`DELETE FROM saves WHERE slot = ?`, s.slot); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
