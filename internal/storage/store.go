// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local settings for the nanochat client.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// KEYS
// =============================================================================

// Namespaced setting keys. The endpoint record and the theme preference
// live in separate namespaces so they can never collide.
const (
	keyCustomEndpoint = "endpoint/custom"
	keyTheme          = "ui/theme"
)

// ErrDatabaseError indicates a settings database failure.
var ErrDatabaseError = errors.New("settings database error")

// =============================================================================
// ENDPOINT RECORD
// =============================================================================

// EndpointRecord is the persisted custom endpoint configuration.
type EndpointRecord struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Model  string `json:"model"`
	Preset string `json:"preset,omitempty"`
}

// =============================================================================
// STORE
// =============================================================================

// Store is the settings database. Methods never panic on a broken database;
// reads degrade to "absent" and writes return errors the caller may ignore
// (saving is advisory, not load-bearing, per the endpoint save contract).
type Store struct {
	db     *sql.DB
	sealer *sealer
}

// DefaultDir returns the settings directory (~/.nanochat).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nanochat"), nil
}

// Open opens (creating if needed) the settings store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "settings.db"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: failed to set pragma: %v", ErrDatabaseError, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", ErrDatabaseError, err)
	}

	s, err := newSealer(filepath.Join(dir, "secret.key"))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, sealer: s}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// RAW KEY/VALUE
// =============================================================================

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

func (s *Store) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		// Missing rows and broken databases both read as "absent".
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("settings read failed for %s: %v", key, err)
		}
		return "", false
	}
	return value, true
}

func (s *Store) delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// ENDPOINT RECORD OPERATIONS
// =============================================================================

// SaveEndpoint persists the custom endpoint record, sealing the credential.
func (s *Store) SaveEndpoint(rec EndpointRecord) error {
	sealed, err := s.sealer.Seal(rec.Key)
	if err != nil {
		return err
	}
	rec.Key = sealed

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal endpoint record: %w", err)
	}
	return s.set(keyCustomEndpoint, string(data))
}

// LoadEndpoint returns the persisted custom endpoint record. A missing,
// unreadable, or tamper-evident record reads as absent; corruption is a
// recoverable condition here, never fatal.
func (s *Store) LoadEndpoint() (EndpointRecord, bool) {
	value, ok := s.get(keyCustomEndpoint)
	if !ok {
		return EndpointRecord{}, false
	}

	var rec EndpointRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		log.Printf("discarding corrupted endpoint record: %v", err)
		return EndpointRecord{}, false
	}

	key, err := s.sealer.Unseal(rec.Key)
	if err != nil {
		log.Printf("discarding endpoint record with unreadable credential: %v", err)
		return EndpointRecord{}, false
	}
	rec.Key = key

	if rec.URL == "" || rec.Model == "" {
		return EndpointRecord{}, false
	}
	return rec, true
}

// EraseEndpoint removes the persisted custom endpoint record.
func (s *Store) EraseEndpoint() error {
	return s.delete(keyCustomEndpoint)
}

// =============================================================================
// THEME PREFERENCE
// =============================================================================

// SaveTheme persists the display theme preference.
func (s *Store) SaveTheme(theme string) error {
	return s.set(keyTheme, theme)
}

// LoadTheme returns the persisted theme preference, if any.
func (s *Store) LoadTheme() (string, bool) {
	return s.get(keyTheme)
}
