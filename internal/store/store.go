// ABOUTME: SQLite-backed local state store for per-target CSRF tokens
// ABOUTME: Backs the LoadToken and SaveToken effects across sessions

package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/calculi-corp/concourse/internal/logger"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	conn *sql.DB
}

// Open opens or creates the store at the given path.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("state store opened at %s", path)
	return &Store{conn: conn}, nil
}

func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// SaveToken stores the CSRF token for a target, replacing any previous one.
func (s *Store) SaveToken(target, token string) error {
	_, err := s.conn.Exec(
		`INSERT INTO tokens (target, token, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(target) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP`,
		target, token,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken returns the stored token for a target, or "" when none exists.
func (s *Store) LoadToken(target string) (string, error) {
	var token string
	err := s.conn.QueryRow("SELECT token FROM tokens WHERE target = ?", target).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored token for a target.
func (s *Store) DeleteToken(target string) error {
	_, err := s.conn.Exec("DELETE FROM tokens WHERE target = ?", target)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
