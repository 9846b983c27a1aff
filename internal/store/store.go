// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Keys of the two independent persisted documents.
const (
	SessionsKey = "striker_sessions"
	SettingsKey = "striker_settings"
)

// Store wraps SQLite access for journal documents.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report recovered corrupt state.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string, opts ...Option) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(store)
	}
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
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadSessions returns the saved session list, newest first.
// Missing or unreadable documents yield an empty list.
func (s *Store) LoadSessions(ctx context.Context) ([]model.Session, error) {
	raw, ok, err := s.get(ctx, SessionsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Session{}, nil
	}
	var sessions []model.Session
	if err := json.Unmarshal(raw, &sessions); err != nil {
		s.log.Warn("discarding corrupt sessions document", zap.Error(err))
		return []model.Session{}, nil
	}
	if sessions == nil {
		sessions = []model.Session{}
	}
	for i := range sessions {
		if sessions[i].Reps == nil {
			sessions[i].Reps = []model.Rep{}
		}
	}
	return sessions, nil
}

// SaveSessions overwrites the saved session list.
func (s *Store) SaveSessions(ctx context.Context, sessions []model.Session) error {
	if sessions == nil {
		sessions = []model.Session{}
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	return s.put(ctx, SessionsKey, raw)
}

// LoadSettings returns saved settings merged over defaults.
// Fields absent from the saved document keep their default values.
func (s *Store) LoadSettings(ctx context.Context) (model.UserSettings, error) {
	settings := model.DefaultSettings()
	raw, ok, err := s.get(ctx, SettingsKey)
	if err != nil {
		return settings, err
	}
	if !ok {
		return settings, nil
	}
	merged := settings
	if err := json.Unmarshal(raw, &merged); err != nil {
		s.log.Warn("discarding corrupt settings document", zap.Error(err))
		return settings, nil
	}
	merged.ProfileZoom = model.ClampZoom(merged.ProfileZoom)
	return merged, nil
}

// SaveSettings overwrites the saved settings.
func (s *Store) SaveSettings(ctx context.Context, settings model.UserSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.put(ctx, SettingsKey, raw)
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		string(value),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

