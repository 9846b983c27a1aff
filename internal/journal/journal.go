// Package journal holds the session history and user settings as explicitly
// owned containers. Every change is written through to the backend.
package journal

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/model"
)

// SessionBackend persists the full session list.
type SessionBackend interface {
	LoadSessions(ctx context.Context) ([]model.Session, error)
	SaveSessions(ctx context.Context, sessions []model.Session) error
}

// SettingsBackend persists user settings.
type SettingsBackend interface {
	LoadSettings(ctx context.Context) (model.UserSettings, error)
	SaveSettings(ctx context.Context, settings model.UserSettings) error
}

// Sessions is the saved session history, newest first.
type Sessions struct {
	mu       sync.RWMutex
	backend  SessionBackend
	log      *zap.Logger
	sessions []model.Session
}

// NewSessions returns an empty container bound to backend.
func NewSessions(backend SessionBackend, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{backend: backend, log: log}
}

// Load replaces the in-memory list with the persisted one.
// A failed read leaves an empty history.
func (s *Sessions) Load(ctx context.Context) error {
	loaded, err := s.backend.LoadSessions(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.sessions = nil
		s.log.Warn("failed to load sessions, starting empty", zap.Error(err))
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	s.sessions = loaded
	s.log.Debug("sessions loaded", zap.Int("count", len(loaded)))
	return nil
}

// List returns copies of all sessions, newest first.
func (s *Sessions) List() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Session, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Len returns the number of saved sessions.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Get returns a copy of the session with id.
func (s *Sessions) Get(id string) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess.Clone(), true
		}
	}
	return model.Session{}, false
}

// Complete adds a finished session at the front of the history.
func (s *Sessions) Complete(ctx context.Context, session model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Session, 0, len(s.sessions)+1)
	next = append(next, session.Clone())
	next = append(next, s.sessions...)
	if err := s.backend.SaveSessions(ctx, next); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	s.sessions = next
	s.log.Info("session completed", zap.String("session", session.ID), zap.Int("reps", len(session.Reps)))
	return nil
}

// Delete removes the session with id. Deleting an unknown id is a no-op.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		if sess.ID != id {
			next = append(next, sess)
		}
	}
	if len(next) == len(s.sessions) {
		return nil
	}
	if err := s.backend.SaveSessions(ctx, next); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	s.sessions = next
	s.log.Info("session deleted", zap.String("session", id))
	return nil
}
