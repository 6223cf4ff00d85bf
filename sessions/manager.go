package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

// Manager loads and persists sessions. Store failures never fail a request:
// they are logged and the in-memory session stays authoritative for the
// current request.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load returns the session stored under id, or an empty one.
func (m *Manager) Load(ctx context.Context, id string) *Session {
	s := New(id)

	data, err := m.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrSessionNotFound) {
			log.Warn().Err(err).Msg("session load failed, continuing with empty session")
		}
		return s
	}

	if err := json.Unmarshal(data, s); err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session")
		return New(id)
	}
	return s
}

// Save writes the whole session if it is dirty. Destroyed sessions are skipped.
func (m *Manager) Save(ctx context.Context, s *Session) {
	if s == nil || !s.dirty || s.destroyed {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Msg("session encode failed")
		return
	}

	if err := m.store.SetWithTTL(ctx, s.id, data, m.ttl); err != nil {
		log.Warn().Err(err).Msg("session save failed")
		return
	}
	s.dirty = false
}

// Ping checks the backing store. Stores without a health check are assumed
// reachable.
func (m *Manager) Ping(ctx context.Context) error {
	if p, ok := m.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Destroy clears s and removes its store entry.
func (m *Manager) Destroy(ctx context.Context, s *Session) {
	if s == nil {
		return
	}
	s.Destroy()
	if err := m.store.Delete(ctx, s.id); err != nil {
		log.Warn().Err(err).Msg("session delete failed")
	}
}
