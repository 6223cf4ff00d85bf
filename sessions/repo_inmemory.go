package sessions

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryStore is a process-local Store used in DEV when no Redis URL is set.
type InMemoryStore struct {
	entries map[string]memoryEntry
	now     func() time.Time
	closed  bool
	stop    chan struct{}
	lock    sync.RWMutex
}

var (
	_ Store  = (*InMemoryStore)(nil)
	_ Pinger = (*InMemoryStore)(nil)
)

func NewInMemoryStore() *InMemoryStore {
	return NewInMemoryStoreWithClock(time.Now)
}

func NewInMemoryStoreWithClock(now func() time.Time) *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (s *InMemoryStore) Get(_ context.Context, id string) ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closed {
		return nil, apperrors.ErrStoreClosed
	}
	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, apperrors.ErrSessionNotFound
	}
	return append([]byte(nil), e.data...), nil
}

func (s *InMemoryStore) SetWithTTL(_ context.Context, id string, data []byte, ttl time.Duration) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return apperrors.ErrStoreClosed
	}
	s.entries[id] = memoryEntry{
		data:      append([]byte(nil), data...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return apperrors.ErrStoreClosed
	}
	delete(s.entries, id)
	return nil
}

// DeleteExpired drops entries whose TTL has passed and returns how many.
func (s *InMemoryStore) DeleteExpired() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len counts stored entries, expired ones included.
func (s *InMemoryStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.entries)
}

// StartJanitor runs DeleteExpired every interval until Close.
func (s *InMemoryStore) StartJanitor(interval time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed || s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	go s.janitor(interval, s.stop)
}

func (s *InMemoryStore) janitor(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.DeleteExpired(); n > 0 {
				log.Debug().Int("evicted", n).Msg("expired sessions dropped")
			}
		case <-stop:
			return
		}
	}
}

// Ping fails once the store is closed.
func (s *InMemoryStore) Ping(_ context.Context) error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.closed {
		return apperrors.ErrStoreClosed
	}
	return nil
}

func (s *InMemoryStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed && s.stop != nil {
		close(s.stop)
	}
	s.closed = true
	return nil
}
