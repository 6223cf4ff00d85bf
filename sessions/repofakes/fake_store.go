package fakestore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/gh-agent-gateway/sessions"
)

var (
	_ sessions.Store  = (*FakeStore)(nil)
	_ sessions.Pinger = (*FakeStore)(nil)
)

// FakeStore wraps an in-memory store, counts calls and can be told to fail.
type FakeStore struct {
	inner *sessions.InMemoryStore

	lock      sync.Mutex
	gets      int
	sets      int
	deletes   int
	lastTTL   time.Duration
	GetErr    error
	SetErr    error
	DeleteErr error
	PingErr   error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{inner: sessions.NewInMemoryStore()}
}

func (f *FakeStore) Get(ctx context.Context, id string) ([]byte, error) {
	f.lock.Lock()
	f.gets++
	err := f.GetErr
	f.lock.Unlock()
	if err != nil {
		return nil, err
	}
	return f.inner.Get(ctx, id)
}

func (f *FakeStore) SetWithTTL(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	f.lock.Lock()
	f.sets++
	f.lastTTL = ttl
	err := f.SetErr
	f.lock.Unlock()
	if err != nil {
		return err
	}
	return f.inner.SetWithTTL(ctx, id, data, ttl)
}

func (f *FakeStore) Delete(ctx context.Context, id string) error {
	f.lock.Lock()
	f.deletes++
	err := f.DeleteErr
	f.lock.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Delete(ctx, id)
}

func (f *FakeStore) Ping(ctx context.Context) error {
	f.lock.Lock()
	err := f.PingErr
	f.lock.Unlock()
	if err != nil {
		return err
	}
	return f.inner.Ping(ctx)
}

func (f *FakeStore) Close() error {
	return f.inner.Close()
}

// Seed writes data directly without counting.
func (f *FakeStore) Seed(id string, data []byte) {
	_ = f.inner.SetWithTTL(context.Background(), id, data, time.Hour)
}

// Raw reads an entry directly without counting.
func (f *FakeStore) Raw(id string) ([]byte, bool) {
	data, err := f.inner.Get(context.Background(), id)
	return data, err == nil
}

func (f *FakeStore) Gets() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.gets
}

func (f *FakeStore) Sets() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.sets
}

func (f *FakeStore) Deletes() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.deletes
}

func (f *FakeStore) LastTTL() time.Duration {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastTTL
}
