package sessions_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/gh-agent-gateway/sessions"
	fakestore "github.com/jrsteele09/gh-agent-gateway/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsEmptySession(t *testing.T) {
	store := fakestore.NewFakeStore()
	m := sessions.NewManager(store, time.Hour)

	s := m.Load(context.Background(), "missing")
	require.Equal(t, "missing", s.ID())
	require.False(t, s.IsAuthenticated())
	require.False(t, s.IsDirty())
}

func TestLoadStoreFailureDegradesToEmpty(t *testing.T) {
	store := fakestore.NewFakeStore()
	store.Seed("id", []byte(`{"oauth_state":"x"}`))
	store.GetErr = errors.New("connection refused")
	m := sessions.NewManager(store, time.Hour)

	s := m.Load(context.Background(), "id")
	require.Empty(t, s.State())
}

func TestLoadCorruptPayloadDegradesToEmpty(t *testing.T) {
	store := fakestore.NewFakeStore()
	store.Seed("id", []byte(`not json`))
	m := sessions.NewManager(store, time.Hour)

	s := m.Load(context.Background(), "id")
	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.State())
}

func TestSaveIsNoOpUnlessDirty(t *testing.T) {
	store := fakestore.NewFakeStore()
	m := sessions.NewManager(store, time.Hour)

	s := m.Load(context.Background(), "id")
	m.Save(context.Background(), s)
	require.Equal(t, 0, store.Sets())
}

func TestSaveWritesWithTTLAndClearsDirty(t *testing.T) {
	store := fakestore.NewFakeStore()
	m := sessions.NewManager(store, 90*time.Second)

	s := m.Load(context.Background(), "id")
	s.BeginLogin("state")
	m.Save(context.Background(), s)

	require.Equal(t, 1, store.Sets())
	require.Equal(t, 90*time.Second, store.LastTTL())
	require.False(t, s.IsDirty())

	m.Save(context.Background(), s)
	require.Equal(t, 1, store.Sets())

	reloaded := m.Load(context.Background(), "id")
	require.Equal(t, "state", reloaded.State())
}

func TestSaveFailureIsSwallowedAndKeepsDirty(t *testing.T) {
	store := fakestore.NewFakeStore()
	store.SetErr = errors.New("READONLY")
	m := sessions.NewManager(store, time.Hour)

	s := sessions.New("id")
	s.BeginLogin("state")
	m.Save(context.Background(), s)

	require.Equal(t, 1, store.Sets())
	require.True(t, s.IsDirty())
	require.Equal(t, "state", s.State())
}

func TestDestroyDeletesAndIsNeverResaved(t *testing.T) {
	store := fakestore.NewFakeStore()
	m := sessions.NewManager(store, time.Hour)

	s := sessions.New("id")
	s.Authenticate(testIdentity())
	m.Save(context.Background(), s)
	_, ok := store.Raw("id")
	require.True(t, ok)

	m.Destroy(context.Background(), s)
	m.Save(context.Background(), s)

	require.Equal(t, 1, store.Deletes())
	require.Equal(t, 1, store.Sets())
	_, ok = store.Raw("id")
	require.False(t, ok)
}

func TestSaveAndLoadRoundTripsIdentity(t *testing.T) {
	store := fakestore.NewFakeStore()
	m := sessions.NewManager(store, time.Hour)

	s := sessions.New("id")
	s.Authenticate(testIdentity())
	m.Save(context.Background(), s)

	raw, ok := store.Raw("id")
	require.True(t, ok)
	var flat map[string]any
	require.NoError(t, json.Unmarshal(raw, &flat))
	require.Equal(t, "tok123", flat["github_access_token"])

	loaded := m.Load(context.Background(), "id")
	require.True(t, loaded.IsAuthenticated())
	require.Equal(t, "octocat", loaded.Identity().Username)
}

func TestContextRoundTrip(t *testing.T) {
	s := sessions.New("id")
	ctx := sessions.NewContext(context.Background(), s)

	got, ok := sessions.FromContext(ctx)
	require.True(t, ok)
	require.Same(t, s, got)

	_, ok = sessions.FromContext(context.Background())
	require.False(t, ok)
}
