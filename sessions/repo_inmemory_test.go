package sessions_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/sessions"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStoreExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := sessions.NewInMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.SetWithTTL(ctx, "a", []byte(`{}`), time.Minute))
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "a")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	require.Equal(t, 1, store.DeleteExpired())
	require.Zero(t, store.Len())
	require.NoError(t, store.SetWithTTL(ctx, "b", []byte(`{}`), time.Minute))
	_, err = store.Get(ctx, "b")
	require.NoError(t, err)
}

func TestInMemoryStoreClosed(t *testing.T) {
	store := sessions.NewInMemoryStore()
	require.NoError(t, store.Close())

	_, err := store.Get(context.Background(), "a")
	require.ErrorIs(t, err, apperrors.ErrStoreClosed)
	require.ErrorIs(t, store.SetWithTTL(context.Background(), "a", nil, time.Minute), apperrors.ErrStoreClosed)
	require.ErrorIs(t, store.Ping(context.Background()), apperrors.ErrStoreClosed)
}

func TestInMemoryStoreJanitorEvictsExpired(t *testing.T) {
	var now atomic.Int64
	now.Store(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	store := sessions.NewInMemoryStoreWithClock(func() time.Time { return time.Unix(0, now.Load()) })
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, store.SetWithTTL(ctx, "short", []byte(`{}`), time.Minute))
	require.NoError(t, store.SetWithTTL(ctx, "long", []byte(`{}`), time.Hour))
	require.NoError(t, store.Ping(ctx))

	store.StartJanitor(5 * time.Millisecond)
	now.Add(int64(2 * time.Minute))

	require.Eventually(t, func() bool { return store.Len() == 1 }, 2*time.Second, 5*time.Millisecond)
	_, err := store.Get(ctx, "long")
	require.NoError(t, err)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
