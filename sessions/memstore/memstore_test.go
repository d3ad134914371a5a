package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/sessions/memstore"
	"github.com/stretchr/testify/require"
)

func setClock(t *testing.T, now *time.Time) {
	t.Helper()
	previous := memstore.NowTimeFunc
	memstore.NowTimeFunc = func() time.Time { return *now }
	t.Cleanup(func() { memstore.NowTimeFunc = previous })
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	setClock(t, &now)

	store := memstore.New()
	alice := sessions.Snapshot{ID: "u1", Username: "alice"}

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "s1", alice, time.Hour))
		s, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, "s1", s.ID)
		require.Equal(t, alice, s.User)
		require.Equal(t, now.Add(time.Hour), s.ExpiresAt)
	})

	t.Run("get slides expiry", func(t *testing.T) {
		now = now.Add(50 * time.Minute)
		s, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, now.Add(time.Hour), s.ExpiresAt)

		now = now.Add(50 * time.Minute)
		_, err = store.Get(ctx, "s1")
		require.NoError(t, err)
	})

	t.Run("expired id looks unknown", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		_, err := store.Get(ctx, "s1")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("destroy removes exactly one id", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "laptop", alice, time.Hour))
		require.NoError(t, store.Set(ctx, "phone", alice, time.Hour))

		require.NoError(t, store.Destroy(ctx, "laptop"))
		require.NoError(t, store.Destroy(ctx, "laptop"))

		_, err := store.Get(ctx, "laptop")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
		_, err = store.Get(ctx, "phone")
		require.NoError(t, err)
	})

	t.Run("delete expired", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", alice, time.Minute))
		now = now.Add(30 * time.Minute)
		require.Equal(t, 2, store.DeleteExpired())
		require.Equal(t, 0, store.Len())
	})
}

func TestStore_RunJanitor(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Set(context.Background(), "gone", sessions.Snapshot{}, time.Nanosecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
