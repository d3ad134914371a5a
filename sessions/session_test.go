package sessions_test

import (
	"encoding/base64"
	"testing"

	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := sessions.NewSessionID()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(id)
		require.NoError(t, err)
		require.Len(t, raw, 32)

		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestNewSnapshot(t *testing.T) {
	u := &users.User{
		ID:           "u1",
		FirstName:    "Alice",
		LastName:     "Smith",
		Username:     "alice",
		Email:        "alice@x.com",
		Position:     users.DefaultPosition,
		IsAdmin:      true,
		Picture:      "https://img.example.com/a.png",
		PasswordHash: "hash",
		Address:      users.Address{City: "Leeds"},
	}

	snap := sessions.NewSnapshot(u)
	require.Equal(t, sessions.Snapshot{
		ID:             "u1",
		FirstName:      "Alice",
		LastName:       "Smith",
		Username:       "alice",
		Email:          "alice@x.com",
		Position:       users.DefaultPosition,
		IsAdmin:        true,
		ProfilePicture: "https://img.example.com/a.png",
	}, snap)

	t.Run("snapshot does not follow the user", func(t *testing.T) {
		u.IsAdmin = false
		require.True(t, snap.IsAdmin)
	})

	t.Run("display name", func(t *testing.T) {
		require.Equal(t, "Alice Smith", snap.DisplayName())
		require.Equal(t, "bob", sessions.Snapshot{Username: "bob"}.DisplayName())
	})
}
