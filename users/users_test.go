package users_test

import (
	"testing"

	"github.com/jrsteele09/go-blog-server/users"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	t.Run("strong password", func(t *testing.T) {
		require.NoError(t, users.ValidatePasswordStrength("Secret123"))
	})

	t.Run("too short", func(t *testing.T) {
		err := users.ValidatePasswordStrength("Ab1")
		require.Error(t, err)
		require.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("missing uppercase", func(t *testing.T) {
		err := users.ValidatePasswordStrength("secret123")
		require.Error(t, err)
		require.Contains(t, err.Error(), "uppercase")
	})

	t.Run("missing lowercase", func(t *testing.T) {
		err := users.ValidatePasswordStrength("SECRET123")
		require.Error(t, err)
		require.Contains(t, err.Error(), "lowercase")
	})

	t.Run("missing number", func(t *testing.T) {
		err := users.ValidatePasswordStrength("SecretSecret")
		require.Error(t, err)
		require.Contains(t, err.Error(), "number")
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := users.HashPassword("Secret123")
	require.NoError(t, err)
	require.NotEqual(t, "Secret123", hash)
	require.True(t, users.CheckPasswordHash("Secret123", hash))
	require.False(t, users.CheckPasswordHash("secret123", hash))
}

func TestUser_Normalize(t *testing.T) {
	u := &users.User{Email: "  Jane.Doe@Example.COM ", Username: " jane "}
	u.Normalize()
	require.Equal(t, "jane.doe@example.com", u.Email)
	require.Equal(t, "jane", u.Username)
}

func TestUser_DisplayName(t *testing.T) {
	require.Equal(t, "Jane Doe", (&users.User{FirstName: "Jane", LastName: "Doe", Username: "jd"}).DisplayName())
	require.Equal(t, "jd", (&users.User{Username: "jd"}).DisplayName())
}
