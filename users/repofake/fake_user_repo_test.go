package fakeuserrepo_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	fakeuserrepo "github.com/jrsteele09/go-blog-server/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()

	jane := &users.User{Email: "Jane@Example.com", Username: "jane", FirstName: "Jane"}
	require.NoError(t, repo.Create(ctx, jane))
	require.NotEmpty(t, jane.ID)
	require.Equal(t, "jane@example.com", jane.Email)

	t.Run("lookups are case-insensitive", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "JANE@example.COM")
		require.NoError(t, err)
		require.Equal(t, jane.ID, u.ID)

		u, err = repo.GetByEmailOrUsername(ctx, "JANE")
		require.NoError(t, err)
		require.Equal(t, jane.ID, u.ID)
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		err := repo.Create(ctx, &users.User{Email: "jane@example.com", Username: "other"})
		require.ErrorIs(t, err, errors.ErrDuplicateUser)

		err = repo.Create(ctx, &users.User{Email: "other@example.com", Username: "jane"})
		require.ErrorIs(t, err, errors.ErrDuplicateUser)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		u, err := repo.GetByID(ctx, jane.ID)
		require.NoError(t, err)
		u.IsAdmin = true

		again, err := repo.GetByID(ctx, jane.ID)
		require.NoError(t, err)
		require.False(t, again.IsAdmin)
	})

	t.Run("update re-indexes email", func(t *testing.T) {
		u, err := repo.GetByID(ctx, jane.ID)
		require.NoError(t, err)
		u.Email = "jane.doe@example.com"
		require.NoError(t, repo.Update(ctx, u))

		_, err = repo.GetByEmail(ctx, "jane@example.com")
		require.ErrorIs(t, err, errors.ErrUserNotFound)
		_, err = repo.GetByEmail(ctx, "jane.doe@example.com")
		require.NoError(t, err)
	})

	t.Run("list and count", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &users.User{Email: "bob@example.com", Username: "bob"}))
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		page, err := repo.List(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, page, 1)

		found, err := repo.GetByIDs(ctx, []string{jane.ID, "missing"})
		require.NoError(t, err)
		require.Len(t, found, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, jane.ID))
		_, err := repo.GetByID(ctx, jane.ID)
		require.ErrorIs(t, err, errors.ErrUserNotFound)
		require.ErrorIs(t, repo.Delete(ctx, jane.ID), errors.ErrUserNotFound)
	})
}
