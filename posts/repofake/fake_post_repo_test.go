package fakepostrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	fakepostrepo "github.com/jrsteele09/go-blog-server/posts/repofake"
	"github.com/stretchr/testify/require"
)

func newPost(slug, author string, status posts.Status) *posts.Post {
	return &posts.Post{Title: slug, Slug: slug, Content: "body", AuthorID: author, Status: status, CategoryID: "cat"}
}

func TestFakePostRepo(t *testing.T) {
	ctx := context.Background()
	repo := fakepostrepo.NewFakePostRepo()

	a := newPost("a", "u1", posts.StatusPublished)
	b := newPost("b", "u2", posts.StatusPublished)
	c := newPost("c", "u1", posts.StatusDraft)
	for _, p := range []*posts.Post{a, b, c} {
		require.NoError(t, repo.Create(ctx, p))
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.SetCreatedAt(a.ID, base)
	repo.SetCreatedAt(b.ID, base.Add(time.Hour))
	repo.SetCreatedAt(c.ID, base.Add(2*time.Hour))

	t.Run("duplicate slug rejected", func(t *testing.T) {
		require.ErrorIs(t, repo.Create(ctx, newPost("a", "u3", posts.StatusDraft)), errors.ErrInvalidInput)
	})

	t.Run("find newest first", func(t *testing.T) {
		list, err := repo.Find(ctx, posts.Filter{PublishedOnly: true}, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "b", list[0].Slug)

		n, err := repo.Count(ctx, posts.Filter{AuthorID: "u1"})
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

	t.Run("views", func(t *testing.T) {
		require.NoError(t, repo.IncrementViews(ctx, a.ID))
		require.NoError(t, repo.IncrementViews(ctx, a.ID))
		list, err := repo.Find(ctx, posts.Filter{SortByViews: true}, 0, 1)
		require.NoError(t, err)
		require.Equal(t, a.ID, list[0].ID)
		require.Equal(t, int64(2), list[0].Views)
	})

	t.Run("comments", func(t *testing.T) {
		require.NoError(t, repo.AddComment(ctx, a.ID, "c1"))
		require.NoError(t, repo.AddComment(ctx, a.ID, "c2"))
		require.NoError(t, repo.RemoveComment(ctx, a.ID, "c1"))
		got, err := repo.GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, []string{"c2"}, got.CommentIDs)
	})

	t.Run("sample and count by category", func(t *testing.T) {
		sample, err := repo.Sample(ctx, posts.Filter{PublishedOnly: true}, 3)
		require.NoError(t, err)
		require.Len(t, sample, 2)

		counts, err := repo.CountByCategory(ctx)
		require.NoError(t, err)
		require.Equal(t, 3, counts["cat"])
	})

	t.Run("update re-indexes slug", func(t *testing.T) {
		got, err := repo.GetBySlug(ctx, "c")
		require.NoError(t, err)
		got.Slug = "c-renamed"
		require.NoError(t, repo.Update(ctx, got))

		_, err = repo.GetBySlug(ctx, "c")
		require.ErrorIs(t, err, errors.ErrNotFound)
		_, err = repo.GetBySlug(ctx, "c-renamed")
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, b.ID))
		require.ErrorIs(t, repo.Delete(ctx, b.ID), errors.ErrNotFound)
	})
}
