package posts_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	fakepostrepo "github.com/jrsteele09/go-blog-server/posts/repofake"
	"github.com/stretchr/testify/require"
)

func TestMakeSlug(t *testing.T) {
	require.Equal(t, "hello-world", posts.MakeSlug("Hello, World!"))
	require.Equal(t, "go-1-22-routing", posts.MakeSlug("  Go 1.22 Routing "))
}

func TestAssignSlug(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	previous := posts.NowTimeFunc
	posts.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { posts.NowTimeFunc = previous })

	repo := fakepostrepo.NewFakePostRepo()
	first := &posts.Post{Title: "Hello World", Content: "x", AuthorID: "a", Status: posts.StatusDraft}
	require.NoError(t, posts.AssignSlug(ctx, repo, first))
	require.Equal(t, "hello-world", first.Slug)
	require.NoError(t, repo.Create(ctx, first))

	t.Run("collision gets a millisecond suffix", func(t *testing.T) {
		second := &posts.Post{Title: "Hello world!"}
		require.NoError(t, posts.AssignSlug(ctx, repo, second))
		require.Equal(t, "hello-world-1738555506000", second.Slug)
	})

	t.Run("a post keeps its own slug", func(t *testing.T) {
		require.NoError(t, posts.AssignSlug(ctx, repo, first))
		require.Equal(t, "hello-world", first.Slug)
	})
}

func TestParseTags(t *testing.T) {
	require.Equal(t, []string{"go", "web dev"}, posts.ParseTags(" go, ,web dev ,"))
	require.Empty(t, posts.ParseTags(""))
}

func TestParseStatus(t *testing.T) {
	require.Equal(t, posts.StatusPublished, posts.ParseStatus("Published"))
	require.Equal(t, posts.StatusDraft, posts.ParseStatus("anything"))
}

func TestPost_Validate(t *testing.T) {
	valid := posts.Post{Title: "t", Content: "c", AuthorID: "a", Status: posts.StatusPublished}
	require.NoError(t, valid.Validate())

	noContent := valid
	noContent.Content = "   "
	require.ErrorIs(t, noContent.Validate(), errors.ErrInvalidInput)

	badStatus := valid
	badStatus.Status = "archived"
	require.ErrorIs(t, badStatus.Validate(), errors.ErrInvalidInput)
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "short", posts.Excerpt("short", 10))
	require.Equal(t, "hello w...", posts.Excerpt("hello world, again", 10))
}

func TestFilter_Matches(t *testing.T) {
	p := &posts.Post{
		Title:      "Routing in Go",
		Content:    "net/http patterns",
		Tags:       []string{"Backend"},
		CategoryID: "cat-1",
		AuthorID:   "a",
		Status:     posts.StatusPublished,
	}

	require.True(t, posts.Filter{}.Matches(p))
	require.True(t, posts.Filter{Term: "ROUTING"}.Matches(p))
	require.True(t, posts.Filter{Term: "backend"}.Matches(p))
	require.True(t, posts.Filter{Term: "nomatch", TermCategoryIDs: []string{"cat-1"}}.Matches(p))
	require.False(t, posts.Filter{Term: "nomatch"}.Matches(p))
	require.False(t, posts.Filter{AuthorID: "b"}.Matches(p))

	p.Status = posts.StatusDraft
	require.False(t, posts.Filter{PublishedOnly: true}.Matches(p))
}

func TestMonthlyViews(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	list := []*posts.Post{
		{Views: 5, CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Views: 7, CreatedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Views: 2, CreatedAt: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)},
		{Views: 100, CreatedAt: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
	}

	series := posts.MonthlyViews(list, now, 12)
	require.Len(t, series, 12)
	require.Equal(t, posts.MonthViews{Label: "April 2024", Views: 2}, series[0])
	require.Equal(t, posts.MonthViews{Label: "March 2025", Views: 12}, series[11])
	require.Equal(t, int64(0), series[5].Views)
}
