package server_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-blog-server/comments"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/stretchr/testify/require"
)

func postForm(title string) url.Values {
	return url.Values{
		"title":         {title},
		"content":       {"Body of " + title},
		"status":        {"published"},
		"tags":          {"go, web, "},
		"allowComments": {"on"},
	}
}

func TestCreatePost(t *testing.T) {
	f := setupTestFixture(t)
	writer := f.createUser(t, "writer", false)
	other := f.createUser(t, "other", false)
	cookies := f.login(t, "writer", false)

	t.Run("saves with a slug and the caller as author", func(t *testing.T) {
		form := postForm("My First Post")
		form.Set("author", other.ID) // ignored for non-admins
		rec := f.do(http.MethodPost, "/admin/posts/create-posts", form, cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		require.Equal(t, "/admin/posts/view-posts", rec.Header().Get("Location"))

		post, err := f.posts.GetBySlug(context.Background(), "my-first-post")
		require.NoError(t, err)
		require.Equal(t, writer.ID, post.AuthorID)
		require.Equal(t, []string{"go", "web"}, post.Tags)
		require.True(t, post.AllowComments)
		require.True(t, post.IsPublished())
	})

	t.Run("a repeated title gets a distinct slug", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/posts/create-posts", postForm("My First Post"), cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		count, err := f.posts.Count(context.Background(), posts.Filter{AuthorID: writer.ID})
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("missing title re-renders the form", func(t *testing.T) {
		form := postForm("")
		rec := f.do(http.MethodPost, "/admin/posts/create-posts", form, cookies)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Title is required")
	})

	t.Run("unknown category", func(t *testing.T) {
		form := postForm("Filed Post")
		form.Set("category", "no-such-category")
		rec := f.do(http.MethodPost, "/admin/posts/create-posts", form, cookies)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Unknown category")
	})

	t.Run("list shows own posts", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/admin/posts/view-posts", nil, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "My First Post")
	})
}

func TestPostOwnership(t *testing.T) {
	f := setupTestFixture(t)
	owner := f.createUser(t, "owner", false)
	f.createUser(t, "intruder", false)
	f.createUser(t, "root", true)
	post := f.createPost(t, owner, "Owned Post", posts.StatusPublished, true)
	f.createComment(t, post, owner, "first!")

	ownerCookies := f.login(t, "owner", false)
	intruderCookies := f.login(t, "intruder", false)
	adminCookies := f.login(t, "root", false)
	edit := "/admin/posts/edit-posts/" + post.Slug

	t.Run("non-owner is forbidden", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, f.do(http.MethodGet, edit, nil, intruderCookies).Code)
		require.Equal(t, http.StatusForbidden, f.do(http.MethodPost, edit, postForm("Hijacked"), intruderCookies).Code)
		require.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/admin/posts/delete-posts/"+post.Slug, nil, intruderCookies).Code)
	})

	t.Run("missing post does not reveal existence to non-admins", func(t *testing.T) {
		require.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/admin/posts/edit-posts/missing", nil, intruderCookies).Code)
		require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/admin/posts/edit-posts/missing", nil, adminCookies).Code)
	})

	t.Run("owner edits and the slug follows the title", func(t *testing.T) {
		require.Equal(t, http.StatusOK, f.do(http.MethodGet, edit, nil, ownerCookies).Code)
		rec := f.do(http.MethodPost, edit, postForm("Renamed Post"), ownerCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		updated, err := f.posts.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		require.Equal(t, "renamed-post", updated.Slug)
		require.Equal(t, owner.ID, updated.AuthorID)
	})

	t.Run("admin deletes someone else's post and its comments", func(t *testing.T) {
		rec := f.do(http.MethodDelete, "/admin/posts/delete-posts/renamed-post", nil, adminCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		_, err := f.posts.GetByID(context.Background(), post.ID)
		require.Error(t, err)
		list, err := f.comments.ListByPost(context.Background(), post.ID)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestCategories(t *testing.T) {
	f := setupTestFixture(t)
	f.createUser(t, "writer", false)
	admin := f.createUser(t, "root", true)
	writerCookies := f.login(t, "writer", false)
	adminCookies := f.login(t, "root", false)

	t.Run("only admins manage categories", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/category/create-category", url.Values{"name": {"Go"}}, writerCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/admin/category/view-category", nil, writerCookies).Code)
	})

	t.Run("create, reject duplicates, edit and delete", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/category/create-category", url.Values{"name": {"Go"}}, adminCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		category, err := f.categories.GetByName(context.Background(), "Go")
		require.NoError(t, err)
		require.Equal(t, []string{admin.ID}, category.CreatedBy)

		rec = f.do(http.MethodPost, "/admin/category/create-category", url.Values{"name": {"Go"}}, adminCookies)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Category already exists")

		rec = f.do(http.MethodPost, "/admin/category/create-category", url.Values{"name": {"  "}}, adminCookies)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(http.MethodPost, "/admin/category/edit-category/"+category.ID, url.Values{"name": {"Golang"}}, adminCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		renamed, err := f.categories.GetByID(context.Background(), category.ID)
		require.NoError(t, err)
		require.Equal(t, "Golang", renamed.Name)

		rec = f.do(http.MethodPost, "/admin/category/delete-category/"+category.ID, nil, adminCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/admin/category/delete-category/"+category.ID, nil, adminCookies).Code)
	})
}

func TestAdminComments(t *testing.T) {
	f := setupTestFixture(t)
	author := f.createUser(t, "author", false)
	reader := f.createUser(t, "reader", false)
	post := f.createPost(t, author, "Discussed", posts.StatusPublished, true)
	comment := f.createComment(t, post, reader, "A question")
	reply := &comments.Reply{Content: "An answer", AuthorID: author.ID}
	require.NoError(t, f.comments.AddReply(context.Background(), comment.ID, reply))

	authorCookies := f.login(t, "author", false)
	readerCookies := f.login(t, "reader", false)

	t.Run("list and reply", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/admin/comments/view-comments", nil, readerCookies)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "A question")

		require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/admin/comments/reply-comments/"+comment.ID, nil, authorCookies).Code)
		require.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/admin/comments/reply-comments/missing", nil, authorCookies).Code)

		rec = f.do(http.MethodPost, "/admin/comments/reply-comments/"+comment.ID, url.Values{"content": {"Follow up"}}, authorCookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		stored, err := f.comments.GetByID(context.Background(), comment.ID)
		require.NoError(t, err)
		require.Len(t, stored.Replies, 2)
	})

	t.Run("reply ownership follows the reply author", func(t *testing.T) {
		target := "/admin/comments/delete-reply/" + comment.ID + "/" + reply.ID
		require.Equal(t, http.StatusForbidden, f.do(http.MethodPost, target, nil, readerCookies).Code)
		require.Equal(t, http.StatusSeeOther, f.do(http.MethodPost, target, nil, authorCookies).Code)
	})

	t.Run("comment ownership follows the comment author", func(t *testing.T) {
		target := "/admin/comments/delete-comments/" + comment.ID
		require.Equal(t, http.StatusForbidden, f.do(http.MethodPost, target, nil, authorCookies).Code)
		require.Equal(t, http.StatusSeeOther, f.do(http.MethodPost, target, nil, readerCookies).Code)

		stored, err := f.posts.GetByID(context.Background(), post.ID)
		require.NoError(t, err)
		require.NotContains(t, stored.CommentIDs, comment.ID)
	})
	t.Run("reply respects disabled comments", func(t *testing.T) {
		closed := f.createPost(t, author, "Closed", posts.StatusPublished, false)
		question := f.createComment(t, closed, reader, "Still there?")

		rec := f.do(http.MethodPost, "/admin/comments/reply-comments/"+question.ID, url.Values{"content": {"Yes"}}, authorCookies)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "Comments are disabled")

		stored, err := f.comments.GetByID(context.Background(), question.ID)
		require.NoError(t, err)
		require.Empty(t, stored.Replies)
	})
}

func TestProfile(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createUser(t, "bob", false)
	f.createUser(t, "alice", false)
	cookies := f.login(t, "bob", true)

	profileForm := func(username, email string) url.Values {
		return url.Values{
			"firstName": {"Robert"},
			"lastName":  {"Builder"},
			"username":  {username},
			"email":     {email},
			"city":      {"Leeds"},
		}
	}

	t.Run("conflicting username", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/profile/edit-profile", profileForm("alice", "bob@example.com"), cookies)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Username already taken")
	})

	t.Run("update refreshes the session snapshot", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/profile/edit-profile", profileForm("bob", "bob@example.com"), cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/admin/profile", rec.Header().Get("Location"))

		stored, err := f.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.Equal(t, "Leeds", stored.Address.City)
		require.False(t, stored.IsAdmin)

		home := f.do(http.MethodGet, "/", nil, sessionOnly(cookies))
		require.Contains(t, home.Body.String(), "Robert Builder")

		page := f.do(http.MethodGet, "/admin/profile", nil, sessionOnly(cookies))
		require.Equal(t, http.StatusOK, page.Code)
		require.Contains(t, page.Body.String(), "Leeds")
	})

	t.Run("delete account ends the session", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/admin/profile/delete-profile", nil, cookies)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		_, err := f.users.GetByID(context.Background(), user.ID)
		require.Error(t, err)
		require.Equal(t, http.StatusSeeOther, f.do(http.MethodGet, "/admin/profile", nil, cookies).Code)
	})
}
