package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// ViewPostsHandler lists every post for admins and the caller's own posts otherwise.
func (s *Server) ViewPostsHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		filter := posts.Filter{}
		if !user.IsAdmin {
			filter.AuthorID = user.ID
		}
		list, err := s.repos.Posts.Find(r.Context(), filter, 0, 0)
		if err != nil {
			serverError(w, r, err, "failed to load posts")
			return
		}
		views, err := s.decoratePosts(r.Context(), list)
		if err != nil {
			serverError(w, r, err, "failed to load post details")
			return
		}
		data := s.adminPage(ac, user, "Posts", "posts")
		data["Posts"] = views
		data["Error"] = r.URL.Query().Get("error")
		s.views.Render(w, http.StatusOK, "admin_posts.html", data)
	}
}

// renderPostForm shows the create or edit form; the author picker is offered to admins only.
func (s *Server) renderPostForm(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User, status int, post *posts.Post, action, errMsg string) {
	ctx := r.Context()
	cats, err := s.repos.Categories.List(ctx)
	if err != nil {
		serverError(w, r, err, "failed to load categories")
		return
	}
	var authors []*users.User
	if user.IsAdmin {
		if authors, err = s.repos.Users.List(ctx, 0, 0); err != nil {
			serverError(w, r, err, "failed to load authors")
			return
		}
	}

	title := "Create Post"
	if post.ID != "" {
		title = "Edit Post"
	}
	data := s.adminPage(ac, user, title, "posts")
	data["Post"] = post
	data["Tags"] = strings.Join(post.Tags, ", ")
	data["Categories"] = cats
	data["Authors"] = authors
	data["Action"] = action
	data["Error"] = errMsg
	s.views.Render(w, status, "admin_post_form.html", data)
}

// bindPostForm copies the submitted fields onto post. Only admins may set another author.
func (s *Server) bindPostForm(ctx context.Context, r *http.Request, user *users.User, post *posts.Post) (string, error) {
	post.Title = strings.TrimSpace(r.FormValue("title"))
	post.Content = r.FormValue("content")
	post.Status = posts.ParseStatus(r.FormValue("status"))
	post.Tags = posts.ParseTags(r.FormValue("tags"))
	post.Thumbnail = strings.TrimSpace(r.FormValue("thumbnail"))
	post.AllowComments = r.FormValue("allowComments") == "on"

	if post.AuthorID == "" {
		post.AuthorID = user.ID
	}
	if author := strings.TrimSpace(r.FormValue("author")); user.IsAdmin && author != "" {
		if _, err := s.repos.Users.GetByID(ctx, author); err != nil {
			if errors.Is(err, blogerrors.ErrUserNotFound) {
				return "Unknown author", nil
			}
			return "", err
		}
		post.AuthorID = author
	}

	post.CategoryID = strings.TrimSpace(r.FormValue("category"))
	if post.CategoryID != "" {
		if _, err := s.repos.Categories.GetByID(ctx, post.CategoryID); err != nil {
			if errors.Is(err, blogerrors.ErrNotFound) {
				return "Unknown category", nil
			}
			return "", err
		}
	}

	switch {
	case strings.TrimSpace(post.Content) == "":
		return "Content is required", nil
	case post.Title == "":
		return "Title is required", nil
	}
	return "", nil
}

func (s *Server) CreatePostPageHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		post := &posts.Post{Status: posts.StatusPublished, AllowComments: true, AuthorID: user.ID}
		s.renderPostForm(w, r, ac, user, http.StatusOK, post, RouteAdminCreatePost, "")
	}
}

// CreatePostHandler saves a new post. Non-admins always author their own posts.
func (s *Server) CreatePostHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		ctx := r.Context()
		post := &posts.Post{}
		problem, err := s.bindPostForm(ctx, r, user, post)
		if err != nil {
			serverError(w, r, err, "failed to validate post")
			return
		}
		if problem != "" {
			s.renderPostForm(w, r, ac, user, http.StatusBadRequest, post, RouteAdminCreatePost, problem)
			return
		}
		if err := posts.AssignSlug(ctx, s.repos.Posts, post); err != nil {
			serverError(w, r, err, "failed to assign slug")
			return
		}
		if err := s.repos.Posts.Create(ctx, post); err != nil {
			log.Err(err).Msg("failed to create post")
			s.renderPostForm(w, r, ac, user, http.StatusInternalServerError, post, RouteAdminCreatePost, "Failed to create post")
			return
		}
		log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Str("author", post.AuthorID).Msg("post created")
		redirectSuccess(w, r, pathViewPosts)
	}
}

// loadPostForMutation finds the post named by the slug path value and applies the
// ownership rule; it writes the denial and returns nil when the caller may not proceed.
func (s *Server) loadPostForMutation(w http.ResponseWriter, r *http.Request, user *users.User) *posts.Post {
	post, err := s.repos.Posts.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
		serverError(w, r, err, "failed to load post")
		return nil
	}
	authorID := ""
	if post != nil {
		authorID = post.AuthorID
	}
	if !auth.AuthorizeMutation(w, user, post != nil, authorID) {
		return nil
	}
	return post
}

func editPostPath(slug string) string {
	return "/admin/posts/edit-posts/" + slug
}

func (s *Server) EditPostPageHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		post := s.loadPostForMutation(w, r, user)
		if post == nil {
			return
		}
		s.renderPostForm(w, r, ac, user, http.StatusOK, post, editPostPath(post.Slug), "")
	}
}

// EditPostHandler updates a post; a changed title regenerates the slug.
func (s *Server) EditPostHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		ctx := r.Context()
		post := s.loadPostForMutation(w, r, user)
		if post == nil {
			return
		}
		action := editPostPath(post.Slug)
		oldTitle := post.Title

		problem, err := s.bindPostForm(ctx, r, user, post)
		if err != nil {
			serverError(w, r, err, "failed to validate post")
			return
		}
		if problem != "" {
			s.renderPostForm(w, r, ac, user, http.StatusBadRequest, post, action, problem)
			return
		}
		if post.Title != oldTitle {
			if err := posts.AssignSlug(ctx, s.repos.Posts, post); err != nil {
				serverError(w, r, err, "failed to assign slug")
				return
			}
		}
		if err := s.repos.Posts.Update(ctx, post); err != nil {
			log.Err(err).Str("post_id", post.ID).Msg("failed to update post")
			s.renderPostForm(w, r, ac, user, http.StatusInternalServerError, post, action, "Failed to update post")
			return
		}
		redirectSuccess(w, r, pathViewPosts)
	}
}

// DeletePostHandler removes a post and the comments on it.
func (s *Server) DeletePostHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, _ auth.Context, user *users.User) {
		ctx := r.Context()
		post := s.loadPostForMutation(w, r, user)
		if post == nil {
			return
		}
		if err := s.repos.Posts.Delete(ctx, post.ID); err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
			serverError(w, r, err, "failed to delete post")
			return
		}
		list, err := s.repos.Comments.ListByPost(ctx, post.ID)
		if err != nil {
			log.Err(err).Str("post_id", post.ID).Msg("failed to list comments of deleted post")
		}
		for _, c := range list {
			if err := s.repos.Comments.Delete(ctx, c.ID); err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
				log.Err(err).Str("comment_id", c.ID).Msg("failed to delete comment of deleted post")
			}
		}
		log.Info().Str("post_id", post.ID).Str("by", user.ID).Msg("post deleted")
		redirectSuccess(w, r, pathViewPosts)
	}
}

