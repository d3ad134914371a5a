package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/comments"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/pagination"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/rs/zerolog/log"
)

const (
	sidebarRecent  = 5
	sidebarPopular = 5
	sidebarRandom  = 3
)

// postPage loads one page of posts matching filter, newest first.
func (s *Server) postPage(ctx context.Context, filter posts.Filter, page int) ([]PostView, pagination.Page, error) {
	perPage := s.config.GetPostsPerPage()
	list, err := s.repos.Posts.Find(ctx, filter, pagination.Offset(page, perPage), perPage)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	total, err := s.repos.Posts.Count(ctx, filter)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	views, err := s.decoratePosts(ctx, list)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return views, pagination.New(page, total, perPage), nil
}

// searchFilter matches published posts by term, including posts filed under a matching category.
func (s *Server) searchFilter(ctx context.Context, term string) (posts.Filter, error) {
	filter := posts.Filter{PublishedOnly: true, Term: term}
	if term == "" {
		return filter, nil
	}
	matched, err := s.repos.Categories.FindByNameTerm(ctx, term)
	if err != nil {
		return filter, err
	}
	for _, c := range matched {
		filter.TermCategoryIDs = append(filter.TermCategoryIDs, c.ID)
	}
	return filter, nil
}

// HomeHandler renders the paginated list of published posts with the sidebar widgets.
func (s *Server) HomeHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		published := posts.Filter{PublishedOnly: true}
		page := pagination.ParsePage(r.URL.Query().Get("page"))

		list, pages, err := s.postPage(ctx, published, page)
		if err != nil {
			serverError(w, r, err, "failed to load posts")
			return
		}
		cats, err := s.categoriesWithCounts(ctx)
		if err != nil {
			serverError(w, r, err, "failed to load categories")
			return
		}
		recent, err := s.repos.Posts.Find(ctx, published, 0, sidebarRecent)
		if err != nil {
			serverError(w, r, err, "failed to load recent posts")
			return
		}
		popular, err := s.repos.Posts.Find(ctx, posts.Filter{PublishedOnly: true, SortByViews: true}, 0, sidebarPopular)
		if err != nil {
			serverError(w, r, err, "failed to load popular posts")
			return
		}
		random, err := s.repos.Posts.Sample(ctx, published, sidebarRandom)
		if err != nil {
			serverError(w, r, err, "failed to load random posts")
			return
		}

		data := s.page(ac, "Home")
		data["Posts"] = list
		data["Pagination"] = pages
		data["PageQuery"] = "?page="
		data["APIPath"] = "/api/posts"
		data["Categories"] = cats
		data["RecentPosts"] = recent
		data["PopularPosts"] = popular
		data["RandomPosts"] = random
		if ac.Authenticated() {
			stats, err := s.userStats(ctx, ac.UserID())
			if err != nil {
				serverError(w, r, err, "failed to load user stats")
				return
			}
			data["UserStats"] = stats
		}
		s.views.Render(w, http.StatusOK, "home.html", data)
	}
}

func (s *Server) AboutHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		s.views.Render(w, http.StatusOK, "about.html", s.page(ac, "About"))
	}
}

// PostHandler shows a published post with its comments and counts the view.
func (s *Server) PostHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		post, err := s.repos.Posts.GetBySlug(ctx, r.PathValue("slug"))
		if errors.Is(err, blogerrors.ErrNotFound) || (err == nil && !post.IsPublished()) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to load post")
			return
		}

		if err := s.repos.Posts.IncrementViews(ctx, post.ID); err != nil {
			log.Err(err).Str("post_id", post.ID).Msg("failed to count view")
		} else {
			post.Views++
		}

		views, err := s.decoratePosts(ctx, []*posts.Post{post})
		if err != nil {
			serverError(w, r, err, "failed to load post author")
			return
		}
		list, err := s.repos.Comments.ListByPost(ctx, post.ID)
		if err != nil {
			serverError(w, r, err, "failed to load comments")
			return
		}
		commentViews, err := s.decorateComments(ctx, list, false)
		if err != nil {
			serverError(w, r, err, "failed to load comment authors")
			return
		}

		data := s.page(ac, post.Title)
		data["Post"] = views[0]
		data["Comments"] = commentViews
		s.views.Render(w, http.StatusOK, "post.html", data)
	}
}

// CommentHandler adds a comment to a published post that allows them.
func (s *Server) CommentHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		post, err := s.repos.Posts.GetByID(ctx, r.PathValue("postID"))
		if errors.Is(err, blogerrors.ErrNotFound) || (err == nil && !post.IsPublished()) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to load post")
			return
		}
		if !post.AllowComments {
			http.Error(w, "Comments are disabled", http.StatusForbidden)
			return
		}

		content := strings.TrimSpace(r.FormValue("content"))
		if err := comments.ValidateContent(content); err != nil {
			http.Error(w, "Comment cannot be empty", http.StatusBadRequest)
			return
		}
		comment := &comments.Comment{Content: content, PostID: post.ID, AuthorID: ac.UserID()}
		if err := s.repos.Comments.Create(ctx, comment); err != nil {
			serverError(w, r, err, "failed to save comment")
			return
		}
		if err := s.repos.Posts.AddComment(ctx, post.ID, comment.ID); err != nil {
			serverError(w, r, err, "failed to link comment")
			return
		}
		redirectSuccess(w, r, postPath(post.Slug))
	}
}

// ReplyHandler answers a comment, subject to the comment's post allowing comments.
func (s *Server) ReplyHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		comment, err := s.repos.Comments.GetByID(ctx, r.PathValue("commentID"))
		if errors.Is(err, blogerrors.ErrNotFound) {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to load comment")
			return
		}
		post, err := s.repos.Posts.GetByID(ctx, comment.PostID)
		if errors.Is(err, blogerrors.ErrNotFound) || (err == nil && !post.IsPublished()) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to load post")
			return
		}
		if !post.AllowComments {
			http.Error(w, "Comments are disabled", http.StatusForbidden)
			return
		}

		content := strings.TrimSpace(r.FormValue("content"))
		if err := comments.ValidateContent(content); err != nil {
			http.Error(w, "Reply cannot be empty", http.StatusBadRequest)
			return
		}
		reply := &comments.Reply{Content: content, AuthorID: ac.UserID()}
		if err := s.repos.Comments.AddReply(ctx, comment.ID, reply); err != nil {
			serverError(w, r, err, "failed to save reply")
			return
		}
		redirectSuccess(w, r, postPath(post.Slug))
	}
}

// UserPostsHandler lists a user's published posts.
func (s *Server) UserPostsHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		author, err := s.repos.Users.GetByUsername(ctx, r.PathValue("username"))
		if errors.Is(err, blogerrors.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to load user")
			return
		}

		page := pagination.ParsePage(r.URL.Query().Get("page"))
		list, pages, err := s.postPage(ctx, posts.Filter{PublishedOnly: true, AuthorID: author.ID}, page)
		if err != nil {
			serverError(w, r, err, "failed to load posts")
			return
		}
		data := s.page(ac, author.DisplayName())
		data["Author"] = author
		data["Posts"] = list
		data["Pagination"] = pages
		data["PageQuery"] = "?page="
		data["APIPath"] = "/api/user/" + url.PathEscape(author.Username) + "/posts"
		s.views.Render(w, http.StatusOK, "listing.html", data)
	}
}

// CategoryPostsHandler lists the published posts of a category.
func (s *Server) CategoryPostsHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		category, err := s.repos.Categories.GetByName(ctx, r.PathValue("name"))
		if errors.Is(err, blogerrors.ErrNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "failed to load category")
			return
		}

		page := pagination.ParsePage(r.URL.Query().Get("page"))
		list, pages, err := s.postPage(ctx, posts.Filter{PublishedOnly: true, CategoryID: category.ID}, page)
		if err != nil {
			serverError(w, r, err, "failed to load posts")
			return
		}
		data := s.page(ac, category.Name)
		data["Category"] = category
		data["Posts"] = list
		data["Pagination"] = pages
		data["PageQuery"] = "?page="
		data["APIPath"] = "/api/category/" + url.PathEscape(category.Name) + "/posts"
		s.views.Render(w, http.StatusOK, "listing.html", data)
	}
}

// SearchHandler lists published posts whose title, content, tags or category match q.
func (s *Server) SearchHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		ctx := r.Context()
		term := strings.TrimSpace(r.URL.Query().Get("q"))
		filter, err := s.searchFilter(ctx, term)
		if err != nil {
			serverError(w, r, err, "failed to search categories")
			return
		}

		page := pagination.ParsePage(r.URL.Query().Get("page"))
		list, pages, err := s.postPage(ctx, filter, page)
		if err != nil {
			serverError(w, r, err, "failed to search posts")
			return
		}
		data := s.page(ac, "Search")
		data["SearchTerm"] = term
		data["Posts"] = list
		data["Pagination"] = pages
		data["PageQuery"] = "?q=" + url.QueryEscape(term) + "&page="
		data["APIPath"] = "/api/search?q=" + url.QueryEscape(term)
		s.views.Render(w, http.StatusOK, "listing.html", data)
	}
}
