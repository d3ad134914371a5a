package server

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/categories"
	"github.com/jrsteele09/go-blog-server/comments"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// viewData is the template model; every page gets the common keys set by page().
type viewData map[string]any

func (s *Server) page(ac auth.Context, title string) viewData {
	return viewData{
		"AppName":     s.config.GetAppName(),
		"Title":       title,
		"CurrentUser": ac.User,
	}
}

// adminPage adds the live user record used by the dashboard layout.
func (s *Server) adminPage(ac auth.Context, user *users.User, title, active string) viewData {
	data := s.page(ac, title)
	data["User"] = user
	data["ActivePage"] = active
	return data
}

// PostView is a post with its author and category resolved.
type PostView struct {
	*posts.Post
	Author   *users.User
	Category *categories.Category
}

type ReplyView struct {
	comments.Reply
	Author *users.User
}

type CommentView struct {
	*comments.Comment
	Author  *users.User
	Post    *posts.Post
	Replies []ReplyView
}

// UserStats summarises a user's published posts on the home page.
type UserStats struct {
	PostCount    int
	TotalViews   int64
	CommentCount int
}

func (s *Server) usersByID(ctx context.Context, ids []string) (map[string]*users.User, error) {
	list, err := s.repos.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*users.User, len(list))
	for _, u := range list {
		byID[u.ID] = u
	}
	return byID, nil
}

func (s *Server) categoriesByID(ctx context.Context) (map[string]*categories.Category, error) {
	list, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*categories.Category, len(list))
	for _, c := range list {
		byID[c.ID] = c
	}
	return byID, nil
}

func (s *Server) decoratePosts(ctx context.Context, list []*posts.Post) ([]PostView, error) {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.AuthorID)
	}
	authors, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	cats, err := s.categoriesByID(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(list))
	for _, p := range list {
		views = append(views, PostView{Post: p, Author: authors[p.AuthorID], Category: cats[p.CategoryID]})
	}
	return views, nil
}

func (s *Server) decorateComments(ctx context.Context, list []*comments.Comment, withPosts bool) ([]CommentView, error) {
	var ids []string
	for _, c := range list {
		ids = append(ids, c.AuthorIDs()...)
	}
	authors, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(list))
	for _, c := range list {
		view := CommentView{Comment: c, Author: authors[c.AuthorID]}
		for _, reply := range c.Replies {
			view.Replies = append(view.Replies, ReplyView{Reply: reply, Author: authors[reply.AuthorID]})
		}
		if withPosts {
			post, err := s.repos.Posts.GetByID(ctx, c.PostID)
			if err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
				return nil, err
			}
			view.Post = post
		}
		views = append(views, view)
	}
	return views, nil
}

// categoriesWithCounts lists every category, sorted by name, with its post count.
func (s *Server) categoriesWithCounts(ctx context.Context) ([]categories.WithCount, error) {
	list, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repos.Posts.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	withCounts := make([]categories.WithCount, 0, len(list))
	for _, c := range list {
		withCounts = append(withCounts, categories.WithCount{Category: *c, PostCount: counts[c.ID]})
	}
	sort.SliceStable(withCounts, func(i, j int) bool { return withCounts[i].Name < withCounts[j].Name })
	return withCounts, nil
}

func (s *Server) userStats(ctx context.Context, userID string) (*UserStats, error) {
	published, err := s.repos.Posts.Find(ctx, posts.Filter{PublishedOnly: true, AuthorID: userID}, 0, 0)
	if err != nil {
		return nil, err
	}
	stats := &UserStats{PostCount: len(published)}
	ids := make([]string, 0, len(published))
	for _, p := range published {
		stats.TotalViews += p.Views
		ids = append(ids, p.ID)
	}
	if stats.CommentCount, err = s.repos.Comments.CountByPosts(ctx, ids); err != nil {
		return nil, err
	}
	return stats, nil
}

// serverError logs err and answers with a bare 500.
func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.Err(err).Str("path", r.URL.Path).Msg(msg)
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
