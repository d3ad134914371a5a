package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/comments"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// ViewCommentsHandler lists every comment for admins and the caller's own otherwise.
func (s *Server) ViewCommentsHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		authorID := user.ID
		if user.IsAdmin {
			authorID = ""
		}
		list, err := s.repos.Comments.List(r.Context(), authorID)
		if err != nil {
			serverError(w, r, err, "failed to load comments")
			return
		}
		views, err := s.decorateComments(r.Context(), list, true)
		if err != nil {
			serverError(w, r, err, "failed to load comment details")
			return
		}
		data := s.adminPage(ac, user, "Comments", "comments")
		data["Comments"] = views
		data["Error"] = r.URL.Query().Get("error")
		s.views.Render(w, http.StatusOK, "admin_comments.html", data)
	}
}

// findComment returns the comment named by the id path value, nil when it does not exist.
func (s *Server) findComment(r *http.Request) (*comments.Comment, error) {
	comment, err := s.repos.Comments.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, blogerrors.ErrNotFound) {
		return nil, nil
	}
	return comment, err
}

func (s *Server) renderReplyForm(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User, status int, comment *comments.Comment, errMsg string) {
	views, err := s.decorateComments(r.Context(), []*comments.Comment{comment}, true)
	if err != nil {
		serverError(w, r, err, "failed to load comment details")
		return
	}
	data := s.adminPage(ac, user, "Reply", "comments")
	data["Comment"] = views[0]
	data["Error"] = errMsg
	s.views.Render(w, status, "admin_reply.html", data)
}

func (s *Server) ReplyCommentPageHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		comment, err := s.findComment(r)
		if err != nil {
			serverError(w, r, err, "failed to load comment")
			return
		}
		if comment == nil {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
		s.renderReplyForm(w, r, ac, user, http.StatusOK, comment, "")
	}
}

func (s *Server) ReplyCommentHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		comment, err := s.findComment(r)
		if err != nil {
			serverError(w, r, err, "failed to load comment")
			return
		}
		if comment == nil {
			http.Error(w, "Comment not found", http.StatusNotFound)
			return
		}
		post, err := s.repos.Posts.GetByID(r.Context(), comment.PostID)
		if errors.Is(err, blogerrors.ErrNotFound) {
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
			s.renderReplyForm(w, r, ac, user, http.StatusBadRequest, comment, "Reply cannot be empty")
			return
		}
		if err := s.repos.Comments.AddReply(r.Context(), comment.ID, &comments.Reply{Content: content, AuthorID: user.ID}); err != nil {
			serverError(w, r, err, "failed to save reply")
			return
		}
		redirectSuccess(w, r, pathViewComments)
	}
}

// DeleteCommentHandler removes a comment its author or an admin asked to delete.
func (s *Server) DeleteCommentHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, _ auth.Context, user *users.User) {
		ctx := r.Context()
		comment, err := s.findComment(r)
		if err != nil {
			serverError(w, r, err, "failed to load comment")
			return
		}
		authorID := ""
		if comment != nil {
			authorID = comment.AuthorID
		}
		if !auth.AuthorizeMutation(w, user, comment != nil, authorID) {
			return
		}

		if err := s.repos.Comments.Delete(ctx, comment.ID); err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
			serverError(w, r, err, "failed to delete comment")
			return
		}
		if err := s.repos.Posts.RemoveComment(ctx, comment.PostID, comment.ID); err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
			log.Err(err).Str("comment_id", comment.ID).Msg("failed to unlink comment from post")
		}
		redirectSuccess(w, r, pathViewComments)
	}
}

// DeleteReplyHandler removes one reply; ownership is judged on the reply's author.
func (s *Server) DeleteReplyHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, _ auth.Context, user *users.User) {
		comment, err := s.findComment(r)
		if err != nil {
			serverError(w, r, err, "failed to load comment")
			return
		}
		var (
			reply comments.Reply
			found bool
		)
		if comment != nil {
			reply, found = comment.Reply(r.PathValue("replyID"))
		}
		if !auth.AuthorizeMutation(w, user, found, reply.AuthorID) {
			return
		}

		if err := s.repos.Comments.DeleteReply(r.Context(), comment.ID, reply.ID); err != nil && !errors.Is(err, blogerrors.ErrNotFound) {
			serverError(w, r, err, "failed to delete reply")
			return
		}
		redirectSuccess(w, r, pathViewComments)
	}
}
