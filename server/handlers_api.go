package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/pagination"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

const excerptLength = 200

// APIAuthor is the public part of a user exposed by the JSON routes.
type APIAuthor struct {
	Username       string `json:"username"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type APICategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// APIPost is one entry of a lazy-loaded page of posts.
type APIPost struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Slug      string       `json:"slug"`
	Excerpt   string       `json:"excerpt"`
	Thumbnail string       `json:"thumbnail,omitempty"`
	Tags      []string     `json:"tags"`
	Views     int64        `json:"views"`
	CreatedAt time.Time    `json:"created_at"`
	Author    *APIAuthor   `json:"author,omitempty"`
	Category  *APICategory `json:"category,omitempty"`
}

func toAPIPosts(list []PostView) []APIPost {
	out := make([]APIPost, 0, len(list))
	for _, p := range list {
		entry := APIPost{
			ID:        p.ID,
			Title:     p.Title,
			Slug:      p.Slug,
			Excerpt:   posts.Excerpt(p.Content, excerptLength),
			Thumbnail: p.Thumbnail,
			Tags:      p.Tags,
			Views:     p.Views,
			CreatedAt: p.CreatedAt,
		}
		if p.Author != nil {
			entry.Author = toAPIAuthor(p.Author)
		}
		if p.Category != nil {
			entry.Category = &APICategory{ID: p.Category.ID, Name: p.Category.Name}
		}
		out = append(out, entry)
	}
	return out
}

func toAPIAuthor(u *users.User) *APIAuthor {
	return &APIAuthor{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName, ProfilePicture: u.Picture}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// apiPostPage answers with one JSON page of posts matching filter.
func (s *Server) apiPostPage(w http.ResponseWriter, r *http.Request, filter posts.Filter) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))
	list, _, err := s.postPage(r.Context(), filter, page)
	if err != nil {
		log.Err(err).Str("path", r.URL.Path).Msg("failed to load posts")
		writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, toAPIPosts(list))
}

func (s *Server) APIPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.apiPostPage(w, r, posts.Filter{PublishedOnly: true})
	}
}

func (s *Server) APIUserPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, err := s.repos.Users.GetByUsername(r.Context(), r.PathValue("username"))
		if errors.Is(err, blogerrors.ErrUserNotFound) {
			writeJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Err(err).Msg("failed to load user")
			writeJSONError(w, http.StatusInternalServerError, "Server error")
			return
		}
		s.apiPostPage(w, r, posts.Filter{PublishedOnly: true, AuthorID: author.ID})
	}
}

func (s *Server) APICategoryPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := s.repos.Categories.GetByName(r.Context(), r.PathValue("name"))
		if errors.Is(err, blogerrors.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			log.Err(err).Msg("failed to load category")
			writeJSONError(w, http.StatusInternalServerError, "Server error")
			return
		}
		s.apiPostPage(w, r, posts.Filter{PublishedOnly: true, CategoryID: category.ID})
	}
}

func (s *Server) APISearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := s.searchFilter(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
		if err != nil {
			log.Err(err).Msg("failed to search categories")
			writeJSONError(w, http.StatusInternalServerError, "Server error")
			return
		}
		s.apiPostPage(w, r, filter)
	}
}

// PreflightHandler answers CORS preflight requests for the API; CorsMiddleware does the work.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// ValidatePasswordHandler returns htmx feedback on password strength
func (s *Server) ValidatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if password == "" {
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := users.ValidatePasswordStrength(password); err != nil {
			w.Header().Set("HX-Trigger", `{"passwordInvalid": ""}`)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `<span class="text-danger">%s</span>`, template.HTMLEscapeString(err.Error()))
			return
		}

		w.Header().Set("HX-Trigger", `{"passwordValid": ""}`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `<span class="text-success">Strong password</span>`)
	}
}
