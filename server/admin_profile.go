package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// ProfileHandler shows the caller's live profile and connections.
func (s *Server) ProfileHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		connections, err := s.repos.Users.GetByIDs(r.Context(), user.Connections)
		if err != nil {
			serverError(w, r, err, "failed to load connections")
			return
		}
		data := s.adminPage(ac, user, "Profile", "profile")
		data["Connections"] = connections
		data["Error"] = r.URL.Query().Get("error")
		s.views.Render(w, http.StatusOK, "admin_profile.html", data)
	}
}

func (s *Server) renderProfileForm(w http.ResponseWriter, ac auth.Context, user, form *users.User, status int, errMsg string) {
	data := s.adminPage(ac, user, "Edit Profile", "profile")
	data["Form"] = form
	data["Error"] = errMsg
	s.views.Render(w, status, "admin_profile_form.html", data)
}

func (s *Server) EditProfilePageHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		s.renderProfileForm(w, ac, user, user, http.StatusOK, "")
	}
}

// identityConflict names the first of username or email already held by another user.
func (s *Server) identityConflict(ctx context.Context, self *users.User) (string, error) {
	if other, err := s.repos.Users.GetByUsername(ctx, self.Username); err == nil && other.ID != self.ID {
		return "Username already taken", nil
	} else if err != nil && !errors.Is(err, blogerrors.ErrUserNotFound) {
		return "", err
	}
	if other, err := s.repos.Users.GetByEmail(ctx, self.Email); err == nil && other.ID != self.ID {
		return "Email already in use", nil
	} else if err != nil && !errors.Is(err, blogerrors.ErrUserNotFound) {
		return "", err
	}
	return "", nil
}

// EditProfileHandler saves the profile and re-saves the session snapshot from it.
func (s *Server) EditProfileHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		ctx := r.Context()
		updated := *user
		updated.FirstName = strings.TrimSpace(r.FormValue("firstName"))
		updated.LastName = strings.TrimSpace(r.FormValue("lastName"))
		updated.Username = strings.TrimSpace(r.FormValue("username"))
		updated.Email = users.NormalizeEmail(r.FormValue("email"))
		updated.Position = strings.TrimSpace(r.FormValue("position"))
		updated.Phone = strings.TrimSpace(r.FormValue("phone"))
		updated.Bio = strings.TrimSpace(r.FormValue("bio"))
		updated.Picture = strings.TrimSpace(r.FormValue("profilePicture"))
		updated.Address = users.Address{
			Street:     strings.TrimSpace(r.FormValue("street")),
			City:       strings.TrimSpace(r.FormValue("city")),
			State:      strings.TrimSpace(r.FormValue("state")),
			PostalCode: strings.TrimSpace(r.FormValue("postalCode")),
			Country:    strings.TrimSpace(r.FormValue("country")),
		}

		if updated.Username == "" || updated.Email == "" {
			s.renderProfileForm(w, ac, user, &updated, http.StatusBadRequest, "Username and email are required")
			return
		}
		conflict, err := s.identityConflict(ctx, &updated)
		if err != nil {
			serverError(w, r, err, "failed to check profile uniqueness")
			return
		}
		if conflict != "" {
			s.renderProfileForm(w, ac, user, &updated, http.StatusBadRequest, conflict)
			return
		}

		if err := s.repos.Users.Update(ctx, &updated); err != nil {
			if errors.Is(err, blogerrors.ErrDuplicateUser) {
				s.renderProfileForm(w, ac, user, &updated, http.StatusBadRequest, "Username or email already in use")
				return
			}
			log.Err(err).Str("user_id", user.ID).Msg("failed to update profile")
			redirectWithError(w, r, pathEditProfile, "Failed to update profile")
			return
		}
		if err := s.accounts.RefreshSession(ctx, ac.SessionID, &updated); err != nil {
			log.Err(err).Str("user_id", user.ID).Msg("failed to refresh session snapshot")
		}
		redirectSuccess(w, r, pathAdminProfile)
	}
}

// ProfileLogoutHandler is the dashboard's logout button.
func (s *Server) ProfileLogoutHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		if err := s.endSession(w, r, ac); err != nil {
			log.Err(err).Msg("failed to destroy session")
			redirectWithError(w, r, pathAdmin, "Failed to log out")
			return
		}
		redirectSuccess(w, r, RouteLogin)
	}
}

// DeleteProfileHandler deletes the caller's account and ends the current session.
// Posts and comments written by the account are kept.
func (s *Server) DeleteProfileHandler() auth.UserHandler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
		if err := s.accounts.DeleteAccount(r.Context(), ac.SessionID, user.ID); err != nil {
			log.Err(err).Str("user_id", user.ID).Msg("failed to delete account")
			redirectWithError(w, r, pathAdminProfile, "Failed to delete account")
			return
		}
		cookies := s.guard.Cookies()
		cookies.ClearSessionCookie(w, r)
		cookies.ClearRememberMeCookie(w, r)
		redirectSuccess(w, r, RouteLogin)
	}
}
