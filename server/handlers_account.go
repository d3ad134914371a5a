package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// registerForm is echoed back into the form on error; the password never is.
type registerForm struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
}

func (s *Server) RegisterPageHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		data := s.page(ac, "Register")
		data["Form"] = registerForm{}
		s.views.Render(w, http.StatusOK, "register.html", data)
	}
}

// RegisterHandler creates a non-admin account and logs it in.
func (s *Server) RegisterHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		params := auth.RegisterParameters{
			FirstName:       r.FormValue("firstName"),
			LastName:        r.FormValue("lastName"),
			Username:        r.FormValue("username"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirmPassword"),
		}
		form := registerForm{
			FirstName: strings.TrimSpace(params.FirstName),
			LastName:  strings.TrimSpace(params.LastName),
			Username:  strings.TrimSpace(params.Username),
			Email:     strings.TrimSpace(params.Email),
		}
		fail := func(status int, msg string) {
			data := s.page(ac, "Register")
			data["Form"] = form
			data["Error"] = msg
			s.views.Render(w, status, "register.html", data)
		}

		if params.Password != params.ConfirmPassword {
			fail(http.StatusBadRequest, "Passwords do not match")
			return
		}
		if err := users.ValidatePasswordStrength(params.Password); err != nil {
			fail(http.StatusBadRequest, "Password "+strings.TrimPrefix(err.Error(), "password "))
			return
		}

		result, err := s.accounts.Register(r.Context(), params)
		switch {
		case err == nil:
		case errors.Is(err, blogerrors.ErrDuplicateUser):
			fail(http.StatusBadRequest, "Username or email already exists")
			return
		case errors.Is(err, blogerrors.ErrPasswordMismatch):
			fail(http.StatusBadRequest, "Passwords do not match")
			return
		case errors.Is(err, blogerrors.ErrInvalidInput):
			fail(http.StatusBadRequest, "Username, email and password are required")
			return
		default:
			log.Err(err).Msg("registration failed")
			fail(http.StatusInternalServerError, "Server error during registration")
			return
		}

		s.guard.Cookies().SetSessionCookie(w, r, result.SessionID)
		redirectSuccess(w, r, landingPath(result.User.IsAdmin))
	}
}

// LoginPageHandler sends already authenticated visitors home, including those whose
// remember-me token was just promoted into a session.
func (s *Server) LoginPageHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		if ac.Authenticated() {
			http.Redirect(w, r, pathHome, http.StatusSeeOther)
			return
		}
		data := s.page(ac, "Login")
		data["Error"] = r.URL.Query().Get("error")
		s.views.Render(w, http.StatusOK, "login.html", data)
	}
}

// LoginHandler checks the credentials, starts a session and optionally sets the
// remember-me cookie.
func (s *Server) LoginHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		identifier := strings.TrimSpace(r.FormValue("email"))
		rememberMe := r.FormValue("rememberMe") != ""

		result, err := s.accounts.Login(r.Context(), identifier, r.FormValue("password"), rememberMe)
		if err != nil {
			status, msg := http.StatusUnauthorized, "Invalid email or password"
			if !errors.Is(err, blogerrors.ErrInvalidCredentials) {
				log.Err(err).Msg("login failed")
				status, msg = http.StatusInternalServerError, "Server error during login"
			}
			data := s.page(ac, "Login")
			data["Error"] = msg
			data["Identifier"] = identifier
			s.views.Render(w, status, "login.html", data)
			return
		}

		cookies := s.guard.Cookies()
		// replace any session the browser was already holding
		if ac.SessionID != "" && ac.SessionID != result.SessionID {
			if err := s.accounts.Logout(r.Context(), ac.SessionID); err != nil {
				log.Err(err).Msg("failed to destroy previous session")
			}
		}
		cookies.SetSessionCookie(w, r, result.SessionID)
		if result.RememberToken != "" {
			cookies.SetRememberMeCookie(w, r, result.RememberToken)
		}
		redirectSuccess(w, r, landingPath(result.User.IsAdmin))
	}
}

// LogoutHandler destroys only the current session and forgets the remember-me token.
func (s *Server) LogoutHandler() auth.Handler {
	return func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		if err := s.endSession(w, r, ac); err != nil {
			log.Err(err).Msg("failed to destroy session")
		}
		redirectSuccess(w, r, RouteLogin)
	}
}
