package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/internal/telemetry"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/token"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// LoginPath is where unauthenticated and unauthorized requests are sent.
const LoginPath = "/login"

// Handler receives the resolved authorization context.
type Handler func(w http.ResponseWriter, r *http.Request, ac Context)

// UserHandler additionally receives the live user record.
type UserHandler func(w http.ResponseWriter, r *http.Request, ac Context, user *users.User)

// Guard resolves who is making a request and gates handlers on the result.
type Guard struct {
	users    users.UserRepo
	sessions sessions.Store
	tokens   *token.Manager
	cookies  CookieConfig
}

func NewGuard(userRepo users.UserRepo, sessionStore sessions.Store, tokens *token.Manager, cookies CookieConfig) (*Guard, error) {
	if userRepo == nil {
		return nil, errors.New("[auth NewGuard] user repo is required")
	}
	if sessionStore == nil {
		return nil, errors.New("[auth NewGuard] session store is required")
	}
	if tokens == nil {
		return nil, errors.New("[auth NewGuard] token manager is required")
	}
	return &Guard{
		users:    userRepo,
		sessions: sessionStore,
		tokens:   tokens,
		cookies:  cookies,
	}, nil
}

// Cookies returns the cookie attributes the guard writes with.
func (g *Guard) Cookies() CookieConfig {
	return g.cookies
}

// Resolve produces the authorization context for r:
//  1. a live session for the session cookie wins;
//  2. otherwise a valid remember-me token for an existing user is promoted into a new session;
//  3. otherwise the request is anonymous.
//
// A session cookie naming a missing session is cleared, and so is a remember-me cookie that
// fails verification or names a deleted user.
func (g *Guard) Resolve(w http.ResponseWriter, r *http.Request) Context {
	ctx, span := telemetry.StartSpan(r.Context(), "auth.resolve")
	defer span.End()

	ac := g.resolve(ctx, w, r)
	span.SetAttributes(
		attribute.Bool("auth.authenticated", ac.Authenticated()),
		attribute.Bool("auth.promoted", ac.Promoted),
	)
	return ac
}

func (g *Guard) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) Context {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		session, err := g.sessions.Get(ctx, cookie.Value)
		switch {
		case err == nil:
			snapshot := session.User
			return Context{SessionID: session.ID, User: &snapshot}
		case errors.Is(err, blogerrors.ErrSessionNotFound):
			g.cookies.ClearSessionCookie(w, r)
		default:
			log.Err(err).Msg("session lookup failed")
		}
	}

	cookie, err := r.Cookie(RememberMeCookieName)
	if err != nil || cookie.Value == "" {
		return Anonymous
	}
	return g.promote(ctx, w, r, cookie.Value)
}

func (g *Guard) promote(ctx context.Context, w http.ResponseWriter, r *http.Request, rawToken string) Context {
	claims, err := g.tokens.Verify(rawToken)
	if err != nil {
		log.Debug().Err(err).Msg("remember-me token rejected")
		g.cookies.ClearRememberMeCookie(w, r)
		return Anonymous
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, blogerrors.ErrUserNotFound) {
		log.Debug().Str("user_id", claims.UserID).Msg("remember-me token for deleted user")
		g.cookies.ClearRememberMeCookie(w, r)
		return Anonymous
	}
	if err != nil {
		log.Err(err).Str("user_id", claims.UserID).Msg("remember-me user lookup failed")
		return Anonymous
	}

	sessionID, snapshot, err := startSession(ctx, g.sessions, user, g.cookies.SessionTTL)
	if err != nil {
		log.Err(err).Str("user_id", user.ID).Msg("remember-me promotion failed")
		return Anonymous
	}
	g.cookies.SetSessionCookie(w, r, sessionID)

	log.Info().Str("user_id", user.ID).Msg("session restored from remember-me token")
	return Context{SessionID: sessionID, User: &snapshot, Promoted: true}
}

// startSession saves a fresh snapshot of user under a new session id.
func startSession(ctx context.Context, store sessions.Store, user *users.User, ttl time.Duration) (string, sessions.Snapshot, error) {
	sessionID, err := sessions.NewSessionID()
	if err != nil {
		return "", sessions.Snapshot{}, err
	}
	snapshot := sessions.NewSnapshot(user)
	if err := store.Set(ctx, sessionID, snapshot, ttl); err != nil {
		return "", sessions.Snapshot{}, fmt.Errorf("[auth startSession] %w", err)
	}
	return sessionID, snapshot, nil
}

// Public resolves the context and always calls h.
func (g *Guard) Public(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, g.Resolve(w, r))
	}
}

// RequireAuthenticated redirects anonymous requests to the login page.
func (g *Guard) RequireAuthenticated(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := g.Resolve(w, r)
		if !ac.Authenticated() {
			redirectToLogin(w, r)
			return
		}
		h(w, r, ac)
	}
}

// RequireFullUser is RequireAuthenticated plus a live read of the user record. A valid
// session whose user no longer exists is answered with 404, distinct from a login redirect.
func (g *Guard) RequireFullUser(h UserHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := g.Resolve(w, r)
		if !ac.Authenticated() {
			redirectToLogin(w, r)
			return
		}

		user, err := g.users.GetByID(r.Context(), ac.User.ID)
		if errors.Is(err, blogerrors.ErrUserNotFound) {
			log.Warn().Str("user_id", ac.User.ID).Msg("session refers to a deleted user")
			g.cookies.ClearRememberMeCookie(w, r)
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Err(err).Str("user_id", ac.User.ID).Msg("failed to load user")
			redirectToLogin(w, r)
			return
		}
		h(w, r, ac, user)
	}
}

// RequireAdmin re-reads the user and checks the live admin flag; the snapshot's flag is
// never consulted. Every failure is the same bare login redirect.
func (g *Guard) RequireAdmin(h UserHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := g.Resolve(w, r)
		if !ac.Authenticated() {
			redirectToLogin(w, r)
			return
		}

		user, err := g.users.GetByID(r.Context(), ac.User.ID)
		if err != nil {
			if !errors.Is(err, blogerrors.ErrUserNotFound) {
				log.Err(err).Str("user_id", ac.User.ID).Msg("failed to load user")
			}
			redirectToLogin(w, r)
			return
		}
		if !user.IsAdmin {
			redirectToLogin(w, r)
			return
		}
		h(w, r, ac, user)
	}
}

// redirectToLogin is htmx aware
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", LoginPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}
