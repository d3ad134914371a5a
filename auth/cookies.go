package auth

import (
	"net/http"
	"time"
)

const (
	// SessionCookieName carries the session id
	SessionCookieName = "loggedInSessionId"
	// RememberMeCookieName carries the persistent-login token
	RememberMeCookieName = "rememberMe"
)

// CookieConfig controls the attributes of the cookies the guard writes.
type CookieConfig struct {
	SessionTTL    time.Duration
	RememberMeTTL time.Duration
	// AlwaysSecure forces the Secure attribute; otherwise it follows the request scheme.
	AlwaysSecure bool
}

func (c CookieConfig) secure(r *http.Request) bool {
	return c.AlwaysSecure || getScheme(r) == "https"
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// SetSessionCookie writes the session cookie for sessionID.
func (c CookieConfig) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.SessionTTL.Seconds()),
	})
}

// ClearSessionCookie expires the session cookie on the client.
func (c CookieConfig) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SetRememberMeCookie writes the persistent-login token cookie.
func (c CookieConfig) SetRememberMeCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberMeCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.RememberMeTTL.Seconds()),
	})
}

// ClearRememberMeCookie expires the persistent-login token cookie on the client.
func (c CookieConfig) ClearRememberMeCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberMeCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
