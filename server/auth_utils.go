package server

import (
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
)

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// landingPath is where a freshly logged in user is sent.
func landingPath(isAdmin bool) string {
	if isAdmin {
		return pathAdmin
	}
	return pathHome
}

// endSession destroys the request's session and clears both auth cookies.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, ac auth.Context) error {
	cookies := s.guard.Cookies()
	cookies.ClearSessionCookie(w, r)
	cookies.ClearRememberMeCookie(w, r)
	return s.accounts.Logout(r.Context(), ac.SessionID)
}

// clientIP is the address used to throttle login attempts. X-Forwarded-For is only read when
// the connection comes from a trusted proxy; the rightmost hop that is not itself a trusted
// proxy is the client.
func (s *Server) clientIP(r *http.Request) string {
	remote := remoteHost(r.RemoteAddr)
	if !s.isTrustedProxy(remote) {
		return remote
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !s.isTrustedProxy(hop) {
			return hop
		}
	}
	return remote
}

func (s *Server) isTrustedProxy(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range s.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
