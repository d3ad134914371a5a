package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/categories"
	"github.com/jrsteele09/go-blog-server/comments"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/token"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// Repos groups the content stores the handlers read and write.
type Repos struct {
	Users      users.UserRepo
	Posts      posts.Repo
	Comments   comments.Repo
	Categories categories.Repo
}

func (r Repos) validate() error {
	switch {
	case r.Users == nil:
		return errors.New("user repo is required")
	case r.Posts == nil:
		return errors.New("post repo is required")
	case r.Comments == nil:
		return errors.New("comment repo is required")
	case r.Categories == nil:
		return errors.New("category repo is required")
	}
	return nil
}

type Server struct {
	env          string // Environment (e.g., "DEV", "PROD")
	mux          *http.ServeMux
	routes       []string
	config       config.Config
	repos        Repos
	guard        *auth.Guard
	accounts     *auth.Service
	views        *Renderer
	loginLimiter *loginLimiter

	trustedProxies []netip.Prefix
}

func New(config config.Config, repos Repos, sessionStore sessions.Store) (*Server, error) {
	if err := repos.validate(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	tokens := token.New(token.NewHMACSigner(config.GetSecretKey()))
	cookies := auth.CookieConfig{
		SessionTTL:    config.GetSessionTTL(),
		RememberMeTTL: token.RememberMeLifetime,
		AlwaysSecure:  config.GetSecureCookies(),
	}
	guard, err := auth.NewGuard(repos.Users, sessionStore, tokens, cookies)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create guard: %w", err)
	}
	accounts, err := auth.NewService(repos.Users, sessionStore, tokens, config.GetSessionTTL())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create account service: %w", err)
	}
	trustedProxies, err := parseTrustedProxies(config.GetTrustedProxies())
	if err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	views, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:          config.GetEnv(),
		mux:          http.NewServeMux(),
		config:       config,
		repos:        repos,
		guard:        guard,
		accounts:     accounts,
		views:        views,
		loginLimiter: newLoginLimiter(config.GetLoginRatePerMinute()),

		trustedProxies: trustedProxies,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// parseTrustedProxies accepts bare addresses and CIDR ranges.
func parseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

func logRouteError(method, path string, err error) {
	log.Warn().Err(err).Msgf("[%-19s] %s", colourMethod(method), path)
}
