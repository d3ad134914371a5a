package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// loginLimiter throttles login attempts per client address. A nil limiter allows everything.
type loginLimiter struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	visitors map[string]*visitor
}

func newLoginLimiter(perMinute int) *loginLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &loginLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		visitors: make(map[string]*visitor),
	}
}

func (l *loginLimiter) allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep forgets clients idle for longer than limiterIdleTTL and returns how many were removed.
func (l *loginLimiter) sweep(now time.Time) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTTL {
			delete(l.visitors, k)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle login-throttle entries every interval until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.loginLimiter == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.loginLimiter.sweep(now); n > 0 {
				log.Debug().Int("removed", n).Msg("idle login limiters swept")
			}
		}
	}
}

// RateLimitMiddleware answers 429 once a client exceeds its login budget.
func (s *Server) RateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := s.clientIP(r)
		if !s.loginLimiter.allow(ip, time.Now()) {
			log.Warn().Str("client", ip).Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many login attempts, try again later", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
