package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAverageViews(t *testing.T) {
	require.Equal(t, "0", averageViews(0, 0))
	require.Equal(t, "0", averageViews(40, 0))
	require.Equal(t, "3.33", averageViews(10, 3))
	require.Equal(t, "12.00", averageViews(24, 2))
}

func TestLoginLimiter(t *testing.T) {
	t.Run("disabled limiter allows everything", func(t *testing.T) {
		var l *loginLimiter = newLoginLimiter(0)
		require.Nil(t, l)
		for i := 0; i < 100; i++ {
			require.True(t, l.allow("1.2.3.4", time.Now()))
		}
	})

	t.Run("burst then refill", func(t *testing.T) {
		l := newLoginLimiter(3)
		now := time.Now()
		for i := 0; i < 3; i++ {
			require.True(t, l.allow("1.2.3.4", now))
		}
		require.False(t, l.allow("1.2.3.4", now))
		require.True(t, l.allow("5.6.7.8", now))
		require.True(t, l.allow("1.2.3.4", now.Add(20*time.Second)))
	})

	t.Run("allow does not sweep", func(t *testing.T) {
		l := newLoginLimiter(1)
		now := time.Now()
		require.True(t, l.allow("1.2.3.4", now))
		l.allow("5.6.7.8", now.Add(limiterIdleTTL+time.Minute))
		require.Len(t, l.visitors, 2)
	})

	t.Run("sweep forgets idle visitors", func(t *testing.T) {
		l := newLoginLimiter(1)
		now := time.Now()
		l.allow("1.2.3.4", now)
		l.allow("5.6.7.8", now.Add(limiterIdleTTL))
		require.Equal(t, 1, l.sweep(now.Add(limiterIdleTTL+time.Minute)))
		require.Len(t, l.visitors, 1)
		require.Contains(t, l.visitors, "5.6.7.8")
	})

	t.Run("nil limiter sweeps nothing", func(t *testing.T) {
		var l *loginLimiter
		require.Zero(t, l.sweep(time.Now()))
	})
}

func TestClientIP(t *testing.T) {
	proxies, err := parseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
	require.NoError(t, err)
	s := &Server{trustedProxies: proxies}

	request := func(remote, forwarded string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/login", nil)
		r.RemoteAddr = remote
		if forwarded != "" {
			r.Header.Set("X-Forwarded-For", forwarded)
		}
		return r
	}

	require.Equal(t, "203.0.113.5", s.clientIP(request("203.0.113.5:4000", "1.1.1.1")))
	require.Equal(t, "198.51.100.7", s.clientIP(request("192.0.2.1:4000", "198.51.100.7")))
	require.Equal(t, "198.51.100.7", s.clientIP(request("192.0.2.1:4000", "6.6.6.6, 198.51.100.7, 10.1.2.3")))
	require.Equal(t, "192.0.2.1", s.clientIP(request("192.0.2.1:4000", "")))
	require.Equal(t, "10.0.0.9", s.clientIP(request("10.0.0.9:4000", "10.0.0.8")))
}
