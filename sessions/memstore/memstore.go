package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/rs/zerolog/log"
)

var _ sessions.Store = (*Store)(nil)

// NowTimeFunc is overridden in tests.
var NowTimeFunc = time.Now

// Store is an in-process session store. Sessions are lost on restart.
type Store struct {
	sessions map[string]*sessions.Session
	lock     sync.Mutex
}

func New() *Store {
	return &Store{
		sessions: make(map[string]*sessions.Session),
	}
}

func (s *Store) Set(_ context.Context, sessionID string, user sessions.Snapshot, ttl time.Duration) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := NowTimeFunc()
	createdAt := now
	if existing, ok := s.sessions[sessionID]; ok && !existing.Expired(now) {
		createdAt = existing.CreatedAt
	}
	s.sessions[sessionID] = &sessions.Session{
		ID:        sessionID,
		User:      user,
		CreatedAt: createdAt,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
	}
	return nil
}

func (s *Store) Get(_ context.Context, sessionID string) (*sessions.Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, errors.ErrSessionNotFound
	}
	now := NowTimeFunc()
	if session.Expired(now) {
		delete(s.sessions, sessionID)
		return nil, errors.ErrSessionNotFound
	}
	session.ExpiresAt = now.Add(session.TTL)

	c := *session
	return &c, nil
}

func (s *Store) Destroy(_ context.Context, sessionID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.sessions)
}

// DeleteExpired removes every session that has expired at the current time.
func (s *Store) DeleteExpired() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := NowTimeFunc()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.DeleteExpired(); n > 0 {
				log.Debug().Int("removed", n).Msg("expired sessions swept")
			}
		}
	}
}
