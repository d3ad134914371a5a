package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/jrsteele09/go-blog-server/users"
)

// Snapshot is the denormalised copy of a user held in a session. It is captured at login or
// registration and only refreshed when explicitly re-saved, so it may go stale relative to
// the user record. Use it for display; re-read the user for anything security sensitive.
type Snapshot struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Position       string `json:"position"`
	IsAdmin        bool   `json:"isAdmin"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// NewSnapshot copies the session-visible fields of u.
func NewSnapshot(u *users.User) Snapshot {
	return Snapshot{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Username:       u.Username,
		Email:          u.Email,
		Position:       u.Position,
		IsAdmin:        u.IsAdmin,
		ProfilePicture: u.Picture,
	}
}

// DisplayName returns "First Last", falling back to the username.
func (s Snapshot) DisplayName() string {
	if s.FirstName == "" && s.LastName == "" {
		return s.Username
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Session is the store-held authentication state keyed by an opaque identifier.
type Session struct {
	ID        string        `json:"id"`
	User      Snapshot      `json:"user"`
	CreatedAt time.Time     `json:"createdAt"`
	ExpiresAt time.Time     `json:"expiresAt"`
	TTL       time.Duration `json:"ttl"`
}

// Expired reports whether the session has passed its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

const sessionIDBytes = 32

// NewSessionID returns an unguessable, URL-safe session identifier.
func NewSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("[sessions NewSessionID] failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
