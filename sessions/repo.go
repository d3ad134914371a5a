package sessions

import (
	"context"
	"time"
)

// Store holds sessions keyed by session ID.
//
// Get returns errors.ErrSessionNotFound for an unknown or expired ID; the two cases are
// indistinguishable. A successful Get slides the expiry forward by the session's TTL.
// Destroy removes exactly one ID and succeeds when the ID is already gone.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Session, error)
	Set(ctx context.Context, sessionID string, user Snapshot, ttl time.Duration) error
	Destroy(ctx context.Context, sessionID string) error
}
