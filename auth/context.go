package auth

import "github.com/jrsteele09/go-blog-server/sessions"

// Context is the authorization context resolved once per request and passed to handlers by
// parameter. User is the session snapshot, nil for an anonymous request.
type Context struct {
	SessionID string
	User      *sessions.Snapshot
	// Promoted is true when the session was created on this request from a remember-me token.
	Promoted bool
}

// Anonymous is the context of a request with no identity.
var Anonymous = Context{}

func (c Context) Authenticated() bool {
	return c.User != nil
}

// UserID returns the snapshot's user id, empty when anonymous.
func (c Context) UserID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}
