package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-blog-server/auth"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/sessions/memstore"
	"github.com/jrsteele09/go-blog-server/token"
	"github.com/jrsteele09/go-blog-server/users"
	fakeuserrepo "github.com/jrsteele09/go-blog-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr        = "1234"
	testUserPassword = "Password123"
)

// testFixture holds all test dependencies
type testFixture struct {
	userRepo *fakeuserrepo.FakeUserRepo
	store    *memstore.Store
	tokens   *token.Manager
	guard    *auth.Guard
	service  *auth.Service
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	ur := fakeuserrepo.NewFakeUserRepo()
	store := memstore.New()
	tokens := token.New(token.NewHMACSigner(secretStr))
	cookies := auth.CookieConfig{SessionTTL: 24 * time.Hour, RememberMeTTL: token.RememberMeLifetime}

	guard, err := auth.NewGuard(ur, store, tokens, cookies)
	require.NoError(t, err)
	service, err := auth.NewService(ur, store, tokens, cookies.SessionTTL)
	require.NoError(t, err)

	return &testFixture{
		userRepo: ur,
		store:    store,
		tokens:   tokens,
		guard:    guard,
		service:  service,
	}
}

// createUser stores a user with testUserPassword
func (f *testFixture) createUser(t *testing.T, username string, isAdmin bool) *users.User {
	t.Helper()
	hash, err := users.HashPassword(testUserPassword)
	require.NoError(t, err)

	u := &users.User{
		FirstName:    strings.ToUpper(username[:1]) + username[1:],
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: hash,
		Position:     users.DefaultPosition,
		IsAdmin:      isAdmin,
		Address:      users.Address{City: "Leeds"},
	}
	require.NoError(t, f.userRepo.Create(context.Background(), u))
	return u
}

// startSession stores a session for snapshot and returns its id
func (f *testFixture) startSession(t *testing.T, snapshot sessions.Snapshot) string {
	t.Helper()
	id, err := sessions.NewSessionID()
	require.NoError(t, err)
	require.NoError(t, f.store.Set(context.Background(), id, snapshot, time.Hour))
	return id
}

func (f *testFixture) rememberToken(t *testing.T, userID string) string {
	t.Helper()
	raw, _, err := f.tokens.Issue(userID)
	require.NoError(t, err)
	return raw
}

func newRequest(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func sessionCookie(id string) *http.Cookie {
	return &http.Cookie{Name: auth.SessionCookieName, Value: id}
}

func rememberCookie(raw string) *http.Cookie {
	return &http.Cookie{Name: auth.RememberMeCookieName, Value: raw}
}

// responseCookie returns the last Set-Cookie for name
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func requireCleared(t *testing.T, rec *httptest.ResponseRecorder, name string) {
	t.Helper()
	c := responseCookie(rec, name)
	require.NotNil(t, c, "expected %s to be cleared", name)
	require.Empty(t, c.Value)
	require.Less(t, c.MaxAge, 0)
}

func requireLoginRedirect(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, auth.LoginPath, rec.Header().Get("Location"))
}

func TestGuard_Resolve(t *testing.T) {
	t.Run("no session and no cookie is anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := httptest.NewRecorder()

		ac := f.guard.Resolve(rec, newRequest())
		require.False(t, ac.Authenticated())
		require.Empty(t, ac.UserID())
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("live session wins", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		sid := f.startSession(t, sessions.NewSnapshot(alice))

		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(sessionCookie(sid), rememberCookie("garbage")))
		require.True(t, ac.Authenticated())
		require.False(t, ac.Promoted)
		require.Equal(t, sid, ac.SessionID)
		require.Equal(t, alice.ID, ac.User.ID)
		require.Nil(t, responseCookie(rec, auth.RememberMeCookieName))
	})

	t.Run("valid token promotes with the live admin flag", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		raw := f.rememberToken(t, alice.ID)

		alice.IsAdmin = true
		require.NoError(t, f.userRepo.Update(context.Background(), alice))

		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(rememberCookie(raw)))
		require.True(t, ac.Authenticated())
		require.True(t, ac.Promoted)
		require.True(t, ac.User.IsAdmin)

		c := responseCookie(rec, auth.SessionCookieName)
		require.NotNil(t, c)
		require.Equal(t, ac.SessionID, c.Value)
		require.True(t, c.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)

		stored, err := f.store.Get(context.Background(), ac.SessionID)
		require.NoError(t, err)
		require.Equal(t, alice.ID, stored.User.ID)
	})

	t.Run("tampered token is anonymous and clears the cookie", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		raw := f.rememberToken(t, alice.ID)
		parts := strings.Split(raw, ".")
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(rememberCookie(tampered)))
		require.False(t, ac.Authenticated())
		requireCleared(t, rec, auth.RememberMeCookieName)
		require.Equal(t, 0, f.store.Len())
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		raw, _, err := token.New(token.NewHMACSigner("other")).Issue(alice.ID)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(rememberCookie(raw)))
		require.False(t, ac.Authenticated())
		requireCleared(t, rec, auth.RememberMeCookieName)
	})

	t.Run("token for a deleted user clears the cookie", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		raw := f.rememberToken(t, alice.ID)
		require.NoError(t, f.userRepo.Delete(context.Background(), alice.ID))

		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(rememberCookie(raw)))
		require.False(t, ac.Authenticated())
		requireCleared(t, rec, auth.RememberMeCookieName)
	})

	t.Run("expired session cookie is cleared then the token is tried", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		raw := f.rememberToken(t, alice.ID)

		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(sessionCookie("gone"), rememberCookie(raw)))
		require.True(t, ac.Promoted)
		require.NotEqual(t, "gone", ac.SessionID)

		c := responseCookie(rec, auth.SessionCookieName)
		require.NotNil(t, c)
		require.Equal(t, ac.SessionID, c.Value)
	})

	t.Run("expired session cookie alone is anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := httptest.NewRecorder()
		ac := f.guard.Resolve(rec, newRequest(sessionCookie("gone")))
		require.False(t, ac.Authenticated())
		requireCleared(t, rec, auth.SessionCookieName)
	})

	t.Run("concurrent promotions may create separate sessions", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		raw := f.rememberToken(t, alice.ID)

		first := f.guard.Resolve(httptest.NewRecorder(), newRequest(rememberCookie(raw)))
		second := f.guard.Resolve(httptest.NewRecorder(), newRequest(rememberCookie(raw)))
		require.NotEqual(t, first.SessionID, second.SessionID)
		require.Equal(t, 2, f.store.Len())
	})
}

func TestGuard_RequireAuthenticated(t *testing.T) {
	f := setupTestFixture(t)
	alice := f.createUser(t, "alice", false)
	called := false
	h := f.guard.RequireAuthenticated(func(w http.ResponseWriter, r *http.Request, ac auth.Context) {
		called = true
		require.Equal(t, alice.ID, ac.UserID())
	})

	t.Run("anonymous redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, newRequest())
		requireLoginRedirect(t, rec)
		require.False(t, called)
	})

	t.Run("htmx requests get HX-Redirect", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := newRequest()
		r.Header.Set("HX-Request", "true")
		h(rec, r)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, auth.LoginPath, rec.Header().Get("HX-Redirect"))
	})

	t.Run("session passes", func(t *testing.T) {
		sid := f.startSession(t, sessions.NewSnapshot(alice))
		rec := httptest.NewRecorder()
		h(rec, newRequest(sessionCookie(sid)))
		require.True(t, called)
	})
}

func TestGuard_RequireFullUser(t *testing.T) {
	t.Run("passes the live record", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		sid := f.startSession(t, sessions.Snapshot{ID: alice.ID, Username: "stale-name"})

		var got *users.User
		rec := httptest.NewRecorder()
		f.guard.RequireFullUser(func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
			got = user
		})(rec, newRequest(sessionCookie(sid)))

		require.NotNil(t, got)
		require.Equal(t, "alice", got.Username)
		require.Equal(t, "Leeds", got.Address.City)
	})

	t.Run("deleted user with a lingering session is 404", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		sid := f.startSession(t, sessions.NewSnapshot(alice))
		require.NoError(t, f.userRepo.Delete(context.Background(), alice.ID))

		rec := httptest.NewRecorder()
		f.guard.RequireFullUser(func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
			t.Fatal("handler must not run")
		})(rec, newRequest(sessionCookie(sid), rememberCookie("stale")))

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "User not found")
		requireCleared(t, rec, auth.RememberMeCookieName)
	})

	t.Run("anonymous redirects to login", func(t *testing.T) {
		f := setupTestFixture(t)
		rec := httptest.NewRecorder()
		f.guard.RequireFullUser(func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
			t.Fatal("handler must not run")
		})(rec, newRequest())
		requireLoginRedirect(t, rec)
	})
}

func TestGuard_RequireAdmin(t *testing.T) {
	adminHandler := func(called *bool) auth.UserHandler {
		return func(w http.ResponseWriter, r *http.Request, ac auth.Context, user *users.User) {
			*called = true
			w.WriteHeader(http.StatusOK)
		}
	}

	t.Run("anonymous is redirected", func(t *testing.T) {
		f := setupTestFixture(t)
		called := false
		rec := httptest.NewRecorder()
		f.guard.RequireAdmin(adminHandler(&called))(rec, newRequest())
		requireLoginRedirect(t, rec)
		require.False(t, called)
	})

	t.Run("stale admin snapshot is denied", func(t *testing.T) {
		f := setupTestFixture(t)
		alice := f.createUser(t, "alice", false)
		snapshot := sessions.NewSnapshot(alice)
		snapshot.IsAdmin = true
		sid := f.startSession(t, snapshot)

		called := false
		rec := httptest.NewRecorder()
		f.guard.RequireAdmin(adminHandler(&called))(rec, newRequest(sessionCookie(sid)))
		requireLoginRedirect(t, rec)
		require.False(t, called)
	})

	t.Run("missing user is the same bare redirect", func(t *testing.T) {
		f := setupTestFixture(t)
		sid := f.startSession(t, sessions.Snapshot{ID: "ghost", IsAdmin: true})

		called := false
		rec := httptest.NewRecorder()
		f.guard.RequireAdmin(adminHandler(&called))(rec, newRequest(sessionCookie(sid)))
		requireLoginRedirect(t, rec)
		require.False(t, called)
	})

	t.Run("admin flag flipped live is honoured without a new login", func(t *testing.T) {
		f := setupTestFixture(t)
		ctx := context.Background()

		result, err := f.service.Register(ctx, auth.RegisterParameters{
			Username:        "alice",
			Email:           "alice@x.com",
			Password:        testUserPassword,
			ConfirmPassword: testUserPassword,
		})
		require.NoError(t, err)
		require.False(t, result.Snapshot.IsAdmin)

		user, err := f.userRepo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		user.IsAdmin = true
		require.NoError(t, f.userRepo.Update(ctx, user))

		called := false
		rec := httptest.NewRecorder()
		f.guard.RequireAdmin(adminHandler(&called))(rec, newRequest(sessionCookie(result.SessionID)))
		require.True(t, called)
		require.Equal(t, http.StatusOK, rec.Code)

		stored, err := f.store.Get(ctx, result.SessionID)
		require.NoError(t, err)
		require.False(t, stored.User.IsAdmin)
	})

	t.Run("promoted admin passes", func(t *testing.T) {
		f := setupTestFixture(t)
		admin := f.createUser(t, "root", true)

		called := false
		rec := httptest.NewRecorder()
		f.guard.RequireAdmin(adminHandler(&called))(rec, newRequest(rememberCookie(f.rememberToken(t, admin.ID))))
		require.True(t, called)
	})
}

func TestNewGuard_RequiresCollaborators(t *testing.T) {
	_, err := auth.NewGuard(nil, memstore.New(), token.New(token.NewHMACSigner(secretStr)), auth.CookieConfig{})
	require.Error(t, err)
	_, err = auth.NewGuard(fakeuserrepo.NewFakeUserRepo(), nil, token.New(token.NewHMACSigner(secretStr)), auth.CookieConfig{})
	require.Error(t, err)
	_, err = auth.NewGuard(fakeuserrepo.NewFakeUserRepo(), memstore.New(), nil, auth.CookieConfig{})
	require.Error(t, err)
}

func TestCookieConfig_Secure(t *testing.T) {
	cfg := auth.CookieConfig{SessionTTL: time.Hour}

	rec := httptest.NewRecorder()
	r := newRequest()
	r.Header.Set("X-Forwarded-Proto", "https")
	cfg.SetSessionCookie(rec, r, "abc")
	c := responseCookie(rec, auth.SessionCookieName)
	require.True(t, c.Secure)
	require.Equal(t, 3600, c.MaxAge)

	rec = httptest.NewRecorder()
	cfg.SetSessionCookie(rec, newRequest(), "abc")
	require.False(t, responseCookie(rec, auth.SessionCookieName).Secure)

	rec = httptest.NewRecorder()
	auth.CookieConfig{AlwaysSecure: true}.SetRememberMeCookie(rec, newRequest(), "tok")
	require.True(t, responseCookie(rec, auth.RememberMeCookieName).Secure)
}
