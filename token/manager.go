package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
)

// RememberMeLifetime is the fixed lifetime of a persistent-login token.
const RememberMeLifetime = 30 * 24 * time.Hour

// NowTimeFunc is overridden in tests.
var NowTimeFunc = time.Now

// RememberMeClaims is the payload of the persistent-login token: {userId, exp, iat}.
type RememberMeClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Manager issues and verifies persistent-login tokens. Verification is pure computation;
// whether the user still exists is the caller's concern.
type Manager struct {
	signer   Signer
	lifetime time.Duration
}

func New(signer Signer) *Manager {
	return &Manager{
		signer:   signer,
		lifetime: RememberMeLifetime,
	}
}

// Issue returns a signed token for userID and its expiry.
func (m *Manager) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("[token Issue] user id is required: %w", blogerrors.ErrInvalidInput)
	}

	now := NowTimeFunc().UTC().Truncate(time.Second)
	expiresAt := now.Add(m.lifetime)
	claims := RememberMeClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("[token Issue] %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry. An expired token yields
// errors.ErrTokenExpired; any other failure yields errors.ErrInvalidToken.
func (m *Manager) Verify(rawToken string) (*RememberMeClaims, error) {
	claims := &RememberMeClaims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, blogerrors.Wrapf(blogerrors.ErrTokenExpired, "[token Verify]")
		}
		return nil, fmt.Errorf("[token Verify] %v: %w", err, blogerrors.ErrInvalidToken)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("[token Verify] missing user id: %w", blogerrors.ErrInvalidToken)
	}
	return claims, nil
}
