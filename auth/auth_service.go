package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/token"
	"github.com/jrsteele09/go-blog-server/users"
	"github.com/rs/zerolog/log"
)

// RegisterParameters is the submitted registration form.
type RegisterParameters struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginResult is a started session and, when requested, a persistent-login token.
type LoginResult struct {
	SessionID       string
	User            *users.User
	Snapshot        sessions.Snapshot
	RememberToken   string
	RememberExpires time.Time
}

// Service runs the account flows: registration, login, logout and account deletion.
type Service struct {
	users      users.UserRepo
	sessions   sessions.Store
	tokens     *token.Manager
	sessionTTL time.Duration
	nowTime    func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(userRepo users.UserRepo, sessionStore sessions.Store, tokens *token.Manager, sessionTTL time.Duration, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[auth NewService] user repo is required")
	}
	if sessionStore == nil {
		return nil, errors.New("[auth NewService] session store is required")
	}
	if tokens == nil {
		return nil, errors.New("[auth NewService] token manager is required")
	}
	s := &Service{
		users:      userRepo,
		sessions:   sessionStore,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Register creates a non-admin user and starts a session for them.
func (s *Service) Register(ctx context.Context, params RegisterParameters) (*LoginResult, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = users.NormalizeEmail(params.Email)
	if params.Username == "" || params.Email == "" || params.Password == "" {
		return nil, blogerrors.Wrapf(blogerrors.ErrInvalidInput, "username, email and password are required")
	}
	if params.Password != params.ConfirmPassword {
		return nil, blogerrors.ErrPasswordMismatch
	}

	if err := s.ensureAvailable(ctx, params.Username, params.Email); err != nil {
		return nil, err
	}

	hash, err := users.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("[auth Register] failed to hash password: %w", err)
	}

	now := s.nowTime().UTC()
	user := &users.User{
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		Position:     users.DefaultPosition,
		IsAdmin:      false,
		DateJoined:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, blogerrors.ErrDuplicateUser) {
			return nil, blogerrors.ErrDuplicateUser
		}
		return nil, fmt.Errorf("[auth Register] %w", err)
	}

	sessionID, snapshot, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &LoginResult{SessionID: sessionID, User: user, Snapshot: snapshot}, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return blogerrors.ErrDuplicateUser
	} else if !errors.Is(err, blogerrors.ErrUserNotFound) {
		return fmt.Errorf("[auth Register] %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return blogerrors.ErrDuplicateUser
	} else if !errors.Is(err, blogerrors.ErrUserNotFound) {
		return fmt.Errorf("[auth Register] %w", err)
	}
	return nil
}

// Login checks identifier (email or username) and password and starts a session. Unknown
// users and wrong passwords both yield errors.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, identifier, password string, rememberMe bool) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, blogerrors.ErrInvalidCredentials
	}

	user, err := s.users.GetByEmailOrUsername(ctx, identifier)
	if errors.Is(err, blogerrors.ErrUserNotFound) {
		return nil, blogerrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("[auth Login] %w", err)
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, blogerrors.ErrInvalidCredentials
	}

	sessionID, snapshot, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	result := &LoginResult{SessionID: sessionID, User: user, Snapshot: snapshot}

	if rememberMe {
		result.RememberToken, result.RememberExpires, err = s.tokens.Issue(user.ID)
		if err != nil {
			return nil, fmt.Errorf("[auth Login] %w", err)
		}
	}
	log.Info().Str("user_id", user.ID).Bool("remember_me", rememberMe).Msg("user logged in")
	return result, nil
}

// IssueSession saves a fresh snapshot of user under a new session id.
func (s *Service) IssueSession(ctx context.Context, user *users.User) (string, sessions.Snapshot, error) {
	return startSession(ctx, s.sessions, user, s.sessionTTL)
}

// RefreshSession re-saves the snapshot held by sessionID from user, e.g. after a profile edit.
func (s *Service) RefreshSession(ctx context.Context, sessionID string, user *users.User) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Set(ctx, sessionID, sessions.NewSnapshot(user), s.sessionTTL); err != nil {
		return fmt.Errorf("[auth RefreshSession] %w", err)
	}
	return nil
}

// Logout destroys exactly sessionID. Other sessions of the same user stay valid.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("[auth Logout] %w", err)
	}
	return nil
}

// DeleteAccount deletes the user and destroys the invoking session.
func (s *Service) DeleteAccount(ctx context.Context, sessionID, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("[auth DeleteAccount] %w", err)
	}
	if err := s.Logout(ctx, sessionID); err != nil {
		return err
	}
	log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}
