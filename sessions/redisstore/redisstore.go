package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Store = (*Store)(nil)

const keyPrefix = "session:"

// Config holds Redis connection configuration
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store keeps sessions in Redis as JSON under session:<id>, with the key TTL carrying the
// expiry.
type Store struct {
	client *redis.Client
}

// Connect dials Redis and verifies the connection with a PING.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  orDefault(cfg.DialTimeout, 5*time.Second),
		ReadTimeout:  orDefault(cfg.ReadTimeout, 3*time.Second),
		WriteTimeout: orDefault(cfg.WriteTimeout, 3*time.Second),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("[redisstore Connect] failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return New(client), nil
}

// New wraps an existing client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func orDefault(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}
	return d
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *Store) Set(ctx context.Context, sessionID string, user sessions.Snapshot, ttl time.Duration) error {
	now := time.Now().UTC()
	session := sessions.Session{
		ID:        sessionID,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[redisstore Set] failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("[redisstore Set] failed to store session: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, sessionID string) (*sessions.Session, error) {
	data, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, errors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[redisstore Get] failed to read session: %w", err)
	}

	var session sessions.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("[redisstore Get] failed to unmarshal session: %w", err)
	}

	if session.TTL > 0 {
		ok, err := s.client.Expire(ctx, key(sessionID), session.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("[redisstore Get] failed to refresh session expiry: %w", err)
		}
		if !ok {
			// expired between GET and EXPIRE
			return nil, errors.ErrSessionNotFound
		}
		session.ExpiresAt = time.Now().UTC().Add(session.TTL)
	}
	return &session, nil
}

func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("[redisstore Destroy] failed to delete session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
