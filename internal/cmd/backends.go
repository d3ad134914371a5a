package cmd

import (
	"context"
	"fmt"
	"time"

	categoryfake "github.com/jrsteele09/go-blog-server/categories/repofake"
	commentfake "github.com/jrsteele09/go-blog-server/comments/repofake"
	"github.com/jrsteele09/go-blog-server/internal/config"
	"github.com/jrsteele09/go-blog-server/mongorepo"
	postfake "github.com/jrsteele09/go-blog-server/posts/repofake"
	"github.com/jrsteele09/go-blog-server/server"
	"github.com/jrsteele09/go-blog-server/sessions"
	"github.com/jrsteele09/go-blog-server/sessions/memstore"
	"github.com/jrsteele09/go-blog-server/sessions/redisstore"
	userfake "github.com/jrsteele09/go-blog-server/users/repofake"
	"github.com/rs/zerolog/log"
)

const janitorInterval = 5 * time.Minute

// backends holds the opened stores and how to close them.
type backends struct {
	repos    server.Repos
	sessions sessions.Store
	closers  []func(context.Context) error
}

func (b *backends) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.Err(err).Msg("failed to close backend")
		}
	}
}

// openRepos connects the document store selected by the configuration.
func openRepos(ctx context.Context, c config.Config, b *backends) error {
	switch c.GetStoreBackend() {
	case config.BackendMemory:
		log.Warn().Msg("Using the in-memory document store; data is lost on restart")
		b.repos = server.Repos{
			Users:      userfake.NewFakeUserRepo(),
			Posts:      postfake.NewFakePostRepo(),
			Comments:   commentfake.NewFakeCommentRepo(),
			Categories: categoryfake.NewFakeCategoryRepo(),
		}
	case config.BackendMongo:
		store, err := mongorepo.Connect(ctx, c.GetMongoURI(), c.GetMongoDatabase())
		if err != nil {
			return err
		}
		b.closers = append(b.closers, store.Close)
		b.repos = server.Repos{
			Users:      store.Users,
			Posts:      store.Posts,
			Comments:   store.Comments,
			Categories: store.Categories,
		}
	default:
		return fmt.Errorf("[cmd openRepos] unknown store backend %q", c.GetStoreBackend())
	}
	return nil
}

// openSessions connects the session store. The memory store gets a janitor bound to ctx.
func openSessions(ctx context.Context, c config.Config, b *backends) error {
	switch c.GetSessionBackend() {
	case config.BackendMemory:
		store := memstore.New()
		go store.RunJanitor(ctx, janitorInterval)
		b.sessions = store
	case config.BackendRedis:
		store, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func(context.Context) error { return store.Close() })
		b.sessions = store
	default:
		return fmt.Errorf("[cmd openSessions] unknown session backend %q", c.GetSessionBackend())
	}
	return nil
}

func openBackends(ctx context.Context, c config.Config) (*backends, error) {
	b := &backends{}
	if err := openRepos(ctx, c, b); err != nil {
		return nil, err
	}
	if err := openSessions(ctx, c, b); err != nil {
		b.Close(context.Background())
		return nil, err
	}
	log.Info().
		Str("store", c.GetStoreBackend()).
		Str("sessions", c.GetSessionBackend()).
		Msg("Backends ready")
	return b, nil
}
