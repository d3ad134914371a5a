package mongorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection      = "users"
	postsCollection      = "posts"
	commentsCollection   = "comment"
	categoriesCollection = "categories"
)

// caseInsensitive makes string comparisons ignore case; used for usernames.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Store owns the client and the repos built on one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Users      *UserRepo
	Posts      *PostRepo
	Comments   *CommentRepo
	Categories *CategoryRepo
}

// Connect dials MongoDB, verifies the connection and ensures indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("[mongorepo Connect] failed to create client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("[mongorepo Connect] failed to reach %s: %w", database, err)
	}

	db := client.Database(database)
	s := &Store{
		client:     client,
		db:         db,
		Users:      &UserRepo{coll: db.Collection(usersCollection)},
		Posts:      &PostRepo{coll: db.Collection(postsCollection)},
		Comments:   &CommentRepo{coll: db.Collection(commentsCollection)},
		Categories: &CategoryRepo{coll: db.Collection(categoriesCollection)},
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("database", database).Msg("connected to MongoDB")
	return s, nil
}

// EnsureIndexes creates the unique and lookup indexes the repos rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "author", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		commentsCollection: {
			{Keys: bson.D{{Key: "post", Value: 1}}},
			{Keys: bson.D{{Key: "author", Value: 1}}},
		},
		categoriesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
	}
	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("[mongorepo EnsureIndexes] %s: %w", collection, err)
		}
	}
	return nil
}

// Ping checks the connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Drop removes the whole database; tests use it to clean up.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// findAll decodes every document of cur into a slice of T pointers.
func findAll[T any](ctx context.Context, cur *mongo.Cursor) ([]*T, error) {
	defer cur.Close(ctx)
	list := make([]*T, 0)
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		list = append(list, &item)
	}
	return list, cur.Err()
}
