package mongorepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/categories"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ categories.Repo = (*CategoryRepo)(nil)

type CategoryRepo struct {
	coll *mongo.Collection
}

func (cr *CategoryRepo) Create(ctx context.Context, category *categories.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now
	if category.CreatedBy == nil {
		category.CreatedBy = []string{}
	}
	if _, err := cr.coll.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("[mongorepo CategoryRepo.Create] %w", err)
	}
	return nil
}

func (cr *CategoryRepo) Update(ctx context.Context, category *categories.Category) error {
	category.UpdatedAt = time.Now().UTC()
	res, err := cr.coll.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return fmt.Errorf("[mongorepo CategoryRepo.Update] %w", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (cr *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := cr.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("[mongorepo CategoryRepo.Delete] %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (cr *CategoryRepo) findOne(ctx context.Context, filter bson.M) (*categories.Category, error) {
	var category categories.Category
	err := cr.coll.FindOne(ctx, filter).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[mongorepo CategoryRepo.findOne] %w", err)
	}
	return &category, nil
}

func (cr *CategoryRepo) GetByID(ctx context.Context, id string) (*categories.Category, error) {
	return cr.findOne(ctx, bson.M{"_id": id})
}

func (cr *CategoryRepo) GetByName(ctx context.Context, name string) (*categories.Category, error) {
	return cr.findOne(ctx, bson.M{"name": name})
}

func (cr *CategoryRepo) FindByNameTerm(ctx context.Context, term string) ([]*categories.Category, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return cr.find(ctx, "FindByNameTerm", bson.M{"name": re})
}

func (cr *CategoryRepo) List(ctx context.Context) ([]*categories.Category, error) {
	return cr.find(ctx, "List", bson.M{})
}

func (cr *CategoryRepo) find(ctx context.Context, op string, filter bson.M) ([]*categories.Category, error) {
	cur, err := cr.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("[mongorepo CategoryRepo.%s] %w", op, err)
	}
	return findAll[categories.Category](ctx, cur)
}
