package mongorepo

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ posts.Repo = (*PostRepo)(nil)

type PostRepo struct {
	coll *mongo.Collection
}

func (pr *PostRepo) Create(ctx context.Context, post *posts.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := posts.NowTimeFunc().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	initPostSlices(post)

	if _, err := pr.coll.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(errors.ErrInvalidInput, "slug %s already exists", post.Slug)
		}
		return fmt.Errorf("[mongorepo PostRepo.Create] %w", err)
	}
	return nil
}

func (pr *PostRepo) Update(ctx context.Context, post *posts.Post) error {
	post.UpdatedAt = posts.NowTimeFunc().UTC()
	initPostSlices(post)

	res, err := pr.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(errors.ErrInvalidInput, "slug %s already exists", post.Slug)
		}
		return fmt.Errorf("[mongorepo PostRepo.Update] %w", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (pr *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := pr.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("[mongorepo PostRepo.Delete] %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (pr *PostRepo) findOne(ctx context.Context, filter bson.M) (*posts.Post, error) {
	var post posts.Post
	err := pr.coll.FindOne(ctx, filter).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[mongorepo PostRepo.findOne] %w", err)
	}
	return &post, nil
}

func (pr *PostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	return pr.findOne(ctx, bson.M{"_id": id})
}

func (pr *PostRepo) GetBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	return pr.findOne(ctx, bson.M{"slug": slug})
}

func (pr *PostRepo) Find(ctx context.Context, filter posts.Filter, offset, limit int) ([]*posts.Post, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}
	if filter.SortByViews {
		sort = bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	opts := options.Find().SetSort(sort).SetSkip(int64(max(offset, 0)))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := pr.coll.Find(ctx, postQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("[mongorepo PostRepo.Find] %w", err)
	}
	return findAll[posts.Post](ctx, cur)
}

func (pr *PostRepo) Count(ctx context.Context, filter posts.Filter) (int, error) {
	n, err := pr.coll.CountDocuments(ctx, postQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("[mongorepo PostRepo.Count] %w", err)
	}
	return int(n), nil
}

func (pr *PostRepo) Sample(ctx context.Context, filter posts.Filter, n int) ([]*posts.Post, error) {
	if n <= 0 {
		return []*posts.Post{}, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: postQuery(filter)}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cur, err := pr.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("[mongorepo PostRepo.Sample] %w", err)
	}
	return findAll[posts.Post](ctx, cur)
}

func (pr *PostRepo) IncrementViews(ctx context.Context, id string) error {
	return pr.updateOne(ctx, "IncrementViews", id, bson.M{"$inc": bson.M{"views": 1}})
}

func (pr *PostRepo) AddComment(ctx context.Context, postID, commentID string) error {
	return pr.updateOne(ctx, "AddComment", postID, bson.M{"$addToSet": bson.M{"comments": commentID}})
}

func (pr *PostRepo) RemoveComment(ctx context.Context, postID, commentID string) error {
	return pr.updateOne(ctx, "RemoveComment", postID, bson.M{"$pull": bson.M{"comments": commentID}})
}

func (pr *PostRepo) updateOne(ctx context.Context, op, id string, update bson.M) error {
	res, err := pr.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("[mongorepo PostRepo.%s] %w", op, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (pr *PostRepo) CountByCategory(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := pr.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("[mongorepo PostRepo.CountByCategory] %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[string]int)
	for cur.Next(ctx) {
		var row struct {
			CategoryID string `bson:"_id"`
			Count      int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("[mongorepo PostRepo.CountByCategory] %w", err)
		}
		if row.CategoryID != "" {
			counts[row.CategoryID] = row.Count
		}
	}
	return counts, cur.Err()
}

// postQuery translates a Filter into the equivalent MongoDB query.
func postQuery(f posts.Filter) bson.M {
	q := bson.M{}
	if f.PublishedOnly {
		q["status"] = posts.StatusPublished
	}
	if f.AuthorID != "" {
		q["author"] = f.AuthorID
	}
	if f.CategoryID != "" {
		q["category"] = f.CategoryID
	}
	if f.Term != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Term), Options: "i"}
		or := bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
			bson.M{"tags": re},
		}
		if len(f.TermCategoryIDs) > 0 {
			or = append(or, bson.M{"category": bson.M{"$in": f.TermCategoryIDs}})
		}
		q["$or"] = or
	}
	return q
}

func initPostSlices(p *posts.Post) {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.CommentIDs == nil {
		p.CommentIDs = []string{}
	}
}
