package mongorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/comments"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ comments.Repo = (*CommentRepo)(nil)

type CommentRepo struct {
	coll *mongo.Collection
}

func (cr *CommentRepo) Create(ctx context.Context, comment *comments.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	if comment.Replies == nil {
		comment.Replies = []comments.Reply{}
	}
	if _, err := cr.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("[mongorepo CommentRepo.Create] %w", err)
	}
	return nil
}

func (cr *CommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	var comment comments.Comment
	err := cr.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[mongorepo CommentRepo.GetByID] %w", err)
	}
	return &comment, nil
}

func (cr *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := cr.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("[mongorepo CommentRepo.Delete] %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (cr *CommentRepo) List(ctx context.Context, authorID string) ([]*comments.Comment, error) {
	filter := bson.M{}
	if authorID != "" {
		filter["author"] = authorID
	}
	return cr.find(ctx, "List", filter, -1)
}

func (cr *CommentRepo) ListByPost(ctx context.Context, postID string) ([]*comments.Comment, error) {
	return cr.find(ctx, "ListByPost", bson.M{"post": postID}, 1)
}

func (cr *CommentRepo) find(ctx context.Context, op string, filter bson.M, order int) ([]*comments.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}, {Key: "_id", Value: 1}})
	cur, err := cr.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("[mongorepo CommentRepo.%s] %w", op, err)
	}
	return findAll[comments.Comment](ctx, cur)
}

func (cr *CommentRepo) AddReply(ctx context.Context, commentID string, reply *comments.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	res, err := cr.coll.UpdateOne(ctx, bson.M{"_id": commentID}, bson.M{"$push": bson.M{"replies": reply}})
	if err != nil {
		return fmt.Errorf("[mongorepo CommentRepo.AddReply] %w", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (cr *CommentRepo) DeleteReply(ctx context.Context, commentID, replyID string) error {
	res, err := cr.coll.UpdateOne(ctx,
		bson.M{"_id": commentID, "replies._id": replyID},
		bson.M{"$pull": bson.M{"replies": bson.M{"_id": replyID}}})
	if err != nil {
		return fmt.Errorf("[mongorepo CommentRepo.DeleteReply] %w", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (cr *CommentRepo) CountByPosts(ctx context.Context, postIDs []string) (int, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	n, err := cr.coll.CountDocuments(ctx, bson.M{"post": bson.M{"$in": postIDs}})
	if err != nil {
		return 0, fmt.Errorf("[mongorepo CommentRepo.CountByPosts] %w", err)
	}
	return int(n), nil
}
