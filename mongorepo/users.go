package mongorepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ users.UserRepo = (*UserRepo)(nil)

type UserRepo struct {
	coll *mongo.Collection
}

func (ur *UserRepo) Create(ctx context.Context, user *users.User) error {
	user.Normalize()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = now
	}
	user.UpdatedAt = now
	initUserSlices(user)

	if _, err := ur.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(errors.ErrDuplicateUser, "[mongorepo UserRepo.Create]")
		}
		return fmt.Errorf("[mongorepo UserRepo.Create] %w", err)
	}
	return nil
}

func (ur *UserRepo) Update(ctx context.Context, user *users.User) error {
	user.Normalize()
	user.UpdatedAt = time.Now().UTC()
	initUserSlices(user)

	res, err := ur.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Wrapf(errors.ErrDuplicateUser, "[mongorepo UserRepo.Update]")
		}
		return fmt.Errorf("[mongorepo UserRepo.Update] %w", err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (ur *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := ur.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("[mongorepo UserRepo.Delete] %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (ur *UserRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*users.User, error) {
	var user users.User
	err := ur.coll.FindOne(ctx, filter, opts...).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("[mongorepo UserRepo.findOne] %w", err)
	}
	return &user, nil
}

func (ur *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return ur.findOne(ctx, bson.M{"_id": id})
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return ur.findOne(ctx, bson.M{"email": users.NormalizeEmail(email)})
}

func (ur *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return ur.findOne(ctx, bson.M{"username": strings.TrimSpace(username)},
		options.FindOne().SetCollation(caseInsensitive))
}

func (ur *UserRepo) GetByEmailOrUsername(ctx context.Context, identifier string) (*users.User, error) {
	if user, err := ur.GetByEmail(ctx, identifier); err == nil || !errors.Is(err, errors.ErrUserNotFound) {
		return user, err
	}
	return ur.GetByUsername(ctx, identifier)
}

func (ur *UserRepo) GetByIDs(ctx context.Context, ids []string) ([]*users.User, error) {
	if len(ids) == 0 {
		return []*users.User{}, nil
	}
	cur, err := ur.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("[mongorepo UserRepo.GetByIDs] %w", err)
	}
	return findAll[users.User](ctx, cur)
}

func (ur *UserRepo) List(ctx context.Context, offset, limit int) ([]*users.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(max(offset, 0)))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := ur.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("[mongorepo UserRepo.List] %w", err)
	}
	return findAll[users.User](ctx, cur)
}

func (ur *UserRepo) Count(ctx context.Context) (int, error) {
	n, err := ur.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("[mongorepo UserRepo.Count] %w", err)
	}
	return int(n), nil
}

// initUserSlices stores empty arrays rather than null so $push works on them.
func initUserSlices(u *users.User) {
	if u.Connections == nil {
		u.Connections = []string{}
	}
	if u.FriendRequestsSent == nil {
		u.FriendRequestsSent = []string{}
	}
	if u.FriendRequestsReceived == nil {
		u.FriendRequestsReceived = []string{}
	}
	if u.BlockedUsers == nil {
		u.BlockedUsers = []string{}
	}
}
