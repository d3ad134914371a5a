package fakeuserrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory UserRepo. Stored users are copied on the way in and out so
// callers never share state with the repo.
type FakeUserRepo struct {
	users       map[string]*users.User
	emailIds    map[string]string // lower-cased email to user id
	usernameIds map[string]string // lower-cased username to user id
	lock        sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:       make(map[string]*users.User),
		emailIds:    make(map[string]string),
		usernameIds: make(map[string]string),
	}
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user.Normalize()
	if _, ok := ur.emailIds[user.Email]; ok {
		return errors.Wrapf(errors.ErrDuplicateUser, "email %s", user.Email)
	}
	if _, ok := ur.usernameIds[usernameKey(user.Username)]; ok {
		return errors.Wrapf(errors.ErrDuplicateUser, "username %s", user.Username)
	}

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

	ur.store(user)
	return nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return errors.ErrUserNotFound
	}

	user.Normalize()
	if id, ok := ur.emailIds[user.Email]; ok && id != user.ID {
		return errors.Wrapf(errors.ErrDuplicateUser, "email %s", user.Email)
	}
	if id, ok := ur.usernameIds[usernameKey(user.Username)]; ok && id != user.ID {
		return errors.Wrapf(errors.ErrDuplicateUser, "username %s", user.Username)
	}

	delete(ur.emailIds, existing.Email)
	delete(ur.usernameIds, usernameKey(existing.Username))
	user.UpdatedAt = time.Now().UTC()
	ur.store(user)
	return nil
}

func (ur *FakeUserRepo) store(user *users.User) {
	stored := copyUser(user)
	ur.users[user.ID] = stored
	ur.emailIds[stored.Email] = stored.ID
	ur.usernameIds[usernameKey(stored.Username)] = stored.ID
}

func (ur *FakeUserRepo) Delete(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return errors.ErrUserNotFound
	}
	delete(ur.emailIds, user.Email)
	delete(ur.usernameIds, usernameKey(user.Username))
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (ur *FakeUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.emailIds[users.NormalizeEmail(email)]
	ur.lock.RUnlock()
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return ur.GetByID(ctx, id)
}

func (ur *FakeUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	id, ok := ur.usernameIds[usernameKey(username)]
	ur.lock.RUnlock()
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return ur.GetByID(ctx, id)
}

func (ur *FakeUserRepo) GetByEmailOrUsername(ctx context.Context, identifier string) (*users.User, error) {
	user, err := ur.GetByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	return ur.GetByUsername(ctx, identifier)
}

func (ur *FakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	found := make([]*users.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := ur.users[id]; ok {
			found = append(found, copyUser(user))
		}
	}
	return found, nil
}

func (ur *FakeUserRepo) List(_ context.Context, offset, limit int) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		userList = append(userList, copyUser(v))
	}

	sort.Slice(userList, func(i, j int) bool {
		if userList[i].CreatedAt.Equal(userList[j].CreatedAt) {
			return userList[i].ID < userList[j].ID
		}
		return userList[i].CreatedAt.Before(userList[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(userList) {
		return []*users.User{}, nil
	}
	end := len(userList)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userList[offset:end], nil
}

func (ur *FakeUserRepo) Count(_ context.Context) (int, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users), nil
}

func copyUser(u *users.User) *users.User {
	c := *u
	c.Connections = append([]string(nil), u.Connections...)
	c.FriendRequestsSent = append([]string(nil), u.FriendRequestsSent...)
	c.FriendRequestsReceived = append([]string(nil), u.FriendRequestsReceived...)
	c.BlockedUsers = append([]string(nil), u.BlockedUsers...)
	return &c
}
