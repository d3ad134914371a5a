package fakecommentrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/comments"
	"github.com/jrsteele09/go-blog-server/internal/errors"
)

var _ comments.Repo = (*FakeCommentRepo)(nil)

type FakeCommentRepo struct {
	comments map[string]*comments.Comment
	lock     sync.RWMutex
}

func NewFakeCommentRepo() *FakeCommentRepo {
	return &FakeCommentRepo{
		comments: make(map[string]*comments.Comment),
	}
}

func (cr *FakeCommentRepo) Create(_ context.Context, comment *comments.Comment) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	cr.comments[comment.ID] = copyComment(comment)
	return nil
}

func (cr *FakeCommentRepo) GetByID(_ context.Context, id string) (*comments.Comment, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	comment, ok := cr.comments[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyComment(comment), nil
}

func (cr *FakeCommentRepo) Delete(_ context.Context, id string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.comments[id]; !ok {
		return errors.ErrNotFound
	}
	delete(cr.comments, id)
	return nil
}

func (cr *FakeCommentRepo) filter(keep func(*comments.Comment) bool, newestFirst bool) []*comments.Comment {
	list := make([]*comments.Comment, 0)
	for _, c := range cr.comments {
		if keep(c) {
			list = append(list, copyComment(c))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		if newestFirst {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (cr *FakeCommentRepo) List(_ context.Context, authorID string) ([]*comments.Comment, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	return cr.filter(func(c *comments.Comment) bool {
		return authorID == "" || c.AuthorID == authorID
	}, true), nil
}

func (cr *FakeCommentRepo) ListByPost(_ context.Context, postID string) ([]*comments.Comment, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	return cr.filter(func(c *comments.Comment) bool {
		return c.PostID == postID
	}, false), nil
}

func (cr *FakeCommentRepo) AddReply(_ context.Context, commentID string, reply *comments.Reply) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	comment, ok := cr.comments[commentID]
	if !ok {
		return errors.ErrNotFound
	}
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	comment.Replies = append(comment.Replies, *reply)
	return nil
}

func (cr *FakeCommentRepo) DeleteReply(_ context.Context, commentID, replyID string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	comment, ok := cr.comments[commentID]
	if !ok {
		return errors.ErrNotFound
	}
	for i, r := range comment.Replies {
		if r.ID == replyID {
			comment.Replies = append(comment.Replies[:i], comment.Replies[i+1:]...)
			return nil
		}
	}
	return errors.ErrNotFound
}

func (cr *FakeCommentRepo) CountByPosts(_ context.Context, postIDs []string) (int, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	wanted := make(map[string]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}
	n := 0
	for _, c := range cr.comments {
		if _, ok := wanted[c.PostID]; ok {
			n++
		}
	}
	return n, nil
}

func copyComment(c *comments.Comment) *comments.Comment {
	cp := *c
	cp.Replies = append([]comments.Reply(nil), c.Replies...)
	return &cp
}
