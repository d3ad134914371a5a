package fakepostrepo

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/posts"
)

var _ posts.Repo = (*FakePostRepo)(nil)

type FakePostRepo struct {
	posts   map[string]*posts.Post
	slugIds map[string]string // slug to post id
	lock    sync.RWMutex
}

func NewFakePostRepo() *FakePostRepo {
	return &FakePostRepo{
		posts:   make(map[string]*posts.Post),
		slugIds: make(map[string]string),
	}
}

func (pr *FakePostRepo) Create(_ context.Context, post *posts.Post) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	if _, ok := pr.slugIds[post.Slug]; ok {
		return errors.Wrapf(errors.ErrInvalidInput, "slug %s already exists", post.Slug)
	}
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := posts.NowTimeFunc().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	pr.store(post)
	return nil
}

func (pr *FakePostRepo) Update(_ context.Context, post *posts.Post) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	existing, ok := pr.posts[post.ID]
	if !ok {
		return errors.ErrNotFound
	}
	if id, ok := pr.slugIds[post.Slug]; ok && id != post.ID {
		return errors.Wrapf(errors.ErrInvalidInput, "slug %s already exists", post.Slug)
	}
	delete(pr.slugIds, existing.Slug)
	post.UpdatedAt = posts.NowTimeFunc().UTC()
	pr.store(post)
	return nil
}

func (pr *FakePostRepo) store(post *posts.Post) {
	stored := copyPost(post)
	pr.posts[stored.ID] = stored
	pr.slugIds[stored.Slug] = stored.ID
}

func (pr *FakePostRepo) Delete(_ context.Context, id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	post, ok := pr.posts[id]
	if !ok {
		return errors.ErrNotFound
	}
	delete(pr.slugIds, post.Slug)
	delete(pr.posts, id)
	return nil
}

func (pr *FakePostRepo) GetByID(_ context.Context, id string) (*posts.Post, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	post, ok := pr.posts[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyPost(post), nil
}

func (pr *FakePostRepo) GetBySlug(ctx context.Context, slug string) (*posts.Post, error) {
	pr.lock.RLock()
	id, ok := pr.slugIds[slug]
	pr.lock.RUnlock()
	if !ok {
		return nil, errors.ErrNotFound
	}
	return pr.GetByID(ctx, id)
}

func (pr *FakePostRepo) matching(filter posts.Filter) []*posts.Post {
	list := make([]*posts.Post, 0)
	for _, p := range pr.posts {
		if filter.Matches(p) {
			list = append(list, copyPost(p))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if filter.SortByViews && list[i].Views != list[j].Views {
			return list[i].Views > list[j].Views
		}
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (pr *FakePostRepo) Find(_ context.Context, filter posts.Filter, offset, limit int) ([]*posts.Post, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	list := pr.matching(filter)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*posts.Post{}, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

func (pr *FakePostRepo) Count(_ context.Context, filter posts.Filter) (int, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()
	return len(pr.matching(filter)), nil
}

func (pr *FakePostRepo) Sample(_ context.Context, filter posts.Filter, n int) ([]*posts.Post, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	list := pr.matching(filter)
	rand.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	if n < len(list) {
		list = list[:n]
	}
	return list, nil
}

func (pr *FakePostRepo) IncrementViews(_ context.Context, id string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	post, ok := pr.posts[id]
	if !ok {
		return errors.ErrNotFound
	}
	post.Views++
	return nil
}

func (pr *FakePostRepo) AddComment(_ context.Context, postID, commentID string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	post, ok := pr.posts[postID]
	if !ok {
		return errors.ErrNotFound
	}
	post.CommentIDs = append(post.CommentIDs, commentID)
	return nil
}

func (pr *FakePostRepo) RemoveComment(_ context.Context, postID, commentID string) error {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	post, ok := pr.posts[postID]
	if !ok {
		return nil
	}
	kept := post.CommentIDs[:0]
	for _, id := range post.CommentIDs {
		if id != commentID {
			kept = append(kept, id)
		}
	}
	post.CommentIDs = kept
	return nil
}

func (pr *FakePostRepo) CountByCategory(_ context.Context) (map[string]int, error) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	counts := make(map[string]int)
	for _, p := range pr.posts {
		counts[p.CategoryID]++
	}
	return counts, nil
}

// SetCreatedAt backdates a post; used to build dashboard fixtures.
func (pr *FakePostRepo) SetCreatedAt(id string, createdAt time.Time) {
	pr.lock.Lock()
	defer pr.lock.Unlock()
	if post, ok := pr.posts[id]; ok {
		post.CreatedAt = createdAt
	}
}

func copyPost(p *posts.Post) *posts.Post {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	c.CommentIDs = append([]string(nil), p.CommentIDs...)
	return &c
}
