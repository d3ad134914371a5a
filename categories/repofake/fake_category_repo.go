package fakecategoryrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-blog-server/categories"
	"github.com/jrsteele09/go-blog-server/internal/errors"
)

var _ categories.Repo = (*FakeCategoryRepo)(nil)

type FakeCategoryRepo struct {
	categories map[string]*categories.Category
	lock       sync.RWMutex
}

func NewFakeCategoryRepo() *FakeCategoryRepo {
	return &FakeCategoryRepo{
		categories: make(map[string]*categories.Category),
	}
}

func (cr *FakeCategoryRepo) Create(_ context.Context, category *categories.Category) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now
	cr.categories[category.ID] = copyCategory(category)
	return nil
}

func (cr *FakeCategoryRepo) Update(_ context.Context, category *categories.Category) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.categories[category.ID]; !ok {
		return errors.ErrNotFound
	}
	category.UpdatedAt = time.Now().UTC()
	cr.categories[category.ID] = copyCategory(category)
	return nil
}

func (cr *FakeCategoryRepo) Delete(_ context.Context, id string) error {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	if _, ok := cr.categories[id]; !ok {
		return errors.ErrNotFound
	}
	delete(cr.categories, id)
	return nil
}

func (cr *FakeCategoryRepo) GetByID(_ context.Context, id string) (*categories.Category, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	c, ok := cr.categories[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return copyCategory(c), nil
}

func (cr *FakeCategoryRepo) GetByName(ctx context.Context, name string) (*categories.Category, error) {
	list, err := cr.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (cr *FakeCategoryRepo) FindByNameTerm(ctx context.Context, term string) ([]*categories.Category, error) {
	list, err := cr.List(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	found := make([]*categories.Category, 0)
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), term) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (cr *FakeCategoryRepo) List(_ context.Context) ([]*categories.Category, error) {
	cr.lock.RLock()
	defer cr.lock.RUnlock()

	list := make([]*categories.Category, 0, len(cr.categories))
	for _, c := range cr.categories {
		list = append(list, copyCategory(c))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func copyCategory(c *categories.Category) *categories.Category {
	cp := *c
	cp.CreatedBy = append([]string(nil), c.CreatedBy...)
	return &cp
}
