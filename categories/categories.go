package categories

import (
	"context"
	"strings"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
)

type Category struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	CreatedBy []string  `json:"created_by" bson:"createdBy"` // user ids
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// WithCount pairs a category with the number of posts filed under it.
type WithCount struct {
	Category
	PostCount int `json:"post_count"`
}

func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "name is required")
	}
	return nil
}

// Repo stores categories. Lookups of a missing category return errors.ErrNotFound.
type Repo interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Category, error)
	// GetByName matches the exact name.
	GetByName(ctx context.Context, name string) (*Category, error)
	// FindByNameTerm returns categories whose name contains term, case-insensitively.
	FindByNameTerm(ctx context.Context, term string) ([]*Category, error)
	// List returns every category sorted by name.
	List(ctx context.Context) ([]*Category, error)
}
