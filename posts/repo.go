package posts

import (
	"context"
	"strings"
)

// Filter selects posts. Zero values do not filter.
type Filter struct {
	PublishedOnly bool
	AuthorID      string
	CategoryID    string
	// Term is a case-insensitive substring matched against title, content and tags.
	Term string
	// TermCategoryIDs also match when Term is set, for categories whose name matched.
	TermCategoryIDs []string
	// SortByViews orders by views descending instead of newest first.
	SortByViews bool
}

// Repo stores posts. Lookups of a missing post return errors.ErrNotFound.
type Repo interface {
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	// Find returns matching posts; limit 0 means no limit.
	Find(ctx context.Context, filter Filter, offset, limit int) ([]*Post, error)
	Count(ctx context.Context, filter Filter) (int, error)
	// Sample returns up to n random matching posts.
	Sample(ctx context.Context, filter Filter, n int) ([]*Post, error)
	IncrementViews(ctx context.Context, id string) error
	AddComment(ctx context.Context, postID, commentID string) error
	RemoveComment(ctx context.Context, postID, commentID string) error
	// CountByCategory returns the number of posts per category id.
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// Matches reports whether p satisfies the filter.
func (f Filter) Matches(p *Post) bool {
	if f.PublishedOnly && !p.IsPublished() {
		return false
	}
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Term == "" {
		return true
	}

	term := strings.ToLower(f.Term)
	if strings.Contains(strings.ToLower(p.Title), term) || strings.Contains(strings.ToLower(p.Content), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	for _, id := range f.TermCategoryIDs {
		if p.CategoryID == id {
			return true
		}
	}
	return false
}
