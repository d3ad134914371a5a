package posts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	blogerrors "github.com/jrsteele09/go-blog-server/internal/errors"
)

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
)

// NowTimeFunc is overridden in tests.
var NowTimeFunc = time.Now

type Post struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Slug          string    `json:"slug" bson:"slug"`
	Content       string    `json:"content" bson:"content"`
	CategoryID    string    `json:"category_id" bson:"category"`
	Thumbnail     string    `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"` // URL
	AuthorID      string    `json:"author_id" bson:"author"`
	Tags          []string  `json:"tags" bson:"tags"`
	Status        Status    `json:"status" bson:"status"`
	Views         int64     `json:"views" bson:"views"`
	CommentIDs    []string  `json:"comment_ids,omitempty" bson:"comments"`
	AllowComments bool      `json:"allow_comments" bson:"allowComments"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"`
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// Validate checks the fields every stored post must carry.
func (p *Post) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return blogerrors.Wrapf(blogerrors.ErrInvalidInput, "title is required")
	case strings.TrimSpace(p.Content) == "":
		return blogerrors.Wrapf(blogerrors.ErrInvalidInput, "content is required")
	case p.AuthorID == "":
		return blogerrors.Wrapf(blogerrors.ErrInvalidInput, "author is required")
	case p.Status != StatusPublished && p.Status != StatusDraft:
		return blogerrors.Wrapf(blogerrors.ErrInvalidInput, "unknown status %q", p.Status)
	}
	return nil
}

// ParseStatus maps form input to a status, defaulting to draft.
func ParseStatus(raw string) Status {
	if Status(strings.ToLower(strings.TrimSpace(raw))) == StatusPublished {
		return StatusPublished
	}
	return StatusDraft
}

// ParseTags splits a comma separated tag list, dropping blanks.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// MakeSlug returns the lower-case, URL-safe slug of title.
func MakeSlug(title string) string {
	return slug.Make(title)
}

// AssignSlug sets p.Slug from its title. When another post already owns the slug a
// "-<unix millis>" suffix is appended.
func AssignSlug(ctx context.Context, repo Repo, p *Post) error {
	base := MakeSlug(p.Title)
	if base == "" {
		base = "post"
	}

	existing, err := repo.GetBySlug(ctx, base)
	switch {
	case errors.Is(err, blogerrors.ErrNotFound):
		p.Slug = base
	case err != nil:
		return fmt.Errorf("[posts AssignSlug] %w", err)
	case existing.ID == p.ID && p.ID != "":
		p.Slug = base
	default:
		p.Slug = base + "-" + strconv.FormatInt(NowTimeFunc().UnixMilli(), 10)
	}
	return nil
}

// Excerpt shortens text to at most length characters, ending in "..." when cut.
func Excerpt(text string, length int) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	if length <= 3 {
		return string(runes[:length])
	}
	return string(runes[:length-3]) + "..."
}

// MonthViews is one point of the dashboard views series.
type MonthViews struct {
	Label string `json:"label"` // e.g. "January 2006"
	Views int64  `json:"views"`
}

// MonthlyViews sums the views of posts created in each of the last months calendar months
// up to and including now's month, oldest first.
func MonthlyViews(list []*Post, now time.Time, months int) []MonthViews {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	series := make([]MonthViews, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0)
		series[i].Label = month.Format("January 2006")
		index[month.Format("2006-01")] = i
	}

	for _, p := range list {
		if i, ok := index[p.CreatedAt.In(now.Location()).Format("2006-01")]; ok {
			series[i].Views += p.Views
		}
	}
	return series
}
