package comments

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-blog-server/internal/errors"
)

// Reply is a single answer to a comment, embedded in it.
type Reply struct {
	ID        string    `json:"id" bson:"_id"`
	Content   string    `json:"content" bson:"content"`
	AuthorID  string    `json:"author_id" bson:"author"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Content   string    `json:"content" bson:"content"`
	PostID    string    `json:"post_id" bson:"post"`
	AuthorID  string    `json:"author_id" bson:"author"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	Replies   []Reply   `json:"replies" bson:"replies"`
}

// Reply returns the reply with replyID, if present.
func (c *Comment) Reply(replyID string) (Reply, bool) {
	for _, r := range c.Replies {
		if r.ID == replyID {
			return r, true
		}
	}
	return Reply{}, false
}

// AuthorIDs returns the distinct author ids of the comment and its replies.
func (c *Comment) AuthorIDs() []string {
	seen := map[string]struct{}{}
	ids := []string{}
	add := func(id string) {
		if _, ok := seen[id]; id != "" && !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	add(c.AuthorID)
	for _, r := range c.Replies {
		add(r.AuthorID)
	}
	return ids
}

// ValidateContent rejects blank comment or reply text.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "content is required")
	}
	return nil
}
