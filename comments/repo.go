package comments

import "context"

// Repo stores comments with their embedded replies. Lookups of a missing comment or reply
// return errors.ErrNotFound.
type Repo interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	Delete(ctx context.Context, id string) error
	// List returns comments newest first; an empty authorID lists every comment.
	List(ctx context.Context, authorID string) ([]*Comment, error)
	// ListByPost returns a post's comments oldest first.
	ListByPost(ctx context.Context, postID string) ([]*Comment, error)
	// AddReply assigns reply.ID when empty.
	AddReply(ctx context.Context, commentID string, reply *Reply) error
	DeleteReply(ctx context.Context, commentID, replyID string) error
	// CountByPosts counts the comments on any of postIDs.
	CountByPosts(ctx context.Context, postIDs []string) (int, error)
}
