package users

import "context"

// UserRepo is the user directory.
//
// GetBy* methods return errors.ErrUserNotFound when nothing matches; Create and Update
// return errors.ErrDuplicateUser when the email (case-insensitive) or username is taken
// by another user.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	Count(ctx context.Context) (int, error)
}
