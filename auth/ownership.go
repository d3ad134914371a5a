package auth

import (
	"net/http"

	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/jrsteele09/go-blog-server/users"
)

// CanMutate reports whether user may change a resource authored by authorID: admins may
// change anything, everyone else only what they wrote. Pass the live user record.
func CanMutate(user *users.User, authorID string) bool {
	if user == nil {
		return false
	}
	if user.IsAdmin {
		return true
	}
	return authorID != "" && user.ID == authorID
}

// CheckMutation decides a mutation of a resource that may not exist. Non-admins get
// errors.ErrForbidden whether the resource is missing or someone else's, so a denial never
// reveals existence; admins get errors.ErrNotFound for a missing resource.
func CheckMutation(user *users.User, found bool, authorID string) error {
	if user == nil {
		return errors.ErrForbidden
	}
	if !found {
		if user.IsAdmin {
			return errors.ErrNotFound
		}
		return errors.ErrForbidden
	}
	if !CanMutate(user, authorID) {
		return errors.ErrForbidden
	}
	return nil
}

// AuthorizeMutation runs CheckMutation and writes the denial, returning false, when the
// mutation is not allowed.
func AuthorizeMutation(w http.ResponseWriter, user *users.User, found bool, authorID string) bool {
	switch err := CheckMutation(user, found, authorID); {
	case err == nil:
		return true
	case errors.Is(err, errors.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	default:
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
	return false
}
