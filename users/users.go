package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPosition is assigned to every newly registered user.
const DefaultPosition = "soldier"

// Address is the optional postal address shown on a user's profile.
type Address struct {
	Street     string `json:"street,omitempty" bson:"street,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty" bson:"postalCode,omitempty"`
}

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`         // Unique identifier for the user
	FirstName    string    `json:"first_name,omitempty" bson:"firstName"`     // First name of the user
	LastName     string    `json:"last_name,omitempty" bson:"lastName"`       // Last name of the user
	Email        string    `json:"email,omitempty" bson:"email"`              // Lower-cased, unique
	Username     string    `json:"username,omitempty" bson:"username"`        // Unique username
	PasswordHash string    `json:"-" bson:"password"`                         // Hashed version of the user's password - never serialize
	Position     string    `json:"position,omitempty" bson:"position"`        // Free text role shown on the profile
	IsAdmin      bool      `json:"is_admin,omitempty" bson:"isAdmin"`         // Only ever changed out-of-band
	DateJoined   time.Time `json:"date_joined,omitempty" bson:"dateJoined"`   // Date and time when the user registered
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`    //
	Bio          string    `json:"bio,omitempty" bson:"bio,omitempty"`        //
	Address      Address   `json:"address,omitempty" bson:"address"`          //
	Picture      string    `json:"profile_picture,omitempty" bson:"profilePicture,omitempty"`

	// Social graph, stored as user IDs
	Connections            []string `json:"connections,omitempty" bson:"connections"`
	FriendRequestsSent     []string `json:"friend_requests_sent,omitempty" bson:"friendRequestsSent"`
	FriendRequestsReceived []string `json:"friend_requests_received,omitempty" bson:"friendRequestsReceived"`
	BlockedUsers           []string `json:"blocked_users,omitempty" bson:"blockedUsers"`

	CreatedAt time.Time `json:"created_at,omitempty" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at,omitempty" bson:"updatedAt"`
}

// NormalizeEmail trims and lower-cases an email address; emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize applies the stored form of the identity fields.
func (u *User) Normalize() {
	u.Email = NormalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// IsConnectedTo reports whether userID is in the user's connections.
func (u *User) IsConnectedTo(userID string) bool {
	for _, id := range u.Connections {
		if id == userID {
			return true
		}
	}
	return false
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
