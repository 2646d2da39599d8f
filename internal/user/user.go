package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrEmailAlreadyExists = errors.New("This email has been used before. Please try a new one")
	ErrMissingCredentials = errors.New("Please insert email and password")
	ErrInvalidEmail       = errors.New("Please submit a valid email")
	ErrPasswordTooShort   = errors.New("Password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("Password must be at most 72 bytes")
	ErrNameTooLong        = errors.New("Name must be at most 100 characters")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the public view of a user returned by the auth endpoints.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name}
}

type contextKey struct{}

// ContextWithID returns a copy of ctx carrying the authenticated user id.
func ContextWithID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// IDFromContext returns the authenticated user id, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}
