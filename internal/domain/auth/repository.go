package auth

import (
	"context"

	"stockgap/internal/core/id"
)

// UserRepository defines persistence for analyst accounts.
type UserRepository interface {
	// GetByEmail retrieves a user by email, or a NOT_FOUND error.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by id, or a NOT_FOUND error.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	// Exists reports whether an email is already registered.
	Exists(ctx context.Context, email string) (bool, error)

	// Create inserts a new user.
	Create(ctx context.Context, user *User) error

	// Update persists login bookkeeping (last login, failed attempts, lock).
	Update(ctx context.Context, user *User) error
}
