// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"calendar-admin/internal/model"
)

// UserRepository provides CRUD access for user accounts.
type UserRepository interface {
	// Create inserts a new user and fills in the store-assigned ID.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// List returns all users ordered by ID. Secret columns are not selected.
	List(ctx context.Context) ([]model.User, error)
	// Update applies a partial update; absent fields are left unchanged.
	Update(ctx context.Context, id int64, patch model.UserPatch) error
}
