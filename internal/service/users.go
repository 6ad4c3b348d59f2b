package service

import (
	"context"
	"fmt"

	pkgcrypto "calendar-admin/internal/crypto"
	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
	"calendar-admin/internal/repository"
)

// UserService defines account administration operations.
type UserService interface {
	// Create registers a new user; empty role defaults to the lowest privilege.
	Create(ctx context.Context, username, password string, role model.Role) (*model.User, error)
	// Get loads a single user by ID.
	Get(ctx context.Context, id int64) (*model.User, error)
	// List returns all users without secret material.
	List(ctx context.Context) ([]model.User, error)
	// Update applies a structured partial update, re-hashing a replacement
	// password with a fresh salt.
	Update(ctx context.Context, id int64, upd model.UserUpdate) error
}

type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// Create validates input, hashes the password with a per-user salt, and
// inserts the account. Duplicate usernames surface as ErrAlreadyExists.
func (s *UserServiceImpl) Create(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", errs.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", errs.ErrValidation)
	}
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", errs.ErrValidation, role)
	}

	salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username: username,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), salt),
		Salt:     salt,
		Role:     role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Get loads a user by ID.
func (s *UserServiceImpl) Get(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, errs.ErrNotFound
	}
	return s.users.GetByID(ctx, id)
}

// List returns the directory of users (id, username, role).
func (s *UserServiceImpl) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Update applies a partial update. An empty update is rejected; a replacement
// password is hashed with a freshly generated salt.
func (s *UserServiceImpl) Update(ctx context.Context, id int64, upd model.UserUpdate) error {
	if id <= 0 {
		return errs.ErrNotFound
	}
	if upd.Empty() {
		return fmt.Errorf("%w: no fields to update", errs.ErrValidation)
	}
	if upd.Username != nil && *upd.Username == "" {
		return fmt.Errorf("%w: username cannot be empty", errs.ErrValidation)
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", errs.ErrValidation, *upd.Role)
	}

	patch := model.UserPatch{Username: upd.Username, Role: upd.Role}
	if upd.Password != nil {
		if *upd.Password == "" {
			return fmt.Errorf("%w: password cannot be empty", errs.ErrValidation)
		}
		salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
		if err != nil {
			return err
		}
		patch.Salt = salt
		patch.PwdHash = pkgcrypto.HashPassword([]byte(*upd.Password), salt)
	}
	return s.users.Update(ctx, id, patch)
}
