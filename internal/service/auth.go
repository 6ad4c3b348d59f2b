// Package service contains application services for authentication and portal resources.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "calendar-admin/internal/crypto"
	"calendar-admin/internal/errs"
	"calendar-admin/internal/limiter"
	"calendar-admin/internal/model"
	"calendar-admin/internal/repository"
)

// AuthService defines session establishment, teardown, and identity resolution.
type AuthService interface {
	// Login authenticates and mints a fresh session token.
	Login(ctx context.Context, username, password, ip string) (token string, sess *model.Session, err error)
	// Logout destroys the session for a token. Unknown tokens still succeed.
	Logout(ctx context.Context, token string) error
	// CurrentUser resolves a token to its user. Absent, unknown, and expired
	// tokens are all reported as ErrUnauthorized.
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type AuthServiceImpl struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	lim        limiter.Limiter
	sessionTTL time.Duration
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, lim limiter.Limiter, sessionTTL time.Duration) *AuthServiceImpl {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthServiceImpl{users: users, sessions: sessions, lim: lim, sessionTTL: sessionTTL}
}

// Login verifies credentials with rate limiting by (username, ip) and creates
// a session. Unknown usernames and wrong passwords yield the same outcome.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (string, *model.Session, error) {
	if username == "" || password == "" {
		return "", nil, errs.ErrInvalidCredentials
	}
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return "", nil, err
	}
	if !allowed {
		return "", nil, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.Salt, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return "", nil, errs.ErrRateLimited
		}
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return "", nil, err
		}
		// hide existence of the user on wrong password
		return "", nil, errs.ErrInvalidCredentials
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	pair, err := pkgcrypto.NewToken()
	if err != nil {
		return "", nil, err
	}
	sid, err := uuid.NewV4()
	if err != nil {
		return "", nil, err
	}
	now := time.Now()
	sess := &model.Session{
		ID:        sid,
		UserID:    u.ID,
		TokenHash: pair.Hash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	return pair.Token, sess, nil
}

// Logout destroys the session regardless of prior validity.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByTokenHash(ctx, pkgcrypto.HashToken(token))
}

// CurrentUser is the single gate every protected operation resolves through.
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, errs.ErrUnauthorized
	}
	sess, err := s.sessions.GetByTokenHash(ctx, pkgcrypto.HashToken(token))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		// expired rows are swept periodically; treat as unresolved either way
		_ = s.sessions.DeleteByTokenHash(ctx, sess.TokenHash)
		return nil, errs.ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}
