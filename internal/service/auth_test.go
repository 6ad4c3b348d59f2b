package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgcrypto "calendar-admin/internal/crypto"
	"calendar-admin/internal/errs"
	"calendar-admin/internal/limiter"
	"calendar-admin/internal/model"
	"calendar-admin/internal/repository"
)

type fakeUsers struct {
	byName map[string]*model.User
	nextID int64

	createErr error
	getErr    error
	updateErr error

	lastPatch model.UserPatch
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byName == nil {
		f.byName = map[string]*model.User{}
	}
	if _, exists := f.byName[u.Username]; exists {
		return errs.ErrAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cpy := *u
	f.byName[u.Username] = &cpy
	return nil
}
func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byName {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}
func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byName {
		out = append(out, model.User{ID: u.ID, Username: u.Username, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return out, nil
}
func (f *fakeUsers) Update(_ context.Context, id int64, patch model.UserPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastPatch = patch
	for _, u := range f.byName {
		if u.ID == id {
			if patch.Username != nil {
				u.Username = *patch.Username
			}
			if patch.PwdHash != nil {
				u.PwdHash = patch.PwdHash
				u.Salt = patch.Salt
			}
			if patch.Role != nil {
				u.Role = *patch.Role
			}
			return nil
		}
	}
	return errs.ErrNotFound
}

type fakeSessions struct {
	byHash map[string]*model.Session

	createErr error
	getErr    error

	deleteCalls int
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func (f *fakeSessions) Create(_ context.Context, s *model.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byHash == nil {
		f.byHash = map[string]*model.Session{}
	}
	cpy := *s
	f.byHash[s.TokenHash] = &cpy
	return nil
}
func (f *fakeSessions) GetByTokenHash(_ context.Context, tokenHash string) (*model.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.byHash[tokenHash]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *s
	return &c, nil
}
func (f *fakeSessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	f.deleteCalls++
	delete(f.byHash, tokenHash)
	return nil
}
func (f *fakeSessions) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for h, s := range f.byHash {
		if time.Now().After(s.ExpiresAt) {
			delete(f.byHash, h)
			n++
		}
	}
	return n, nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successErr error

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}
func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return l.successErr
}
func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

func seedUser(t *testing.T, users *fakeUsers, username, password string, role model.Role) *model.User {
	t.Helper()
	salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		t.Fatalf("RandBytes: %v", err)
	}
	u := &model.User{
		Username: username,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), salt),
		Salt:     salt,
		Role:     role,
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestAuth_Login_RateLimiterAndCreds(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	u := seedUser(t, users, "alice", "correct", model.RoleUser)
	sessions := &fakeSessions{}
	lim := &fakeLimiter{allowOK: true}
	s := NewAuthService(users, sessions, lim, time.Hour)

	if _, _, err := s.Login(context.Background(), "", "", "1.2.3.4"); !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials on empty input, got %v", err)
	}

	lim.allowErr = errors.New("lim-err")
	if _, _, err := s.Login(context.Background(), "alice", "correct", "1.2.3.4"); err == nil {
		t.Fatalf("want limiter error propagate")
	}
	lim.allowErr = nil

	lim.allowOK = false
	if _, _, err := s.Login(context.Background(), "alice", "correct", "1.2.3.4"); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	lim.allowOK = true

	// Unknown user and wrong password must look the same.
	_, _, errMissing := s.Login(context.Background(), "nobody", "x", "1.2.3.4")
	_, _, errWrong := s.Login(context.Background(), "alice", "wrong", "1.2.3.4")
	if !errors.Is(errMissing, errs.ErrInvalidCredentials) || !errors.Is(errWrong, errs.ErrInvalidCredentials) {
		t.Fatalf("want uniform ErrInvalidCredentials, got %v / %v", errMissing, errWrong)
	}
	if lim.failureCalls != 2 {
		t.Fatalf("expected Failure() per failed attempt, got %d", lim.failureCalls)
	}

	lim.failBlocked = true
	if _, _, err := s.Login(context.Background(), "alice", "wrong", "1.2.3.4"); !errors.Is(err, errs.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited when failure trips the block, got %v", err)
	}
	lim.failBlocked = false

	token, sess, err := s.Login(context.Background(), "alice", "correct", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if sess.UserID != u.ID {
		t.Fatalf("session bound to wrong user: %+v", sess)
	}
	if sess.TokenHash == token {
		t.Fatalf("raw token must never be the stored hash")
	}
	if sess.TokenHash != pkgcrypto.HashToken(token) {
		t.Fatalf("stored hash does not match token")
	}
	if time.Until(sess.ExpiresAt) <= 0 {
		t.Fatalf("session already expired: %v", sess.ExpiresAt)
	}
	if lim.successCalls == 0 {
		t.Fatalf("expected Success() after a good login")
	}
}

func TestAuth_Login_FreshTokenPerLogin(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	seedUser(t, users, "alice", "pw", model.RoleUser)
	s := NewAuthService(users, &fakeSessions{}, &fakeLimiter{allowOK: true}, time.Hour)

	t1, _, err := s.Login(context.Background(), "alice", "pw", "")
	if err != nil {
		t.Fatalf("login 1: %v", err)
	}
	t2, _, err := s.Login(context.Background(), "alice", "pw", "")
	if err != nil {
		t.Fatalf("login 2: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("token reuse across logins")
	}
}

func TestAuth_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	seedUser(t, users, "alice", "pw", model.RoleUser)
	sessions := &fakeSessions{}
	s := NewAuthService(users, sessions, &fakeLimiter{allowOK: true}, time.Hour)

	token, _, err := s.Login(context.Background(), "alice", "pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := s.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := s.CurrentUser(context.Background(), token); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("token should be dead after logout, got %v", err)
	}

	// Second logout and logout without a token both succeed.
	if err := s.Logout(context.Background(), token); err != nil {
		t.Fatalf("repeat logout: %v", err)
	}
	if err := s.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty-token logout: %v", err)
	}
}

func TestAuth_CurrentUser(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	u := seedUser(t, users, "alice", "pw", model.RoleAdmin)
	sessions := &fakeSessions{}
	s := NewAuthService(users, sessions, &fakeLimiter{allowOK: true}, time.Hour)

	if _, err := s.CurrentUser(context.Background(), ""); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on absent token, got %v", err)
	}
	if _, err := s.CurrentUser(context.Background(), "bogus"); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on unknown token, got %v", err)
	}

	token, _, err := s.Login(context.Background(), "alice", "pw", "")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	got, err := s.CurrentUser(context.Background(), token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.ID != u.ID || got.Role != model.RoleAdmin {
		t.Fatalf("wrong user resolved: %+v", got)
	}
}

func TestAuth_CurrentUser_ExpiredSessionIsDeleted(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{byName: map[string]*model.User{}}
	seedUser(t, users, "alice", "pw", model.RoleUser)
	sessions := &fakeSessions{byHash: map[string]*model.Session{}}
	s := NewAuthService(users, sessions, &fakeLimiter{allowOK: true}, time.Hour)

	token := "expired-token"
	hash := pkgcrypto.HashToken(token)
	sessions.byHash[hash] = &model.Session{
		UserID:    1,
		TokenHash: hash,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	if _, err := s.CurrentUser(context.Background(), token); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized on expired session, got %v", err)
	}
	if sessions.deleteCalls == 0 {
		t.Fatalf("expired session should be deleted eagerly")
	}
	if _, ok := sessions.byHash[hash]; ok {
		t.Fatalf("expired session row still present")
	}
}
