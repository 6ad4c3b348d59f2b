package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"calendar-admin/internal/errs"
	"calendar-admin/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	u := &model.User{
		Username: "alice",
		PwdHash:  []byte("h"),
		Salt:     []byte("s"),
		Role:     model.RoleUser,
	}

	// OK
	mock.ExpectQuery(`INSERT INTO users \(username, pwd_hash, salt, role\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id, created_at`).
		WithArgs(u.Username, u.PwdHash, u.Salt, u.Role).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))
	require.NoError(t, r.Create(ctx, u))
	require.Equal(t, int64(7), u.ID)

	// Unique violation
	mock.ExpectQuery(`INSERT INTO users \(username, pwd_hash, salt, role\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id, created_at`).
		WithArgs(u.Username, u.PwdHash, u.Salt, u.Role).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := r.Create(ctx, u)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt, role, created_at FROM users WHERE id=\$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "pwd_hash", "salt", "role", "created_at"}).
			AddRow(int64(1), "alice", []byte("h"), []byte("s"), model.RoleAdmin, time.Now()))
	u, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, model.RoleAdmin, u.Role)

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt, role, created_at FROM users WHERE id=\$1`).
		WithArgs(int64(2)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, 2)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt, role, created_at FROM users WHERE username=\$1`).
		WithArgs("bob").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "pwd_hash", "salt", "role", "created_at"}).
			AddRow(int64(2), "bob", []byte("h"), []byte("s"), model.RoleUser, time.Now()))
	u, err := r.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, "bob", u.Username)

	mock.ExpectQuery(`SELECT id, username, pwd_hash, salt, role, created_at FROM users WHERE username=\$1`).
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepo_List_NoSecretColumns(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, username, role, created_at FROM users ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "role", "created_at"}).
			AddRow(int64(1), "alice", model.RoleAdmin, time.Now()).
			AddRow(int64(2), "bob", model.RoleUser, time.Now()))
	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.Nil(t, users[0].PwdHash)
	require.Nil(t, users[0].Salt)
}

func TestUserRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepo(db)
	ctx := context.Background()
	name := "renamed"

	// Partial update, only username changes.
	mock.ExpectExec(`UPDATE users SET username = COALESCE\(\$2, username\), pwd_hash = COALESCE\(\$3, pwd_hash\), salt = COALESCE\(\$4, salt\), role = COALESCE\(\$5, role\) WHERE id = \$1`).
		WithArgs(int64(1), &name, []byte(nil), []byte(nil), (*model.Role)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Update(ctx, 1, model.UserPatch{Username: &name}))

	// Missing row
	mock.ExpectExec(`UPDATE users SET username = COALESCE\(\$2, username\), pwd_hash = COALESCE\(\$3, pwd_hash\), salt = COALESCE\(\$4, salt\), role = COALESCE\(\$5, role\) WHERE id = \$1`).
		WithArgs(int64(99), &name, []byte(nil), []byte(nil), (*model.Role)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := r.Update(ctx, 99, model.UserPatch{Username: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)

	// Rename onto a taken username
	mock.ExpectExec(`UPDATE users SET username = COALESCE\(\$2, username\), pwd_hash = COALESCE\(\$3, pwd_hash\), salt = COALESCE\(\$4, salt\), role = COALESCE\(\$5, role\) WHERE id = \$1`).
		WithArgs(int64(1), &name, []byte(nil), []byte(nil), (*model.Role)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err = r.Update(ctx, 1, model.UserPatch{Username: &name})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}
