// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is the closed set of user roles.
type Role string

const (
	// RoleUser is the default, lowest-privilege role.
	RoleUser Role = "user"
	// RoleAdmin marks administrative accounts.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account. The password is never stored in plaintext;
// PwdHash is Argon2id(password, Salt) with a per-user salt.
type User struct {
	ID        int64
	Username  string // unique
	PwdHash   []byte
	Salt      []byte
	Role      Role
	CreatedAt time.Time
}

// Session maps an opaque client token to a user. Only the SHA-256 hash of
// the token is stored; the raw token exists solely in the client cookie.
type Session struct {
	ID        uuid.UUID
	UserID    int64
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Event is a calendar entry owned by exactly one user. Date carries no
// time-of-day component.
type Event struct {
	ID     int64
	UserID int64
	Title  string
	Date   time.Time
}

// Message is a direct message between two users. Read transitions only
// from false to true, and only by the recipient.
type Message struct {
	ID           int64
	ToUserID     int64
	FromUserID   int64
	FromUsername string // joined from users for display, not persisted here
	Content      string
	Read         bool
	CreatedAt    time.Time
}

// UserUpdate is a structured partial update: nil means "leave unchanged".
// Password carries the replacement plaintext; hashing happens in the service.
type UserUpdate struct {
	Username *string
	Password *string
	Role     *Role
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.Password == nil && u.Role == nil
}

// UserPatch is the repository-level form of UserUpdate with the secret
// already hashed. PwdHash and Salt are set together or not at all.
type UserPatch struct {
	Username *string
	PwdHash  []byte
	Salt     []byte
	Role     *Role
}
