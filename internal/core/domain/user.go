package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateIdentity = errors.New("username or email already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountLocked = errors.New("account temporarily locked")
var ErrForbidden = errors.New("access forbidden")

// ValidRole reports whether s is a known role name.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleUser
}

// promotionTargets maps a requester's current role to the role a request
// promotes to. Admins have no target: they cannot request a change.
var promotionTargets = map[string]string{
	RoleUser: RoleAdmin,
}

// PromotionTarget returns the role a role request from the given role
// promotes to, or false when no promotion exists.
func PromotionTarget(role string) (string, bool) {
	target, ok := promotionTargets[role]
	return target, ok
}

// User models a registered account. PasswordHash is never serialized.
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          string     `json:"role"`
	LoginAttempts int        `json:"-"`
	LockUntil     *time.Time `json:"-"`
	IsActive      bool       `json:"is_active"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Locked reports whether the account is currently locked out.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// RoleCount is one bucket of the per-role aggregation.
type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	TotalUsers  int64       `json:"total_users"`
	ActiveUsers int64       `json:"active_users"`
	ByRole      []RoleCount `json:"by_role"`
}
