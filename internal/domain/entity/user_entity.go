package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in Password field.
// FailedLoginAttempts and LockUntil implement the signin lockout:
// the account is locked iff LockUntil is set and in the future.
type User struct {
	ID                  string
	Name                string
	Username            string
	Email               string
	Password            string
	FailedLoginAttempts int
	LockUntil           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Locked reports whether the account is locked at the given instant.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}
