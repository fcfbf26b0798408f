package domain

import "time"

// Role values. Registration always assigns RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Status values. Only an administrator changes status.
const (
	StatusActive = "active"
	StatusLocked = "locked"
)

type User struct {
	ID           string
	Username     string // the user's email address, unique
	FullName     string
	PasswordHash string // argon2id PHC string, or a legacy pbkdf2 digest
	Role         string
	Status       string
	Points       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLocked reports whether the account may not log in.
func (u User) IsLocked() bool { return u.Status == StatusLocked }

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusLocked
}
