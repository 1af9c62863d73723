package model

import "time"

// Username length limits enforced before any store lookup
const (
	MinUsernameLen = 4
	MaxUsernameLen = 12
)

// Account is a registered chat user credential record.
// Created once at registration and immutable afterwards.
type Account struct {
	Username     string // login name (case-sensitive, unique)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// ValidUsername reports whether a username is within the allowed length.
func ValidUsername(username string) bool {
	return len(username) >= MinUsernameLen && len(username) <= MaxUsernameLen
}
