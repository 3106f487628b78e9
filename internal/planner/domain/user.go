package domain

import (
	"strings"
	"time"
)

// User is an account that can log in and, depending on role, manage squads
// and invitations.
type User struct {
	ID           string
	Email        string // normalized: trimmed, lower-cased
	Name         string
	PasswordHash string // argon2id PHC string; empty until the user sets one
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail applies the canonical email normalization used everywhere
// an address enters the system: trim surrounding whitespace, lower-case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
