package domain

import "time"

// InvitationStatus tracks the lifecycle of an invitation. Transitions are
// monotonic: pending -> accepted and pending -> expired are the only legal
// moves, and both targets are terminal.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationExpired:
		return true
	}
	return false
}

// Invitation is a single-use, expiring grant of a role, addressed to an
// email. Only the fingerprint of the credential is ever stored; the raw
// value exists in memory exactly once, at issuance. Rows are never deleted,
// so the table doubles as a redemption history.
type Invitation struct {
	ID          string
	Email       string // normalized: trimmed, lower-cased
	SquadID     *string
	TokenHash   string
	InvitedRole Role
	Status      InvitationStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
