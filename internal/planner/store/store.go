package store

import (
	"context"
	"errors"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Squads() Squads
	Invitations() Invitations
	Audit() Audit

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Prefer WithTx; the caller of Tx MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos and adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true when no users exist (admin bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Squads interface {
	// GetSquadByID fetches a squad by id.
	GetSquadByID(ctx context.Context, id string) (domain.Squad, error)

	// ListSquads returns all squads ordered by creation date (newest first).
	ListSquads(ctx context.Context) ([]domain.Squad, error)

	// CreateSquad inserts a new squad.
	CreateSquad(ctx context.Context, s domain.Squad) error

	// AddMember attaches a user to a squad. Adding an existing member is a
	// no-op, not an error.
	AddMember(ctx context.Context, squadID, userID string) error
}

// InvitationFilter narrows and pages ListInvitations.
type InvitationFilter struct {
	// Status, when non-empty, keeps only invitations in that status.
	Status domain.InvitationStatus
	// EmailContains, when non-empty, keeps invitations whose email contains
	// the substring.
	EmailContains string
	// Cursor, when non-empty, resumes after the given invitation id
	// (exclusive, newest-first).
	Cursor string
	// Limit caps the page size; callers are expected to clamp it.
	Limit int
}

type Invitations interface {
	// CreateInvitation writes a new invitation row (token_hash only, never
	// the raw credential).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID returns an invitation regardless of status.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetPendingInvitationByTokenHash returns the invitation matching hash
	// that is still pending and unexpired at the given instant. The status
	// and expiry conditions are part of the lookup itself so redemption has
	// a single row to compare-and-set against.
	GetPendingInvitationByTokenHash(ctx context.Context, hash string, now time.Time) (domain.Invitation, error)

	// ListInvitations returns invitations newest-first with the filter
	// applied.
	ListInvitations(ctx context.Context, filter InvitationFilter) ([]domain.Invitation, error)

	// CompareAndSetStatus atomically moves an invitation from expected to
	// next. Returns ErrNotFound when no row has the given id in the
	// expected status, which covers both a missing row and a lost race.
	CompareAndSetStatus(ctx context.Context, id string, expected, next domain.InvitationStatus) error

	// ExpireOverdueInvitations marks pending invitations whose expiry has
	// passed as expired. Returns the number of rows transitioned. Rows are
	// never deleted; the table is an audit record.
	ExpireOverdueInvitations(ctx context.Context, now time.Time) (int64, error)
}

type Audit interface {
	// RecordEntry appends an audit entry. Write-only by design.
	RecordEntry(ctx context.Context, e domain.AuditEntry) error
}
