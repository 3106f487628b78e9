package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, email, squad_id, token_hash, invited_role, status, expires_at, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations
		   (id, email, squad_id, token_hash, invited_role, status, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.Email,
		mapOptionalString(inv.SquadID),
		inv.TokenHash,
		string(inv.InvitedRole),
		string(inv.Status),
		inv.ExpiresAt.UTC(),
		now,
		now,
	)
	return err
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetPendingInvitationByTokenHash(
	ctx context.Context,
	hash string,
	now time.Time,
) (domain.Invitation, error) {
	// Status and expiry are part of the lookup itself: an accepted, expired
	// or overdue row is indistinguishable from a missing one.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE token_hash = ? AND status = ? AND expires_at > ?`,
		hash, string(domain.InvitationPending), now.UTC(),
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitations(
	ctx context.Context,
	filter store.InvitationFilter,
) ([]domain.Invitation, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, string(filter.Status))
	}
	if filter.EmailContains != "" {
		conds = append(conds, `email LIKE ?`)
		args = append(args, "%"+filter.EmailContains+"%")
	}
	if filter.Cursor != "" {
		// IDs are ULIDs, so lexicographic order is creation order and the
		// previous page's last id works as an exclusive cursor.
		conds = append(conds, `id < ?`)
		args = append(args, filter.Cursor)
	}

	query := `SELECT ` + invitationColumns + ` FROM invitations`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *invitationsRepo) CompareAndSetStatus(
	ctx context.Context,
	id string,
	expected, next domain.InvitationStatus,
) error {
	// The status predicate makes this a conditional update: of two
	// concurrent redemptions, exactly one sees a pending row.
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(next), time.Now().UTC(), id, string(expected),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *invitationsRepo) ExpireOverdueInvitations(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = ?, updated_at = ?
		 WHERE status = ? AND expires_at <= ?`,
		string(domain.InvitationExpired),
		now.UTC(),
		string(domain.InvitationPending),
		now.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var (
		inv     domain.Invitation
		squadID sql.NullString
		role    string
		status  string
	)
	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&squadID,
		&inv.TokenHash,
		&role,
		&status,
		&inv.ExpiresAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.SquadID = mapNullString(squadID)
	inv.InvitedRole = domain.Role(role)
	inv.Status = domain.InvitationStatus(status)
	return inv, nil
}
