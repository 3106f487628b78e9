package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
	mailer "github.com/squadcap/squadcap/internal/planner/mail"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/cryptox"
	"github.com/squadcap/squadcap/pkg/idx"
	"github.com/squadcap/squadcap/pkg/slogx"
)

var (
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidInviteRequest  = errors.New("invalid invitation request")
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrSquadNotFound         = errors.New("squad not found")
	ErrInvalidOrExpiredToken = errors.New("invitation token is invalid or expired")
)

// DefaultInvitationTTL is how long a newly issued invitation stays
// redeemable.
const DefaultInvitationTTL = 72 * time.Hour

// maxInvitationPageSize caps ListInvitations page sizes; it is also the
// default when the caller asks for zero.
const maxInvitationPageSize = 50

// InviteService owns the invitation lifecycle: issuing, listing,
// regenerating, revoking and redeeming invitations. Side effects (mail,
// audit, squad attachment) are best-effort and never fail the state
// transition that triggered them.
type InviteService struct {
	Store   store.Store
	Mailer  mailer.Sender
	Auditor *Auditor

	// BaseURL is the public origin used to build redemption links.
	BaseURL string

	// TTL overrides DefaultInvitationTTL when non-zero.
	TTL time.Duration
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultInvitationTTL
}

// Issue creates a pending invitation and returns it together with the
// raw credential. The credential is returned exactly once; only its
// fingerprint is persisted.
func (s *InviteService) Issue(
	ctx context.Context,
	actorID string,
	email string,
	squadID *string,
	invitedRole domain.Role,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the actor. An unknown actor gets the same answer as an
	// under-privileged one.
	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invitation issue attempted by unknown actor",
				slog.String("actor_id", actorID),
			)
			return domain.Invitation{}, "", ErrForbidden
		}
		log.Error("failed to fetch actor", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	// 2. Validate the requested role.
	if !invitedRole.Valid() {
		log.Warn("invitation issue attempted with unknown role",
			slog.String("role", invitedRole.String()),
		)
		return domain.Invitation{}, "", ErrInvalidRole
	}

	// 3. Escalation guard: only admins may grant privileged roles. This
	// runs before any row is written so a rejected attempt leaves no
	// trace beyond the log.
	if invitedRole.Privileged() && actor.Role != domain.RoleAdmin {
		log.Warn("privileged invitation blocked",
			slog.String("actor_id", actor.ID),
			slog.String("actor_role", actor.Role.String()),
			slog.String("invited_role", invitedRole.String()),
		)
		return domain.Invitation{}, "", ErrForbidden
	}

	// 4. Normalize and validate the address.
	email = domain.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Invitation{}, "", ErrInvalidInviteRequest
	}

	// 5. Validate the target squad, when one is given.
	if squadID != nil {
		if _, err := s.Store.Squads().GetSquadByID(ctx, *squadID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Invitation{}, "", ErrSquadNotFound
			}
			log.Error("failed to fetch squad", slog.Any("error", err))
			return domain.Invitation{}, "", err
		}
	}

	// 6. Generate the credential and persist only its fingerprint.
	credential, err := cryptox.GenerateCredential(cryptox.CredentialSize)
	if err != nil {
		log.Error("failed to generate invitation credential", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	now := time.Now().UTC()
	invitation := domain.Invitation{
		ID:          idx.New().String(),
		Email:       email,
		SquadID:     squadID,
		TokenHash:   cryptox.Fingerprint(credential),
		InvitedRole: invitedRole,
		Status:      domain.InvitationPending,
		ExpiresAt:   now.Add(s.ttl()),
	}
	if err := s.Store.Invitations().CreateInvitation(ctx, invitation); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	// 7. Best-effort side effects.
	s.Auditor.Record(ctx, actor.ID, AuditInvitationIssued, map[string]any{
		"invitation_id": invitation.ID,
		"email":         email,
		"invited_role":  invitedRole.String(),
	})
	s.sendInvitationMail(ctx, invitation, credential)

	log.Info("invitation issued",
		slog.String("invitation_id", invitation.ID),
		slog.String("actor_id", actor.ID),
		slog.String("invited_role", invitedRole.String()),
		slog.Time("expires_at", invitation.ExpiresAt),
	)

	return invitation, credential, nil
}

// List returns a page of invitations, newest first, with the id of the
// last row as the cursor for the next page.
func (s *InviteService) List(
	ctx context.Context,
	actorID string,
	filter store.InvitationFilter,
) ([]domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Users().GetUserByID(ctx, actorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrForbidden
		}
		log.Error("failed to fetch actor", slog.Any("error", err))
		return nil, "", err
	}

	if filter.Limit <= 0 || filter.Limit > maxInvitationPageSize {
		filter.Limit = maxInvitationPageSize
	}

	invitations, err := s.Store.Invitations().ListInvitations(ctx, filter)
	if err != nil {
		log.Error("failed to list invitations", slog.Any("error", err))
		return nil, "", err
	}

	var next string
	if len(invitations) == filter.Limit {
		next = invitations[len(invitations)-1].ID
	}
	return invitations, next, nil
}

// Regenerate expires an invitation and issues a replacement carrying
// the same email, squad and role but a fresh credential and expiry. The
// old credential stops working even if the invitation had time left.
func (s *InviteService) Regenerate(
	ctx context.Context,
	actorID string,
	invitationID string,
) (domain.Invitation, string, error) {
	log := slogx.FromContext(ctx)

	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return domain.Invitation{}, "", err
	}

	old, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, "", ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	credential, err := cryptox.GenerateCredential(cryptox.CredentialSize)
	if err != nil {
		log.Error("failed to generate invitation credential", slog.Any("error", err))
		return domain.Invitation{}, "", err
	}

	now := time.Now().UTC()
	replacement := domain.Invitation{
		ID:          idx.New().String(),
		Email:       old.Email,
		SquadID:     old.SquadID,
		TokenHash:   cryptox.Fingerprint(credential),
		InvitedRole: old.InvitedRole,
		Status:      domain.InvitationPending,
		ExpiresAt:   now.Add(s.ttl()),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Expire the old row if it is still pending. An already
		// accepted or expired row stays as it is; regeneration still
		// produces a fresh invitation either way.
		err := tx.Invitations().CompareAndSetStatus(
			ctx, old.ID, domain.InvitationPending, domain.InvitationExpired)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Invitations().CreateInvitation(ctx, replacement)
	})
	if err != nil {
		log.Error("failed to regenerate invitation",
			slog.String("invitation_id", old.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, "", err
	}

	s.Auditor.Record(ctx, actor.ID, AuditInvitationRegenerated, map[string]any{
		"invitation_id":  old.ID,
		"replacement_id": replacement.ID,
	})
	s.sendInvitationMail(ctx, replacement, credential)

	log.Info("invitation regenerated",
		slog.String("invitation_id", old.ID),
		slog.String("replacement_id", replacement.ID),
		slog.String("actor_id", actor.ID),
	)

	return replacement, credential, nil
}

// Revoke expires a pending invitation. Revoking an invitation that is
// already in a terminal state is a no-op, so retries are safe.
func (s *InviteService) Revoke(ctx context.Context, actorID, invitationID string) error {
	log := slogx.FromContext(ctx)

	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return err
	}

	invitation, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return err
	}

	err = s.Store.Invitations().CompareAndSetStatus(
		ctx, invitation.ID, domain.InvitationPending, domain.InvitationExpired)
	if errors.Is(err, store.ErrNotFound) {
		// Already accepted or expired.
		return nil
	}
	if err != nil {
		log.Error("failed to revoke invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return err
	}

	s.Auditor.Record(ctx, actor.ID, AuditInvitationRevoked, map[string]any{
		"invitation_id": invitation.ID,
		"email":         invitation.Email,
	})
	s.sendMail(ctx, invitation.Email,
		"Your invitation has been revoked",
		"The invitation sent to this address is no longer valid. Contact your administrator if you believe this is a mistake.\n")

	log.Info("invitation revoked",
		slog.String("invitation_id", invitation.ID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}

// Redeem consumes a pending invitation: it resolves the credential,
// gets or creates the account for the supplied email and flips the
// invitation to accepted exactly once. Lookup failures of every kind
// surface as the same undifferentiated error so callers cannot probe
// which credentials exist.
func (s *InviteService) Redeem(
	ctx context.Context,
	credential string,
	email string,
	name string,
	password string,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = domain.NormalizeEmail(email)
	if credential == "" || email == "" {
		return "", ErrInvalidInviteRequest
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidInviteRequest
	}

	// 2. Fingerprint the credential and look it up among pending,
	// unexpired invitations.
	now := time.Now().UTC()
	invitation, err := s.Store.Invitations().GetPendingInvitationByTokenHash(
		ctx, cryptox.Fingerprint(credential), now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("redemption attempted with invalid or expired credential")
			return "", ErrInvalidOrExpiredToken
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return "", err
	}

	// 3. Get or create the account and consume the invitation in one
	// transaction. The conditional status update is the single-use
	// gate: a concurrent redemption of the same credential loses here.
	var accountID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			accountID = user.ID
		case errors.Is(err, store.ErrNotFound):
			user, err = s.createAccount(ctx, tx, email, name, password)
			if err != nil {
				return err
			}
			accountID = user.ID
		default:
			return err
		}

		return tx.Invitations().CompareAndSetStatus(
			ctx, invitation.ID, domain.InvitationPending, domain.InvitationAccepted)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race against a concurrent redemption.
			log.Warn("redemption lost conditional update",
				slog.String("invitation_id", invitation.ID),
			)
			return "", ErrInvalidOrExpiredToken
		}
		log.Error("failed to redeem invitation",
			slog.String("invitation_id", invitation.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	// 4. Best-effort squad attachment after the transition is durable.
	if invitation.SquadID != nil {
		if err := s.Store.Squads().AddMember(ctx, *invitation.SquadID, accountID); err != nil {
			log.Warn("failed to attach redeemed account to squad",
				slog.String("squad_id", *invitation.SquadID),
				slog.String("account_id", accountID),
				slog.Any("error", err),
			)
		}
	}

	s.Auditor.Record(ctx, accountID, AuditInvitationRedeemed, map[string]any{
		"invitation_id": invitation.ID,
	})

	log.Info("invitation redeemed",
		slog.String("invitation_id", invitation.ID),
		slog.String("account_id", accountID),
	)
	return accountID, nil
}

// createAccount provisions a new account during redemption. Accounts
// always start as members; the invited role is what the invitation
// offered, not what the account is granted on creation.
func (s *InviteService) createAccount(
	ctx context.Context,
	tx store.Tx,
	email, name, password string,
) (domain.User, error) {
	user := domain.User{
		ID:    idx.New().String(),
		Email: email,
		Name:  name,
		Role:  domain.RoleMember,
	}
	if password != "" {
		hash, err := cryptox.HashPassword(password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}
	if err := tx.Users().CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *InviteService) requireAdmin(ctx context.Context, actorID string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrForbidden
		}
		log.Error("failed to fetch actor", slog.Any("error", err))
		return domain.User{}, err
	}
	if actor.Role != domain.RoleAdmin {
		log.Warn("admin-only invitation operation blocked",
			slog.String("actor_id", actor.ID),
			slog.String("actor_role", actor.Role.String()),
		)
		return domain.User{}, ErrForbidden
	}
	return actor, nil
}

func (s *InviteService) sendInvitationMail(ctx context.Context, inv domain.Invitation, credential string) {
	link := fmt.Sprintf("%s/invitations/redeem?token=%s", s.BaseURL, credential)
	body := fmt.Sprintf(
		"You've been invited to join the squad planner as %s.\n\nRedeem your invitation: %s\n\nThis link expires at %s.\n",
		inv.InvitedRole, link, inv.ExpiresAt.Format(time.RFC1123))
	s.sendMail(ctx, inv.Email, "You're invited to the squad planner", body)
}

// sendMail delivers asynchronously and never propagates failure.
func (s *InviteService) sendMail(ctx context.Context, to, subject, body string) {
	if s.Mailer == nil {
		return
	}
	log := slogx.FromContext(ctx)
	go func(ctx context.Context) {
		if err := s.Mailer.Send(ctx, to, subject, body); err != nil {
			log.Warn("failed to send mail",
				slog.String("to", to),
				slog.Any("error", err),
			)
		}
	}(context.WithoutCancel(ctx))
}
