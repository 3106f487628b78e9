package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/internal/planner/store/drivers/sqlite"
	"github.com/squadcap/squadcap/pkg/cryptox"
	"github.com/squadcap/squadcap/pkg/idx"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	To      string
	Subject string
}

// recordingMailer captures envelopes instead of delivering them.
// Deliveries happen on background goroutines, so reads go through the
// mutex and positive assertions poll.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject})
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestInviteService(t *testing.T) (*InviteService, store.Store, *recordingMailer) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	m := &recordingMailer{}
	svc := &InviteService{
		Store:   s,
		Mailer:  m,
		Auditor: NewAuditor(s),
		BaseURL: "https://plan.example.com",
	}
	return svc, s, m
}

func seedUser(t *testing.T, s store.Store, role domain.Role) domain.User {
	t.Helper()

	user := domain.User{
		ID:    idx.New().String(),
		Email: domain.NormalizeEmail(string(role) + "-" + idx.New().String() + "@example.com"),
		Name:  "Test " + string(role),
		Role:  role,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), user))
	return user
}

func TestIssueReturnsCredentialAndStoresFingerprint(t *testing.T) {
	t.Parallel()

	svc, s, m := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	before := time.Now().UTC()
	issued, credential, err := svc.Issue(ctx, admin.ID, "NewUser@Example.com ", nil, domain.RoleMember)
	require.NoError(t, err)
	require.Len(t, credential, 2*cryptox.CredentialSize)

	inv, err := s.Invitations().GetInvitationByID(ctx, issued.ID)
	require.NoError(t, err)
	require.Equal(t, "newuser@example.com", inv.Email)
	require.Equal(t, domain.InvitationPending, inv.Status)
	require.Equal(t, domain.RoleMember, inv.InvitedRole)
	require.NotEqual(t, credential, inv.TokenHash)
	require.Equal(t, cryptox.Fingerprint(credential), inv.TokenHash)
	require.WithinDuration(t, before.Add(DefaultInvitationTTL), inv.ExpiresAt, 5*time.Second)

	require.Eventually(t, func() bool { return m.count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestIssueEscalationGuard(t *testing.T) {
	t.Parallel()

	svc, s, m := newTestInviteService(t)
	ctx := context.Background()

	lead := seedUser(t, s, domain.RoleLead)
	member := seedUser(t, s, domain.RoleMember)

	for _, actor := range []domain.User{lead, member} {
		for _, granted := range []domain.Role{domain.RoleLead, domain.RoleAdmin} {
			_, _, err := svc.Issue(ctx, actor.ID, "escalate@example.com", nil, granted)
			require.ErrorIs(t, err, ErrForbidden)
		}
	}

	// A blocked attempt writes no row and sends no mail.
	rows, err := s.Invitations().ListInvitations(ctx, store.InvitationFilter{Limit: 10})
	require.NoError(t, err)
	require.Empty(t, rows)
	require.Zero(t, m.count())

	// Non-privileged grants stay open to every role.
	_, _, err = svc.Issue(ctx, lead.ID, "member@example.com", nil, domain.RoleMember)
	require.NoError(t, err)
	_, _, err = svc.Issue(ctx, member.ID, "friend@example.com", nil, domain.RoleMember)
	require.NoError(t, err)

	// Admins may grant anything.
	admin := seedUser(t, s, domain.RoleAdmin)
	_, _, err = svc.Issue(ctx, admin.ID, "lead@example.com", nil, domain.RoleLead)
	require.NoError(t, err)
	_, _, err = svc.Issue(ctx, admin.ID, "admin@example.com", nil, domain.RoleAdmin)
	require.NoError(t, err)
}

func TestIssueRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	_, _, err := svc.Issue(ctx, idx.New().String(), "a@example.com", nil, domain.RoleMember)
	require.ErrorIs(t, err, ErrForbidden)

	_, _, err = svc.Issue(ctx, admin.ID, "a@example.com", nil, domain.Role("owner"))
	require.ErrorIs(t, err, ErrInvalidRole)

	_, _, err = svc.Issue(ctx, admin.ID, "not-an-email", nil, domain.RoleMember)
	require.ErrorIs(t, err, ErrInvalidInviteRequest)

	missing := idx.New().String()
	_, _, err = svc.Issue(ctx, admin.ID, "a@example.com", &missing, domain.RoleMember)
	require.ErrorIs(t, err, ErrSquadNotFound)
}

func TestRedeemIsSingleUse(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	issued, credential, err := svc.Issue(ctx, admin.ID, "once@example.com", nil, domain.RoleMember)
	require.NoError(t, err)

	accountID, err := svc.Redeem(ctx, credential, "once@example.com", "Once", "s3cret-pw")
	require.NoError(t, err)
	require.NotEmpty(t, accountID)

	inv, err := s.Invitations().GetInvitationByID(ctx, issued.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, inv.Status)

	// The same credential never works twice.
	_, err = svc.Redeem(ctx, credential, "once@example.com", "Once", "s3cret-pw")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemNormalizesEmailAndCreatesMemberAccount(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	_, credential, err := svc.Issue(ctx, admin.ID, "newuser@example.com", nil, domain.RoleLead)
	require.NoError(t, err)

	accountID, err := svc.Redeem(ctx, credential, "  NewUser@Example.COM", "New User", "s3cret-pw")
	require.NoError(t, err)

	user, err := s.Users().GetUserByEmail(ctx, "newuser@example.com")
	require.NoError(t, err)
	require.Equal(t, accountID, user.ID)
	require.Equal(t, "newuser@example.com", user.Email)
	require.NotEmpty(t, user.PasswordHash)

	// The invited role is an offer, not a grant: fresh accounts always
	// start as members.
	require.Equal(t, domain.RoleMember, user.Role)
}

func TestRedeemExistingAccountKeepsAccount(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)
	existing := seedUser(t, s, domain.RoleLead)

	_, credential, err := svc.Issue(ctx, admin.ID, existing.Email, nil, domain.RoleMember)
	require.NoError(t, err)

	accountID, err := svc.Redeem(ctx, credential, existing.Email, "", "")
	require.NoError(t, err)
	require.Equal(t, existing.ID, accountID)

	// Redemption never touches an existing account's role.
	user, err := s.Users().GetUserByID(ctx, existing.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleLead, user.Role)
}

func TestRedeemExpiredCredential(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()

	credential := cryptox.MustGenerateCredential(cryptox.CredentialSize)
	inv := domain.Invitation{
		ID:          idx.New().String(),
		Email:       "late@example.com",
		TokenHash:   cryptox.Fingerprint(credential),
		InvitedRole: domain.RoleMember,
		Status:      domain.InvitationPending,
		ExpiresAt:   time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	_, err := svc.Redeem(ctx, credential, "late@example.com", "Late", "pw-123456")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = svc.Redeem(ctx, "unknown-credential", "late@example.com", "Late", "pw-123456")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemAttachesSquad(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	squad := domain.Squad{ID: idx.New().String(), Name: "platform"}
	require.NoError(t, s.Squads().CreateSquad(ctx, squad))

	_, credential, err := svc.Issue(ctx, admin.ID, "squaddie@example.com", &squad.ID, domain.RoleMember)
	require.NoError(t, err)

	accountID, err := svc.Redeem(ctx, credential, "squaddie@example.com", "Squaddie", "pw-123456")
	require.NoError(t, err)

	// Attachment is idempotent at the store level; redeeming into a
	// squad the account already belongs to must not have failed above.
	require.NoError(t, s.Squads().AddMember(ctx, squad.ID, accountID))
}

func TestRegenerateInvalidatesOldCredential(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	issued, oldCredential, err := svc.Issue(ctx, admin.ID, "rotate@example.com", nil, domain.RoleLead)
	require.NoError(t, err)

	regenerated, newCredential, err := svc.Regenerate(ctx, admin.ID, issued.ID)
	require.NoError(t, err)
	require.NotEqual(t, issued.ID, regenerated.ID)
	require.NotEqual(t, oldCredential, newCredential)

	// The old row is terminal, the old credential dead.
	old, err := s.Invitations().GetInvitationByID(ctx, issued.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, old.Status)
	_, err = svc.Redeem(ctx, oldCredential, "rotate@example.com", "R", "pw-123456")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// The replacement carries the original email and role.
	replacement, err := s.Invitations().GetInvitationByID(ctx, regenerated.ID)
	require.NoError(t, err)
	require.Equal(t, "rotate@example.com", replacement.Email)
	require.Equal(t, domain.RoleLead, replacement.InvitedRole)

	_, err = svc.Redeem(ctx, newCredential, "rotate@example.com", "R", "pw-123456")
	require.NoError(t, err)
}

func TestRegenerateRequiresAdmin(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)
	lead := seedUser(t, s, domain.RoleLead)

	issued, _, err := svc.Issue(ctx, admin.ID, "rotate@example.com", nil, domain.RoleMember)
	require.NoError(t, err)

	_, _, err = svc.Regenerate(ctx, lead.ID, issued.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, _, err = svc.Regenerate(ctx, admin.ID, idx.New().String())
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestRevokeIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	issued, credential, err := svc.Issue(ctx, admin.ID, "revoke@example.com", nil, domain.RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, admin.ID, issued.ID))

	inv, err := s.Invitations().GetInvitationByID(ctx, issued.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, inv.Status)

	_, err = svc.Redeem(ctx, credential, "revoke@example.com", "R", "pw-123456")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	// Revoking again is a no-op, not an error.
	require.NoError(t, svc.Revoke(ctx, admin.ID, issued.ID))

	require.ErrorIs(t, svc.Revoke(ctx, admin.ID, idx.New().String()), ErrInvitationNotFound)
}

func TestListClampsAndPages(t *testing.T) {
	t.Parallel()

	svc, s, _ := newTestInviteService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	for range 3 {
		_, _, err := svc.Issue(ctx, admin.ID, "page@example.com", nil, domain.RoleMember)
		require.NoError(t, err)
	}

	page, next, err := svc.List(ctx, admin.ID, store.InvitationFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotEmpty(t, next)

	rest, next, err := svc.List(ctx, admin.ID, store.InvitationFilter{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Empty(t, next)

	// Zero and oversized limits both land on the cap.
	all, _, err := svc.List(ctx, admin.ID, store.InvitationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	all, _, err = svc.List(ctx, admin.ID, store.InvitationFilter{Limit: 500})
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, _, err = svc.List(ctx, idx.New().String(), store.InvitationFilter{})
	require.ErrorIs(t, err, ErrForbidden)
}
