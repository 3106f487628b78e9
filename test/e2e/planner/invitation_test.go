package planner_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/squadcap/squadcap/pkg/plannersdk"
	"github.com/stretchr/testify/require"
)

func TestInvitationLifecycle(t *testing.T) {
	t.Parallel()

	client := setupServer(t)
	ctx := context.Background()
	admin := loginAdmin(t, client)

	squad, err := admin.CreateSquad(ctx, "platform")
	require.NoError(t, err)

	// Issue an invitation into the squad.
	issued, err := admin.IssueInvitation(ctx, plannersdk.IssueInvitationRequest{
		Email:       "NewUser@Example.com",
		SquadID:     &squad.ID,
		InvitedRole: "member",
	})
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)

	// The listing shows a pending row with the normalized email and no
	// credential material.
	page, err := admin.ListInvitations(ctx, "pending", "", "", 10)
	require.NoError(t, err)
	require.Len(t, page.Invitations, 1)
	require.Equal(t, "newuser@example.com", page.Invitations[0].Email)
	require.Equal(t, "pending", page.Invitations[0].Status)

	// Redeem, creating the account.
	redeemed, err := client.RedeemInvitation(ctx, plannersdk.RedeemInvitationRequest{
		Token:    issued.Token,
		Email:    "newuser@example.com",
		Name:     "New User",
		Password: "User123!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, redeemed.AccountID)

	// The new account can log in and see squads.
	session, err := client.Login(ctx, "newuser@example.com", "User123!")
	require.NoError(t, err)
	squads, err := session.ListSquads(ctx)
	require.NoError(t, err)
	require.Len(t, squads.Squads, 1)

	// Second redemption of the same credential fails.
	_, err = client.RedeemInvitation(ctx, plannersdk.RedeemInvitationRequest{
		Token: issued.Token,
		Email: "newuser@example.com",
	})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_token")
}

func TestInvitationRegenerateAndRevoke(t *testing.T) {
	t.Parallel()

	client := setupServer(t)
	ctx := context.Background()
	admin := loginAdmin(t, client)

	issued, err := admin.IssueInvitation(ctx, plannersdk.IssueInvitationRequest{
		Email:       "rotate@example.com",
		InvitedRole: "lead",
	})
	require.NoError(t, err)

	regenerated, err := admin.RegenerateInvitation(ctx, issued.ID)
	require.NoError(t, err)
	require.NotEqual(t, issued.ID, regenerated.ID)
	require.NotEqual(t, issued.Token, regenerated.Token)

	// The old credential is dead.
	_, err = client.RedeemInvitation(ctx, plannersdk.RedeemInvitationRequest{
		Token: issued.Token,
		Email: "rotate@example.com",
	})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_token")

	// Revoke kills the replacement too, and is idempotent.
	require.NoError(t, admin.RevokeInvitation(ctx, regenerated.ID))
	require.NoError(t, admin.RevokeInvitation(ctx, regenerated.ID))
	_, err = client.RedeemInvitation(ctx, plannersdk.RedeemInvitationRequest{
		Token: regenerated.Token,
		Email: "rotate@example.com",
	})
	requireAPIError(t, err, http.StatusBadRequest, "invalid_token")
}

func TestInvitationAuthorization(t *testing.T) {
	t.Parallel()

	client := setupServer(t)
	ctx := context.Background()
	admin := loginAdmin(t, client)

	// Bring in a member through the invitation flow.
	issued, err := admin.IssueInvitation(ctx, plannersdk.IssueInvitationRequest{
		Email:       "member@example.com",
		InvitedRole: "member",
	})
	require.NoError(t, err)
	_, err = client.RedeemInvitation(ctx, plannersdk.RedeemInvitationRequest{
		Token:    issued.Token,
		Email:    "member@example.com",
		Password: "Member123!",
	})
	require.NoError(t, err)

	member, err := client.Login(ctx, "member@example.com", "Member123!")
	require.NoError(t, err)

	// Any authenticated account may issue invitations for the member role
	// and browse the listing.
	invited, err := member.IssueInvitation(ctx, plannersdk.IssueInvitationRequest{
		Email:       "friend@example.com",
		InvitedRole: "member",
	})
	require.NoError(t, err)
	require.NotEmpty(t, invited.Token)
	_, err = member.ListInvitations(ctx, "", "", "", 0)
	require.NoError(t, err)

	// Granting a privileged role stays admin-only.
	_, err = member.IssueInvitation(ctx, plannersdk.IssueInvitationRequest{
		Email:       "boss@example.com",
		InvitedRole: "lead",
	})
	requireAPIError(t, err, http.StatusForbidden, "forbidden")

	// Regenerate, revoke, and squad creation stay admin-only.
	_, err = member.RegenerateInvitation(ctx, invited.ID)
	requireAPIError(t, err, http.StatusForbidden, "forbidden")
	err = member.RevokeInvitation(ctx, invited.ID)
	requireAPIError(t, err, http.StatusForbidden, "forbidden")
	_, err = member.CreateSquad(ctx, "rogue")
	requireAPIError(t, err, http.StatusForbidden, "forbidden")

	// Unauthenticated requests are rejected outright.
	anonymous := client.NewSessionFromToken("not-a-token")
	_, err = anonymous.ListInvitations(ctx, "", "", "", 0)
	requireAPIError(t, err, http.StatusUnauthorized, "")
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*plannersdk.APIError)
	require.True(t, ok, "expected *plannersdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	if code != "" {
		require.Equal(t, code, apiErr.Code)
	}
}
