package service

import (
	"context"
	"testing"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/internal/planner/store/drivers/sqlite"
	"github.com/squadcap/squadcap/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestSquadService(t *testing.T) (*SquadService, store.Store) {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return &SquadService{Store: s}, s
}

func TestSquadCreateIsAdminOnly(t *testing.T) {
	t.Parallel()

	svc, s := newTestSquadService(t)
	ctx := context.Background()

	admin := seedUser(t, s, domain.RoleAdmin)
	lead := seedUser(t, s, domain.RoleLead)
	member := seedUser(t, s, domain.RoleMember)

	for _, actor := range []domain.User{lead, member} {
		_, err := svc.Create(ctx, actor.ID, "platform")
		require.ErrorIs(t, err, ErrForbidden)
	}
	_, err := svc.Create(ctx, idx.New().String(), "platform")
	require.ErrorIs(t, err, ErrForbidden)

	squad, err := svc.Create(ctx, admin.ID, "  platform  ")
	require.NoError(t, err)
	require.Equal(t, "platform", squad.Name)
	require.NotEmpty(t, squad.ID)

	_, err = svc.Create(ctx, admin.ID, "   ")
	require.ErrorIs(t, err, ErrInvalidSquadName)
}

func TestSquadListReturnsAll(t *testing.T) {
	t.Parallel()

	svc, s := newTestSquadService(t)
	ctx := context.Background()
	admin := seedUser(t, s, domain.RoleAdmin)

	for _, name := range []string{"alpha", "bravo"} {
		_, err := svc.Create(ctx, admin.ID, name)
		require.NoError(t, err)
	}

	squads, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, squads, 2)
}
