package planner_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "github.com/squadcap/squadcap/internal/planner/http"
	"github.com/squadcap/squadcap/internal/planner/mail"
	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/internal/planner/store/drivers/sqlite"
	"github.com/squadcap/squadcap/pkg/jwtx"
	"github.com/squadcap/squadcap/pkg/plannersdk"
	"github.com/squadcap/squadcap/pkg/ratelimit"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests running the full HTTP stack in-process: sqlite store,
 * services, router and middleware behind an httptest server, driven
 * through the plannersdk client.
 */

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"
)

// setupServer boots the service against an in-memory database and
// returns an SDK client pointed at it.
func setupServer(t *testing.T) *plannersdk.SDKClient {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	logger := slog.New(slog.DiscardHandler)
	require.NoError(t, service.SeedAdmin(context.Background(), st, logger, adminEmail, adminPassword))

	signer := &jwtx.Signer{
		Secret: []byte("e2e-session-secret"),
		Issuer: "squadcap-test",
		TTL:    time.Hour,
	}

	inviteService := &service.InviteService{
		Store:   st,
		Mailer:  &mail.LogSender{Logger: logger},
		Auditor: service.NewAuditor(st),
		BaseURL: "http://planner.test",
	}

	router := httpapi.NewRouter(signer, ratelimit.NewLocalWindow(), "test", st, logger)
	router.AuthService = &service.AuthService{Store: st, Signer: signer}
	router.InviteService = inviteService
	router.SquadService = &service.SquadService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return plannersdk.NewSDKClient(server.URL)
}

// loginAdmin authenticates the seeded admin account.
func loginAdmin(t *testing.T, client *plannersdk.SDKClient) *plannersdk.Session {
	t.Helper()

	session, err := client.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	return session
}
