package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/httpx"
	"github.com/squadcap/squadcap/pkg/jwtx"
	"github.com/squadcap/squadcap/pkg/ratelimit"
	"github.com/squadcap/squadcap/pkg/slogx"

	_ "github.com/squadcap/squadcap/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	limiter      ratelimit.Limiter
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	AuthService   *service.AuthService
	InviteService *service.InviteService
	SquadService  *service.SquadService
}

func NewRouter(
	signer *jwtx.Signer,
	limiter ratelimit.Limiter,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		limiter:      limiter,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvitations()
	r.registerSquads()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Squad Planner API
//	@version		0.1.0
//	@description	Invitation-based onboarding and squad management for the squad capacity planner.
//	@description
//	@description	Accounts enter the system exclusively through single-use invitation credentials.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{AuthService: r.AuthService}

	// POST /login - strict rate limit by IP plus submitted email, so one
	// address cannot burn another's budget and one IP cannot spray accounts
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitMiddleware(r.limiter, "login", httpx.StrictLimit,
				httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.FormFieldKeyExtractor("email"))),
		),
	)
}

func (r *Router) registerInvitations() {
	issueHandler := &InvitationIssueHandler{InviteService: r.InviteService}
	listHandler := &InvitationListHandler{InviteService: r.InviteService}
	regenerateHandler := &InvitationRegenerateHandler{InviteService: r.InviteService}
	revokeHandler := &InvitationRevokeHandler{InviteService: r.InviteService}
	redeemHandler := &InvitationRedeemHandler{InviteService: r.InviteService}

	// Issuing is open to any authenticated account; the service enforces
	// the escalation guard on the granted role.
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(issueHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitMiddleware(r.limiter, "invite.issue", httpx.ModerateLimit, httpx.UserKeyExtractor),
		),
	)
	r.Mux.Handle("GET /v1/invitations",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitMiddleware(r.limiter, "invite.list", httpx.LenientLimit, httpx.UserKeyExtractor),
		),
	)
	r.Mux.Handle("POST /v1/invitations/{id}/regenerate",
		httpx.Chain(regenerateHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RequireRole("admin"),
			httpx.RateLimitMiddleware(r.limiter, "invite.regenerate", httpx.ModerateLimit, httpx.UserKeyExtractor),
		),
	)
	r.Mux.Handle("DELETE /v1/invitations/{id}",
		httpx.Chain(revokeHandler,
			httpx.AuthnMiddleware(r.signer),
			httpx.RequireRole("admin"),
			httpx.RateLimitMiddleware(r.limiter, "invite.revoke", httpx.ModerateLimit, httpx.UserKeyExtractor),
		),
	)

	// POST /invitations/redeem - strict rate limit by IP (public endpoint
	// taking credential guesses)
	r.Mux.Handle("POST /v1/invitations/redeem",
		httpx.Chain(redeemHandler,
			httpx.RateLimitMiddleware(r.limiter, "invite.redeem", httpx.StrictLimit, httpx.IPKeyExtractor),
		),
	)
}

func (r *Router) registerSquads() {
	h := &SquadsHandler{SquadService: r.SquadService}

	r.Mux.Handle("POST /v1/squads",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.signer),
			httpx.RequireRole("admin"),
			httpx.RateLimitMiddleware(r.limiter, "squad.create", httpx.ModerateLimit, httpx.UserKeyExtractor),
		),
	)
	r.Mux.Handle("GET /v1/squads",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.signer),
			httpx.RateLimitMiddleware(r.limiter, "squad.list", httpx.LenientLimit, httpx.UserKeyExtractor),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitMiddleware(r.limiter, "livez", httpx.PublicLimit, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitMiddleware(r.limiter, "readyz", httpx.PublicLimit, httpx.IPKeyExtractor),
		),
	)
}
