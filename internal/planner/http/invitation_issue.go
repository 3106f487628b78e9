package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/pkg/httpx"
	"github.com/squadcap/squadcap/pkg/plannersdk"
	"github.com/squadcap/squadcap/pkg/slogx"
)

type InvitationIssueHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invitation
//	@Description	Create a pending invitation for an email address. The response carries the raw credential exactly once; only its fingerprint is stored. Granting lead or admin requires an admin session.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		plannersdk.IssueInvitationRequest	true	"Invitation request"
//	@Success		201		{object}	plannersdk.InvitationResponse		"id, token, expires_at"
//	@Failure		400		{object}	plannersdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	plannersdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	plannersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationIssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req plannersdk.IssueInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	if req.InvitedRole == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invited_role is required")
		return
	}

	actorID := httpx.UserIDFromContext(ctx)
	if actorID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	inv, credential, err := h.InviteService.Issue(ctx, actorID, req.Email, req.SquadID, domain.Role(req.InvitedRole))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Not allowed to grant this role")
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown invited_role")
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid email address")
		case errors.Is(err, service.ErrSquadNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Squad not found")
		default:
			log.Error("failed to issue invitation", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, plannersdk.InvitationResponse{
		ID:        inv.ID,
		Token:     credential,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
	})
}
