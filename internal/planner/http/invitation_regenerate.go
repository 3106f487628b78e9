package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/pkg/httpx"
	"github.com/squadcap/squadcap/pkg/plannersdk"
	"github.com/squadcap/squadcap/pkg/slogx"
)

type InvitationRegenerateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Regenerate Invitation
//	@Description	Expire an invitation and issue a replacement with the same email, squad and role but a fresh credential and expiry. Admin only.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path		string							true	"Invitation ID"
//	@Success		201	{object}	plannersdk.InvitationResponse	"id, token, expires_at"
//	@Failure		403	{object}	plannersdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	plannersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/regenerate [post].
func (h *InvitationRegenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inv, credential, err := h.InviteService.Regenerate(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Admin session required")
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		default:
			log.Error("failed to regenerate invitation", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to regenerate invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, plannersdk.InvitationResponse{
		ID:        inv.ID,
		Token:     credential,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
	})
}
