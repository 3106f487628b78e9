package http

import (
	"errors"
	"net/http"

	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/pkg/httpx"
	"github.com/squadcap/squadcap/pkg/slogx"
)

type InvitationRevokeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invitation
//	@Description	Expire a pending invitation so its credential stops working. Revoking an already accepted or expired invitation is a no-op. Admin only.
//	@Tags			Invitations
//	@Produce		json
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204	"invitation revoked"
//	@Failure		403	{object}	plannersdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	plannersdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.InviteService.Revoke(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Admin session required")
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found")
		default:
			log.Error("failed to revoke invitation", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to revoke invitation")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
