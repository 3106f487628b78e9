package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/pkg/httpx"
	"github.com/squadcap/squadcap/pkg/plannersdk"
	"github.com/squadcap/squadcap/pkg/slogx"
)

type InvitationRedeemHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Redeem Invitation
//	@Description	Consume a single-use invitation credential, creating the account when the email is new. Invalid, expired and already-used credentials all produce the same error.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		plannersdk.RedeemInvitationRequest	true	"Redemption request"
//	@Success		200		{object}	plannersdk.RedeemInvitationResponse	"account_id"
//	@Failure		400		{object}	plannersdk.ErrorResponse			"error, error_description"
//	@Router			/v1/invitations/redeem [post].
func (h *InvitationRedeemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req plannersdk.RedeemInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	accountID, err := h.InviteService.Redeem(ctx, req.Token, req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token and a valid email are required")
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_token", "Invitation token is invalid or expired")
		default:
			log.Error("failed to redeem invitation", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to redeem invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, plannersdk.RedeemInvitationResponse{AccountID: accountID})
}
