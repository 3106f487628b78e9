package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/service"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/httpx"
	"github.com/squadcap/squadcap/pkg/plannersdk"
	"github.com/squadcap/squadcap/pkg/slogx"
)

type InvitationListHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		List Invitations
//	@Description	List invitations newest first, filterable by status and email substring. Credential fingerprints are never included.
//	@Tags			Invitations
//	@Produce		json
//	@Param			status	query		string								false	"Filter by status (pending, accepted, expired)"
//	@Param			email	query		string								false	"Filter by email substring"
//	@Param			cursor	query		string								false	"Resume after this invitation id"
//	@Param			limit	query		int									false	"Page size, capped at 50"
//	@Success		200		{object}	plannersdk.ListInvitationsResponse	"invitations, next_cursor"
//	@Failure		400		{object}	plannersdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	plannersdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	filter := store.InvitationFilter{
		EmailContains: r.URL.Query().Get("email"),
		Cursor:        r.URL.Query().Get("cursor"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.InvitationStatus(status)
		if !s.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown status filter")
			return
		}
		filter.Status = s
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	invitations, next, err := h.InviteService.List(ctx, httpx.UserIDFromContext(ctx), filter)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Not allowed to list invitations")
			return
		}
		log.Error("failed to list invitations", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list invitations")
		return
	}

	resp := plannersdk.ListInvitationsResponse{
		Invitations: make([]plannersdk.Invitation, 0, len(invitations)),
		NextCursor:  next,
	}
	for _, inv := range invitations {
		resp.Invitations = append(resp.Invitations, plannersdk.Invitation{
			ID:          inv.ID,
			Email:       inv.Email,
			SquadID:     inv.SquadID,
			InvitedRole: inv.InvitedRole.String(),
			Status:      string(inv.Status),
			ExpiresAt:   inv.ExpiresAt.Format(time.RFC3339),
			CreatedAt:   inv.CreatedAt.Format(time.RFC3339),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
