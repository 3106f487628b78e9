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

type SquadsHandler struct {
	SquadService *service.SquadService
}

// HandleCreate godoc
//
//	@Summary		Create Squad
//	@Description	Provision a new squad. Admin session required.
//	@Tags			Squads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		plannersdk.CreateSquadRequest	true	"Squad request"
//	@Success		201		{object}	plannersdk.Squad				"id, name"
//	@Failure		400		{object}	plannersdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	plannersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/squads [post].
func (h *SquadsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req plannersdk.CreateSquadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	squad, err := h.SquadService.Create(ctx, httpx.UserIDFromContext(ctx), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Admin session required")
		case errors.Is(err, service.ErrInvalidSquadName):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		default:
			log.Error("failed to create squad", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create squad")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, plannersdk.Squad{ID: squad.ID, Name: squad.Name})
}

// HandleList godoc
//
//	@Summary		List Squads
//	@Description	List all squads.
//	@Tags			Squads
//	@Produce		json
//	@Success		200	{object}	plannersdk.ListSquadsResponse	"squads"
//	@Failure		401	{object}	plannersdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/squads [get].
func (h *SquadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	squads, err := h.SquadService.List(ctx)
	if err != nil {
		log.Error("failed to list squads", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list squads")
		return
	}

	resp := plannersdk.ListSquadsResponse{Squads: make([]plannersdk.Squad, 0, len(squads))}
	for _, squad := range squads {
		resp.Squads = append(resp.Squads, plannersdk.Squad{ID: squad.ID, Name: squad.Name})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
