package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/idx"
	"github.com/squadcap/squadcap/pkg/slogx"
)

var ErrInvalidSquadName = errors.New("invalid squad name")

// SquadService manages the squads invitations can attach accounts to.
type SquadService struct {
	Store store.Store
}

// Create provisions a new squad. Admin accounts only.
func (s *SquadService) Create(ctx context.Context, actorID, name string) (domain.Squad, error) {
	log := slogx.FromContext(ctx)

	actor, err := s.Store.Users().GetUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Squad{}, ErrForbidden
		}
		log.Error("failed to fetch actor", slog.Any("error", err))
		return domain.Squad{}, err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.Squad{}, ErrForbidden
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Squad{}, ErrInvalidSquadName
	}

	squad := domain.Squad{
		ID:   idx.New().String(),
		Name: name,
	}
	if err := s.Store.Squads().CreateSquad(ctx, squad); err != nil {
		log.Error("failed to create squad", slog.Any("error", err))
		return domain.Squad{}, err
	}

	log.Info("squad created",
		slog.String("squad_id", squad.ID),
		slog.String("actor_id", actor.ID),
	)
	return squad, nil
}

// List returns all squads.
func (s *SquadService) List(ctx context.Context) ([]domain.Squad, error) {
	squads, err := s.Store.Squads().ListSquads(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list squads", slog.Any("error", err))
		return nil, err
	}
	return squads, nil
}
