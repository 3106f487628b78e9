package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/cryptox"
	"github.com/squadcap/squadcap/pkg/idx"
)

// SeedAdmin creates the initial admin account when the user table is
// empty. A non-empty table makes this a no-op so restarts are safe.
// Every later account enters through the invitation flow.
func SeedAdmin(ctx context.Context, s store.Store, logger *slog.Logger, email, password string) error {
	empty, err := s.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	if email == "" || password == "" {
		return errors.New("empty user table and no admin credentials configured")
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Email:        domain.NormalizeEmail(email),
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.Users().CreateUser(ctx, admin); err != nil {
		return err
	}

	logger.Info("seeded initial admin account",
		slog.String("user_id", admin.ID),
		slog.String("email", admin.Email),
	)
	return nil
}
