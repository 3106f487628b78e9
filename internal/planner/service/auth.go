package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/squadcap/squadcap/internal/planner/domain"
	"github.com/squadcap/squadcap/internal/planner/store"
	"github.com/squadcap/squadcap/pkg/cryptox"
	"github.com/squadcap/squadcap/pkg/jwtx"
	"github.com/squadcap/squadcap/pkg/slogx"
)

var ErrInvalidCredentials = errors.New("invalid_credentials")

// AuthService exchanges email/password logins for signed session
// tokens.
type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer
}

// Login verifies the password for the account behind email and returns
// a session token. Unknown accounts and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return "", err
	}

	if user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login attempt with wrong password",
				slog.String("user_id", user.ID),
			)
			return "", ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return "", err
	}

	token, err := s.Signer.Sign(user.ID, user.Role.String())
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return token, nil
}
