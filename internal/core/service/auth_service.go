package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
	"github.com/RiasZoV/Practice/internal/metrics"
)

// AuthService implements login and self-service password changes.
type AuthService struct {
	repo     ports.DirectoryRepository
	creds    ports.CredentialService
	location *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAuthService returns an AuthService stamping last-login times in loc.
// A nil loc means UTC.
func NewAuthService(repo ports.DirectoryRepository, creds ports.CredentialService, loc *time.Location, logger zerolog.Logger) *AuthService {
	if loc == nil {
		loc = time.UTC
	}
	return &AuthService{repo: repo, creds: creds, location: loc, now: time.Now, logger: logger}
}

// Login verifies login and password and records the last-login time.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.repo.FindUserByLogin(ctx, login)
	if err != nil {
		observeAuth("login", err)
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("login", login).Msg("login for unknown user")
		}
		return nil, err
	}

	if !s.creds.Verify(user.PasswordHash, password) {
		observeAuth("login", domain.ErrInvalidCredentials)
		s.logger.Info().Str("login", login).Msg("login with wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	ts := s.now().In(s.location)
	user.LastLogin = &ts
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		observeAuth("login", err)
		return nil, fmt.Errorf("login: record last login: %w", err)
	}

	observeAuth("login", nil)
	s.logger.Info().Str("login", login).Int64("user_id", user.ID).Str("tier", user.Tier().String()).Msg("user logged in")
	return user, nil
}

// ChangeOwnPassword replaces the caller's credential after checking the old one.
func (s *AuthService) ChangeOwnPassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		observeAuth("change_own_password", err)
		return err
	}

	if !s.creds.Verify(user.PasswordHash, oldPassword) {
		observeAuth("change_own_password", domain.ErrInvalidCredentials)
		return domain.ErrInvalidCredentials
	}

	hash, err := s.creds.Hash(newPassword)
	if err != nil {
		observeAuth("change_own_password", err)
		return fmt.Errorf("change own password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		observeAuth("change_own_password", err)
		return fmt.Errorf("change own password: %w", err)
	}

	observeAuth("change_own_password", nil)
	s.logger.Info().Str("login", user.Login).Msg("password changed by owner")
	return nil
}

func observeAuth(kind string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUserNotFound):
		result = "user_not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		result = "invalid_credentials"
	default:
		result = "error"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(kind, result).Inc()
}
