package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
	"github.com/RiasZoV/Practice/internal/core/ports"
	"github.com/RiasZoV/Practice/internal/metrics"
)

// Authorizer gates operations on the session's permitted-operation set.
type Authorizer struct {
	repo               ports.DirectoryRepository
	scopeManagerResets bool
	logger             zerolog.Logger
}

// NewAuthorizer returns an Authorizer. With scopeManagerResets set, managers
// may only reset passwords of their own subordinates; otherwise resets outside
// that set are allowed but flagged.
func NewAuthorizer(repo ports.DirectoryRepository, scopeManagerResets bool, logger zerolog.Logger) *Authorizer {
	return &Authorizer{repo: repo, scopeManagerResets: scopeManagerResets, logger: logger}
}

// Authorize returns domain.ErrForbidden unless the open session may run op.
func (a *Authorizer) Authorize(s *domain.Session, op domain.Operation) error {
	if s.Permits(op) {
		return nil
	}
	tier := domain.TierUnknown
	if s != nil {
		tier = s.Tier
	}
	metrics.AuthorizationDeniedTotal.WithLabelValues(tier.String(), string(op)).Inc()
	a.logger.Warn().Str("tier", tier.String()).Str("operation", string(op)).Msg("operation denied")
	return domain.ErrForbidden
}

// CheckResetScope applies the subordinate scope to a manager's password reset.
// Admins are never scoped. A target that does not exist yields
// domain.ErrUserNotFound before any scope decision is made.
func (a *Authorizer) CheckResetScope(ctx context.Context, s *domain.Session, targetID int64) error {
	if err := a.Authorize(s, domain.OpResetPassword); err != nil {
		return err
	}
	if _, err := a.repo.FindUserByID(ctx, targetID); err != nil {
		return err
	}
	if s.Tier != domain.TierManager {
		return nil
	}

	subs, err := a.repo.Subordinates(ctx, s.User.ID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.ID == targetID {
			return nil
		}
	}

	metrics.OutOfScopeResetsTotal.WithLabelValues(strconv.FormatBool(a.scopeManagerResets)).Inc()
	if a.scopeManagerResets {
		a.logger.Warn().Str("login", s.User.Login).Int64("target_id", targetID).Msg("manager reset outside subordinates refused")
		return domain.ErrForbidden
	}
	a.logger.Warn().Str("login", s.User.Login).Int64("target_id", targetID).Msg("manager reset outside subordinates")
	return nil
}
