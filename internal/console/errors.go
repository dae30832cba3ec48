package console

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

// describeError maps known domain errors to operator messages. Anything else
// is logged and reported generically.
func describeError(err error, log zerolog.Logger) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid login or password"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, domain.ErrRoleNotFound):
		return "role not found"
	case errors.Is(err, domain.ErrFunctionNotFound):
		return "function not found"
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrDuplicateLogin):
		return "a user with this login already exists"
	case errors.Is(err, domain.ErrDuplicateRole):
		return "a role with this name already exists"
	case errors.Is(err, domain.ErrDuplicateFunction):
		return "the role already has this function"
	case errors.Is(err, domain.ErrForbidden):
		return "operation not permitted"
	case errors.Is(err, domain.ErrSubordinateCycle):
		return "the new subordinates would make the hierarchy circular"
	}

	log.Error().Err(err).Msg("unhandled error")
	return "internal error, see log for details"
}
