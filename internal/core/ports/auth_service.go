package ports

import (
	"context"

	"github.com/RiasZoV/Practice/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (*domain.User, error)
	ChangeOwnPassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}
