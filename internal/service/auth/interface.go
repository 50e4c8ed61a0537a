package auth

import (
	"context"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type RefreshTokenRepo interface {
	Create(ctx context.Context, rec *models.RefreshTokenRecord) error
	GetByHash(ctx context.Context, hash string) (*models.RefreshTokenRecord, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// DriverRegistrar creates the roster row for a new driver account inside the
// registration transaction.
type DriverRegistrar interface {
	CreateForUser(ctx context.Context, userID uuid.UUID, name string) (*models.Driver, error)
}

type TokenProvider interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
