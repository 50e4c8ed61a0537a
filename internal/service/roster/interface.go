package roster

import (
	"context"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

/*=================Driver Repository======================*/

type DriverRepo interface {
	Create(ctx context.Context, driver *models.Driver) error
	Get(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	SetMonthlyTarget(ctx context.Context, id uuid.UUID, target int) error
	ResetMonthlyTrips(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

/*=================Token Revoker==========================*/

type TokenRevoker interface {
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

/*=================Change Notifier========================*/

type Notifier interface {
	Notify(ctx context.Context, event models.ChangeEvent) error
}
