package trip

import (
	"context"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

/*=================Trip Repository========================*/

type TripRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to types.TripStatus) (bool, error)
	List(ctx context.Context, driverID *uuid.UUID) ([]models.Trip, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Trip, error)
}

/*=================Driver Repository======================*/

type DriverRepo interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error)
	IncrementMonthlyTrips(ctx context.Context, id uuid.UUID) error
}

/*=================Change Notifier========================*/

type Notifier interface {
	Notify(ctx context.Context, event models.ChangeEvent) error
}
