package assignment

import (
	"context"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
)

/*=================Driver Repository======================*/

type DriverRepo interface {
	ListEligible(ctx context.Context) ([]models.Driver, error)
}

/*=================Trip Repository========================*/

type TripRepo interface {
	CreateBatch(ctx context.Context, trips []models.Trip) error
}

/*=================Company Repository=====================*/

type CompanyRepo interface {
	Create(ctx context.Context, c *models.CompanyRequest) error
	List(ctx context.Context) ([]models.CompanyRequest, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error)
}

/*=================Rotation Repository====================*/

type RotationRepo interface {
	CursorForUpdate(ctx context.Context) (int, error)
	SetCursor(ctx context.Context, cursor int) error
}

/*=================Change Notifier========================*/

type Notifier interface {
	Notify(ctx context.Context, event models.ChangeEvent) error
}
