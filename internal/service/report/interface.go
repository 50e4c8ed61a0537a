package report

import (
	"context"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

/*=================Driver Repository======================*/

type DriverRepo interface {
	List(ctx context.Context) ([]models.Driver, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Driver, error)
}

/*=================Trip Repository========================*/

type TripRepo interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.Trip, error)
}

/*=================Company Repository=====================*/

type CompanyRepo interface {
	ListByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error)
}
