package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/metrics"
	"github.com/tanker-union/fleet-system/pkg/trm"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

// Service assigns daily trips to companies over the driver rotation. The
// rotation cursor lives in the store and is locked for the duration of each
// assignment, so concurrent admin requests line up instead of double-booking
// the same window of drivers.
type Service struct {
	drivers   DriverRepo
	trips     TripRepo
	companies CompanyRepo
	rotation  RotationRepo
	notifier  Notifier

	trm    trm.TxManager
	logger logger.Logger
}

func NewService(
	drivers DriverRepo,
	trips TripRepo,
	companies CompanyRepo,
	rotation RotationRepo,
	notifier Notifier,
	trm trm.TxManager,
	logger logger.Logger,
) *Service {
	return &Service{
		drivers:   drivers,
		trips:     trips,
		companies: companies,
		rotation:  rotation,
		notifier:  notifier,
		trm:       trm,
		logger:    logger,
	}
}

// AssignTrips creates one pending trip per needed vehicle for a company.
// tripsRequested is what the company asked for and is recorded as given;
// vehiclesNeeded is how many vehicles (and so drivers) cover it, a vehicle
// makes several runs a day. Drivers are picked as a contiguous window of the
// eligible roster ordered by serial number, starting at the persisted cursor.
// All-or-nothing: when the roster cannot cover the request, nothing is
// written and the cursor does not move.
func (s *Service) AssignTrips(ctx context.Context, companyName string, tripsRequested, vehiclesNeeded int, date time.Time) (*models.AssignmentResult, error) {
	ctx = wrap.WithAction(ctx, "assign_trips")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	if tripsRequested < 1 {
		return nil, wrap.Error(ctx, fmt.Errorf("trips requested must be positive, got %d", tripsRequested))
	}
	if vehiclesNeeded < 1 {
		return nil, wrap.Error(ctx, fmt.Errorf("vehicles needed must be positive, got %d", vehiclesNeeded))
	}

	var result *models.AssignmentResult

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		cursor, err := s.rotation.CursorForUpdate(ctx)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not lock rotation cursor: %w", err))
		}

		eligible, err := s.drivers.ListEligible(ctx)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not list eligible drivers: %w", err))
		}

		if len(eligible) < vehiclesNeeded {
			metrics.AssignmentsRejectedTotal.WithLabelValues("fleet", "insufficient_drivers").Inc()
			return wrap.Error(ctx, &types.InsufficientDriversError{
				Needed:    vehiclesNeeded,
				Available: len(eligible),
			})
		}

		chosen := rotateWindow(eligible, cursor, vehiclesNeeded)

		company := models.CompanyRequest{
			ID:               uuid.New(),
			Name:             companyName,
			TripsRequested:   tripsRequested,
			VehiclesAssigned: vehiclesNeeded,
			AssignmentDate:   date,
		}
		if err := s.companies.Create(ctx, &company); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create company request: %w", err))
		}

		now := time.Now()
		trips := make([]models.Trip, 0, vehiclesNeeded)
		for _, d := range chosen {
			trips = append(trips, models.Trip{
				ID:          uuid.New(),
				DriverID:    d.ID,
				CompanyName: companyName,
				Date:        date,
				Status:      types.TripPending,
				AssignedAt:  now,
			})
		}
		if err := s.trips.CreateBatch(ctx, trips); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create trips: %w", err))
		}

		next := (cursor + vehiclesNeeded) % len(eligible)
		if err := s.rotation.SetCursor(ctx, next); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not advance rotation cursor: %w", err))
		}

		result = &models.AssignmentResult{Company: company, Trips: trips}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.TripsAssignedTotal.WithLabelValues("fleet", companyName).Add(float64(vehiclesNeeded))
	s.logger.Info(ctx, "trips assigned",
		"company", companyName,
		"trips_requested", tripsRequested,
		"vehicles", vehiclesNeeded,
		"date", date.Format(models.DateLayout),
	)

	s.notify(ctx, types.KindTrips, models.ChangeCreated)
	s.notify(ctx, types.KindCompanies, models.ChangeCreated)

	return result, nil
}

// ListCompanies returns every recorded company request, newest first.
func (s *Service) ListCompanies(ctx context.Context) ([]models.CompanyRequest, error) {
	ctx = wrap.WithAction(ctx, "list_companies")

	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return companies, nil
}

// ListCompaniesByDate returns the company requests recorded for one day.
func (s *Service) ListCompaniesByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error) {
	ctx = wrap.WithAction(ctx, "list_companies_by_date")

	companies, err := s.companies.ListByDate(ctx, date)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return companies, nil
}

// notify publishes a change event best-effort. The write already committed,
// so a broker failure is logged and swallowed.
func (s *Service) notify(ctx context.Context, kind, action string) {
	event := models.ChangeEvent{Kind: kind, Action: action, Timestamp: time.Now()}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn(ctx, "change notification failed", "kind", kind, "error", err)
	}
}

// rotateWindow picks n drivers starting at cursor, wrapping around the slice.
func rotateWindow(drivers []models.Driver, cursor, n int) []models.Driver {
	start := cursor % len(drivers)
	out := make([]models.Driver, 0, n)
	for i := range n {
		out = append(out, drivers[(start+i)%len(drivers)])
	}
	return out
}
