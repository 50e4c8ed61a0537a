package trip

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

// Service moves trips through their lifecycle. Transitions are compare-and-set
// at the store, so a retried or racing request observes ErrInvalidTransition
// instead of applying twice.
type Service struct {
	trips    TripRepo
	drivers  DriverRepo
	notifier Notifier

	trm    trm.TxManager
	logger logger.Logger
}

func NewService(trips TripRepo, drivers DriverRepo, notifier Notifier, trm trm.TxManager, logger logger.Logger) *Service {
	return &Service{
		trips:    trips,
		drivers:  drivers,
		notifier: notifier,
		trm:      trm,
		logger:   logger,
	}
}

// Respond records a driver's answer to a pending trip. Only the assigned
// driver (or an admin acting for them) may answer. Accepting bumps the
// driver's monthly counter in the same transaction; declining leaves it
// untouched.
func (s *Service) Respond(ctx context.Context, tripID uuid.UUID, decision types.TripDecision) (*models.Trip, error) {
	ctx = wrap.WithAction(ctx, "respond_trip")
	ctx = wrap.WithTripID(ctx, tripID.String())

	if !decision.Valid() {
		return nil, wrap.Error(ctx, types.ErrInvalidDecision)
	}

	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if err := s.authorizeDriverAction(ctx, trip); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		moved, err := s.trips.UpdateStatus(ctx, tripID, types.TripPending, decision.Status())
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update trip status: %w", err))
		}
		if !moved {
			return wrap.Error(ctx, types.ErrInvalidTransition)
		}

		if decision == types.DecisionAccepted {
			if err := s.drivers.IncrementMonthlyTrips(ctx, trip.DriverID); err != nil {
				return wrap.Error(ctx, fmt.Errorf("could not bump monthly trips: %w", err))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	trip.Status = decision.Status()

	metrics.TripResponsesTotal.WithLabelValues("fleet", string(decision)).Inc()
	s.logger.Info(ctx, "trip answered", "decision", string(decision))

	s.notify(ctx, types.KindTrips, models.ChangeUpdated)
	if decision == types.DecisionAccepted {
		s.notify(ctx, types.KindDrivers, models.ChangeUpdated)
	}

	return trip, nil
}

// Complete marks an accepted trip as done. Admin only.
func (s *Service) Complete(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	ctx = wrap.WithAction(ctx, "complete_trip")
	ctx = wrap.WithTripID(ctx, tripID.String())

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	trip, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	moved, err := s.trips.UpdateStatus(ctx, tripID, types.TripAccepted, types.TripCompleted)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not update trip status: %w", err))
	}
	if !moved {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	trip.Status = types.TripCompleted

	s.logger.Info(ctx, "trip completed")
	s.notify(ctx, types.KindTrips, models.ChangeUpdated)

	return trip, nil
}

// List returns trips visible to the caller. Admins see the whole board and
// may filter by driver; drivers only ever see their own trips.
func (s *Service) List(ctx context.Context, driverID *uuid.UUID) ([]models.Trip, error) {
	ctx = wrap.WithAction(ctx, "list_trips")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		own, err := s.drivers.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, wrap.Error(ctx, err)
		}
		driverID = &own.ID
	}

	trips, err := s.trips.List(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return trips, nil
}

// ListToday returns all trips dated today. Admin only, it backs the daily
// dispatch board.
func (s *Service) ListToday(ctx context.Context) ([]models.Trip, error) {
	ctx = wrap.WithAction(ctx, "list_trips_today")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	trips, err := s.trips.ListByDate(ctx, time.Now())
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return trips, nil
}

// authorizeDriverAction allows the assigned driver or an admin.
func (s *Service) authorizeDriverAction(ctx context.Context, trip *models.Trip) error {
	user := models.UserFromContext(ctx)
	if user.IsAdmin() {
		return nil
	}
	if user.IsAnonymous() {
		return types.ErrUnauthorized
	}

	own, err := s.drivers.GetByUserID(ctx, user.ID)
	if err != nil {
		return types.ErrUnauthorized
	}
	if own.ID != trip.DriverID {
		return types.ErrUnauthorized
	}
	return nil
}

func (s *Service) notify(ctx context.Context, kind, action string) {
	event := models.ChangeEvent{Kind: kind, Action: action, Timestamp: time.Now()}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn(ctx, "change notification failed", "kind", kind, "error", err)
	}
}
