package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/logger"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct{}

func (fakeNotifier) Notify(ctx context.Context, event models.ChangeEvent) error { return nil }

type fakeTripRepo struct {
	trips map[uuid.UUID]*models.Trip
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[uuid.UUID]*models.Trip)}
}

func (f *fakeTripRepo) Get(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	tr, ok := f.trips[id]
	if !ok {
		return nil, types.ErrTripNotFound
	}
	cp := *tr
	return &cp, nil
}

func (f *fakeTripRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to types.TripStatus) (bool, error) {
	tr, ok := f.trips[id]
	if !ok || tr.Status != from {
		return false, nil
	}
	tr.Status = to
	return true, nil
}

func (f *fakeTripRepo) List(ctx context.Context, driverID *uuid.UUID) ([]models.Trip, error) {
	var out []models.Trip
	for _, tr := range f.trips {
		if driverID == nil || tr.DriverID == *driverID {
			out = append(out, *tr)
		}
	}
	return out, nil
}

func (f *fakeTripRepo) ListByDate(ctx context.Context, date time.Time) ([]models.Trip, error) {
	var out []models.Trip
	for _, tr := range f.trips {
		if tr.OnDate(date) {
			out = append(out, *tr)
		}
	}
	return out, nil
}

type fakeDriverRepo struct {
	byUser     map[uuid.UUID]*models.Driver
	increments map[uuid.UUID]int
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{
		byUser:     make(map[uuid.UUID]*models.Driver),
		increments: make(map[uuid.UUID]int),
	}
}

func (f *fakeDriverRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Driver, error) {
	d, ok := f.byUser[userID]
	if !ok {
		return nil, types.ErrDriverNotFound
	}
	return d, nil
}

func (f *fakeDriverRepo) IncrementMonthlyTrips(ctx context.Context, id uuid.UUID) error {
	f.increments[id]++
	return nil
}

type fixture struct {
	service *Service
	trips   *fakeTripRepo
	drivers *fakeDriverRepo

	trip      *models.Trip
	driverCtx context.Context
	adminCtx  context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	trips := newFakeTripRepo()
	drivers := newFakeDriverRepo()
	log := logger.InitLogger("test", logger.LevelError)

	userID := uuid.New()
	driver := &models.Driver{ID: uuid.New(), UserID: userID}
	drivers.byUser[userID] = driver

	trip := &models.Trip{
		ID:       uuid.New(),
		DriverID: driver.ID,
		Status:   types.TripPending,
		Date:     time.Now(),
	}
	trips.trips[trip.ID] = trip

	return &fixture{
		service:   NewService(trips, drivers, fakeNotifier{}, fakeTx{}, log),
		trips:     trips,
		drivers:   drivers,
		trip:      trip,
		driverCtx: models.WithUser(context.Background(), &models.User{ID: userID, Role: types.RoleDriver}),
		adminCtx:  models.WithUser(context.Background(), &models.User{ID: uuid.New(), Role: types.RoleAdmin}),
	}
}

func TestRespond_AcceptBumpsMonthlyCounter(t *testing.T) {
	f := newFixture(t)

	got, err := f.service.Respond(f.driverCtx, f.trip.ID, types.DecisionAccepted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.TripAccepted {
		t.Fatalf("expected ACCEPTED, got %s", got.Status)
	}
	if f.drivers.increments[f.trip.DriverID] != 1 {
		t.Fatalf("monthly counter should be bumped exactly once")
	}
}

func TestRespond_DeclineLeavesCounterAlone(t *testing.T) {
	f := newFixture(t)

	got, err := f.service.Respond(f.driverCtx, f.trip.ID, types.DecisionDeclined)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.TripDeclined {
		t.Fatalf("expected DECLINED, got %s", got.Status)
	}
	if f.drivers.increments[f.trip.DriverID] != 0 {
		t.Fatalf("declining must not touch the monthly counter")
	}
}

func TestRespond_SecondAnswerFails(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Respond(f.driverCtx, f.trip.ID, types.DecisionAccepted); err != nil {
		t.Fatalf("first respond failed: %v", err)
	}

	_, err := f.service.Respond(f.driverCtx, f.trip.ID, types.DecisionAccepted)
	if !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	// A retried accept must not double-count.
	if f.drivers.increments[f.trip.DriverID] != 1 {
		t.Fatalf("monthly counter bumped %d times, want 1", f.drivers.increments[f.trip.DriverID])
	}
}

func TestRespond_OtherDriverForbidden(t *testing.T) {
	f := newFixture(t)

	otherUser := uuid.New()
	f.drivers.byUser[otherUser] = &models.Driver{ID: uuid.New(), UserID: otherUser}
	otherCtx := models.WithUser(context.Background(), &models.User{ID: otherUser, Role: types.RoleDriver})

	_, err := f.service.Respond(otherCtx, f.trip.ID, types.DecisionAccepted)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRespond_AdminMayAnswerForDriver(t *testing.T) {
	f := newFixture(t)

	if _, err := f.service.Respond(f.adminCtx, f.trip.ID, types.DecisionAccepted); err != nil {
		t.Fatalf("admin should be allowed: %v", err)
	}
}

func TestRespond_InvalidDecision(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Respond(f.driverCtx, f.trip.ID, types.TripDecision("MAYBE"))
	if !errors.Is(err, types.ErrInvalidDecision) {
		t.Fatalf("expected invalid decision, got %v", err)
	}
}

func TestComplete_RequiresAcceptedState(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Complete(f.adminCtx, f.trip.ID)
	if !errors.Is(err, types.ErrInvalidTransition) {
		t.Fatalf("completing a pending trip should fail, got %v", err)
	}

	if _, err := f.service.Respond(f.driverCtx, f.trip.ID, types.DecisionAccepted); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	got, err := f.service.Complete(f.adminCtx, f.trip.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.TripCompleted {
		t.Fatalf("expected COMPLETED, got %s", got.Status)
	}
}

func TestComplete_AdminOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Complete(f.driverCtx, f.trip.ID)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestList_DriverSeesOnlyOwnTrips(t *testing.T) {
	f := newFixture(t)

	foreign := &models.Trip{ID: uuid.New(), DriverID: uuid.New(), Status: types.TripPending, Date: time.Now()}
	f.trips.trips[foreign.ID] = foreign

	trips, err := f.service.List(f.driverCtx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != f.trip.ID {
		t.Fatalf("driver should only see their own trip, got %d trips", len(trips))
	}
}
