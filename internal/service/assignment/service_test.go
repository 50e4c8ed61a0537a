package assignment

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

type fakeDrivers struct {
	eligible []models.Driver
}

func (f *fakeDrivers) ListEligible(ctx context.Context) ([]models.Driver, error) {
	return f.eligible, nil
}

type fakeTrips struct {
	created []models.Trip
}

func (f *fakeTrips) CreateBatch(ctx context.Context, trips []models.Trip) error {
	f.created = append(f.created, trips...)
	return nil
}

type fakeCompanies struct {
	created []models.CompanyRequest
}

func (f *fakeCompanies) Create(ctx context.Context, c *models.CompanyRequest) error {
	f.created = append(f.created, *c)
	return nil
}

func (f *fakeCompanies) List(ctx context.Context) ([]models.CompanyRequest, error) {
	return f.created, nil
}

func (f *fakeCompanies) ListByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error) {
	var out []models.CompanyRequest
	for _, c := range f.created {
		if c.AssignmentDate.Format(models.DateLayout) == date.Format(models.DateLayout) {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeRotation struct {
	cursor   int
	setCalls int
}

func (f *fakeRotation) CursorForUpdate(ctx context.Context) (int, error) {
	return f.cursor, nil
}

func (f *fakeRotation) SetCursor(ctx context.Context, cursor int) error {
	f.cursor = cursor
	f.setCalls++
	return nil
}

type fakeNotifier struct {
	events []models.ChangeEvent
}

func (f *fakeNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	f.events = append(f.events, event)
	return nil
}

func rosterOf(n int) []models.Driver {
	drivers := make([]models.Driver, 0, n)
	for i := range n {
		drivers = append(drivers, models.Driver{
			ID:           uuid.New(),
			SerialNumber: i + 1,
			IsOnline:     true,
			IsAvailable:  true,
		})
	}
	return drivers
}

func adminCtx() context.Context {
	return models.WithUser(context.Background(), &models.User{ID: uuid.New(), Role: types.RoleAdmin})
}

func driverCtx() context.Context {
	return models.WithUser(context.Background(), &models.User{ID: uuid.New(), Role: types.RoleDriver})
}

func newTestService(drivers *fakeDrivers, trips *fakeTrips, companies *fakeCompanies, rotation *fakeRotation) *Service {
	log := logger.InitLogger("test", logger.LevelError)
	return NewService(drivers, trips, companies, rotation, &fakeNotifier{}, fakeTx{}, log)
}

func TestAssignTrips_CreatesPendingTripsForDistinctDrivers(t *testing.T) {
	drivers := &fakeDrivers{eligible: rosterOf(5)}
	trips := &fakeTrips{}
	companies := &fakeCompanies{}
	rotation := &fakeRotation{}

	s := newTestService(drivers, trips, companies, rotation)

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	result, err := s.AssignTrips(adminCtx(), "Aqua Ltd", 9, 3, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trips.created) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(trips.created))
	}

	seen := make(map[uuid.UUID]bool)
	for _, tr := range trips.created {
		if tr.Status != types.TripPending {
			t.Fatalf("expected PENDING trip, got %s", tr.Status)
		}
		if tr.CompanyName != "Aqua Ltd" {
			t.Fatalf("unexpected company name %q", tr.CompanyName)
		}
		if !tr.OnDate(date) {
			t.Fatalf("trip dated %v, want %v", tr.Date, date)
		}
		if seen[tr.DriverID] {
			t.Fatalf("driver %s assigned twice", tr.DriverID)
		}
		seen[tr.DriverID] = true
	}

	if len(companies.created) != 1 {
		t.Fatalf("expected one company record, got %d", len(companies.created))
	}
	company := companies.created[0]
	if company.TripsRequested != 9 || company.VehiclesAssigned != 3 {
		t.Fatalf("unexpected company record: %+v", company)
	}

	if len(result.Trips) != 3 {
		t.Fatalf("result should carry the created trips, got %d", len(result.Trips))
	}
}

func TestAssignTrips_RotationWindow(t *testing.T) {
	roster := rosterOf(5)
	drivers := &fakeDrivers{eligible: roster}
	trips := &fakeTrips{}
	rotation := &fakeRotation{cursor: 3}

	s := newTestService(drivers, trips, &fakeCompanies{}, rotation)

	if _, err := s.AssignTrips(adminCtx(), "Aqua Ltd", 6, 3, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Window starts at index 3 and wraps: drivers 4, 5, 1 by serial.
	wantSerials := []int{4, 5, 1}
	bySerial := make(map[uuid.UUID]int)
	for _, d := range roster {
		bySerial[d.ID] = d.SerialNumber
	}
	for i, tr := range trips.created {
		if got := bySerial[tr.DriverID]; got != wantSerials[i] {
			t.Fatalf("trip %d assigned to serial %d, want %d", i, got, wantSerials[i])
		}
	}

	if rotation.cursor != 1 {
		t.Fatalf("cursor should advance to 1, got %d", rotation.cursor)
	}
}

func TestAssignTrips_CursorBeyondRosterWraps(t *testing.T) {
	roster := rosterOf(3)
	drivers := &fakeDrivers{eligible: roster}
	trips := &fakeTrips{}
	// Roster shrank since the cursor was written.
	rotation := &fakeRotation{cursor: 7}

	s := newTestService(drivers, trips, &fakeCompanies{}, rotation)

	if _, err := s.AssignTrips(adminCtx(), "Aqua Ltd", 2, 1, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 7 % 3 == 1: second driver gets the trip.
	if trips.created[0].DriverID != roster[1].ID {
		t.Fatalf("expected driver at index 1 to be picked")
	}
}

func TestAssignTrips_InsufficientDriversWritesNothing(t *testing.T) {
	drivers := &fakeDrivers{eligible: rosterOf(2)}
	trips := &fakeTrips{}
	companies := &fakeCompanies{}
	rotation := &fakeRotation{cursor: 1}

	s := newTestService(drivers, trips, companies, rotation)

	_, err := s.AssignTrips(adminCtx(), "Aqua Ltd", 12, 3, time.Now())
	if err == nil {
		t.Fatal("expected an error")
	}

	insufficient, ok := types.IsInsufficientDrivers(err)
	if !ok {
		t.Fatalf("expected InsufficientDriversError, got %v", err)
	}
	if insufficient.Needed != 3 || insufficient.Available != 2 {
		t.Fatalf("unexpected error detail: %+v", insufficient)
	}

	if len(trips.created) != 0 {
		t.Fatalf("no trips should be written, got %d", len(trips.created))
	}
	if len(companies.created) != 0 {
		t.Fatalf("no company record should be written, got %d", len(companies.created))
	}
	if rotation.setCalls != 0 || rotation.cursor != 1 {
		t.Fatalf("cursor must not move on rejection")
	}
}

func TestAssignTrips_AdminOnly(t *testing.T) {
	s := newTestService(&fakeDrivers{eligible: rosterOf(3)}, &fakeTrips{}, &fakeCompanies{}, &fakeRotation{})

	_, err := s.AssignTrips(driverCtx(), "Aqua Ltd", 1, 1, time.Now())
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestAssignTrips_TripAskExceedsVehiclesNeeded(t *testing.T) {
	// Ten trips covered by two vehicles: eligibility is judged against the
	// vehicle count, and the company record keeps the two figures apart.
	roster := rosterOf(3)
	roster[2].IsOnline = false
	drivers := &fakeDrivers{eligible: roster[:2]}
	trips := &fakeTrips{}
	companies := &fakeCompanies{}

	s := newTestService(drivers, trips, companies, &fakeRotation{})

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	result, err := s.AssignTrips(adminCtx(), "Acme", 10, 2, date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trips.created) != 2 {
		t.Fatalf("expected one trip per vehicle, got %d", len(trips.created))
	}
	for _, tr := range trips.created {
		if tr.Status != types.TripPending {
			t.Fatalf("expected PENDING trip, got %s", tr.Status)
		}
	}

	company := companies.created[0]
	if company.TripsRequested != 10 {
		t.Fatalf("trips_requested should be recorded as asked, got %d", company.TripsRequested)
	}
	if company.VehiclesAssigned != 2 {
		t.Fatalf("vehicles_assigned should match the vehicle count, got %d", company.VehiclesAssigned)
	}
	if result.Company.TripsRequested != 10 || result.Company.VehiclesAssigned != 2 {
		t.Fatalf("result should carry both counts: %+v", result.Company)
	}
}
