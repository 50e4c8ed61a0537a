package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/logger"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

type fakeDrivers struct {
	drivers []models.Driver
}

func (f *fakeDrivers) List(ctx context.Context) ([]models.Driver, error) {
	return f.drivers, nil
}

func (f *fakeDrivers) Get(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	for i := range f.drivers {
		if f.drivers[i].ID == id {
			return &f.drivers[i], nil
		}
	}
	return nil, types.ErrDriverNotFound
}

type fakeTrips struct {
	trips []models.Trip
}

func (f *fakeTrips) ListByDate(ctx context.Context, date time.Time) ([]models.Trip, error) {
	var out []models.Trip
	for _, tr := range f.trips {
		if tr.OnDate(date) {
			out = append(out, tr)
		}
	}
	return out, nil
}

type fakeCompanies struct {
	companies []models.CompanyRequest
}

func (f *fakeCompanies) ListByDate(ctx context.Context, date time.Time) ([]models.CompanyRequest, error) {
	return f.companies, nil
}

func adminCtx() context.Context {
	return models.WithUser(context.Background(), &models.User{ID: uuid.New(), Role: types.RoleAdmin})
}

func newTestService(drivers []models.Driver, trips []models.Trip) *Service {
	log := logger.InitLogger("test", logger.LevelError)
	return NewService(&fakeDrivers{drivers: drivers}, &fakeTrips{trips: trips}, &fakeCompanies{}, log)
}

func TestOverview_NoTripsMeansZeroAcceptanceRate(t *testing.T) {
	s := newTestService([]models.Driver{{ID: uuid.New(), IsOnline: true}}, nil)

	overview, err := s.Overview(adminCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.AcceptanceRate != 0 {
		t.Fatalf("acceptance rate should be 0 with no trips, got %f", overview.AcceptanceRate)
	}
	if overview.TripsToday != 0 {
		t.Fatalf("expected no trips today, got %d", overview.TripsToday)
	}
}

func TestOverview_CountsOnlineAndBelowTarget(t *testing.T) {
	drivers := []models.Driver{
		{ID: uuid.New(), IsOnline: true, MonthlyTrips: 5, MonthlyTarget: 20},
		{ID: uuid.New(), IsOnline: false, MonthlyTrips: 25, MonthlyTarget: 20},
		{ID: uuid.New(), IsOnline: true, MonthlyTrips: 20, MonthlyTarget: 20},
	}
	s := newTestService(drivers, nil)

	overview, err := s.Overview(adminCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.TotalDrivers != 3 {
		t.Fatalf("expected 3 drivers, got %d", overview.TotalDrivers)
	}
	if overview.OnlineDrivers != 2 {
		t.Fatalf("expected 2 online, got %d", overview.OnlineDrivers)
	}
	if overview.BelowTargetCount != 1 {
		t.Fatalf("expected 1 below target, got %d", overview.BelowTargetCount)
	}
}

func TestOverview_AnonymousRejected(t *testing.T) {
	s := newTestService(nil, nil)

	_, err := s.Overview(context.Background())
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDaily_AcceptanceCountsCompletedTrips(t *testing.T) {
	driver := models.Driver{ID: uuid.New(), Name: "Marat"}
	today := time.Now()
	trips := []models.Trip{
		{ID: uuid.New(), DriverID: driver.ID, Date: today, Status: types.TripAccepted},
		{ID: uuid.New(), DriverID: driver.ID, Date: today, Status: types.TripCompleted},
		{ID: uuid.New(), DriverID: driver.ID, Date: today, Status: types.TripDeclined},
		{ID: uuid.New(), DriverID: driver.ID, Date: today, Status: types.TripPending},
	}
	s := newTestService([]models.Driver{driver}, trips)

	report, err := s.Daily(adminCtx(), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalTrips != 4 {
		t.Fatalf("expected 4 trips, got %d", report.TotalTrips)
	}
	if report.AcceptedTrips != 2 {
		t.Fatalf("expected 2 accepted (accepted + completed), got %d", report.AcceptedTrips)
	}
	if report.AcceptanceRate != 0.5 {
		t.Fatalf("expected rate 0.5, got %f", report.AcceptanceRate)
	}
	if len(report.Drivers) != 1 {
		t.Fatalf("driver with trips should appear once, got %d entries", len(report.Drivers))
	}
}

func TestMonthly_Aggregates(t *testing.T) {
	drivers := []models.Driver{
		{ID: uuid.New(), Name: "A", SerialNumber: 1, MonthlyTrips: 10, MonthlyTarget: 20},
		{ID: uuid.New(), Name: "B", SerialNumber: 2, MonthlyTrips: 30, MonthlyTarget: 20},
	}
	s := newTestService(drivers, nil)

	report, err := s.Monthly(adminCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalTrips != 40 {
		t.Fatalf("expected 40 total trips, got %d", report.TotalTrips)
	}
	if report.AverageTripsPerDriver != 20 {
		t.Fatalf("expected average 20, got %f", report.AverageTripsPerDriver)
	}
	if report.BelowTargetCount != 1 || len(report.BelowTarget) != 1 || report.BelowTarget[0].Name != "A" {
		t.Fatalf("below-target detection wrong: %+v", report.BelowTarget)
	}

	if len(report.DriverPerformance) != 2 {
		t.Fatalf("expected 2 performance lines, got %d", len(report.DriverPerformance))
	}
	if report.DriverPerformance[0].Percentage != 50 {
		t.Fatalf("expected 50%% for driver A, got %f", report.DriverPerformance[0].Percentage)
	}
}

func TestMonthly_AdminOnly(t *testing.T) {
	s := newTestService(nil, nil)
	ctx := models.WithUser(context.Background(), &models.User{ID: uuid.New(), Role: types.RoleDriver})

	_, err := s.Monthly(ctx)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestExportMonthly_ProducesValidJSON(t *testing.T) {
	s := newTestService([]models.Driver{{ID: uuid.New(), Name: "A", MonthlyTrips: 3, MonthlyTarget: 20}}, nil)

	payload, err := s.ExportMonthly(adminCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded models.MonthlyReport
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.TotalTrips != 3 {
		t.Fatalf("expected 3 total trips in export, got %d", decoded.TotalTrips)
	}
}
