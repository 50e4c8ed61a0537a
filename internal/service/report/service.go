package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

// Service computes reporting aggregates from the roster and the trip board.
// Monthly numbers come from the per-driver counters, daily numbers from the
// trips of the requested date.
type Service struct {
	drivers   DriverRepo
	trips     TripRepo
	companies CompanyRepo

	logger logger.Logger
}

func NewService(drivers DriverRepo, trips TripRepo, companies CompanyRepo, logger logger.Logger) *Service {
	return &Service{
		drivers:   drivers,
		trips:     trips,
		companies: companies,
		logger:    logger,
	}
}

// Overview returns the live dashboard snapshot. Any authenticated user.
func (s *Service) Overview(ctx context.Context) (*models.FleetOverview, error) {
	ctx = wrap.WithAction(ctx, "report_overview")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	trips, err := s.trips.ListByDate(ctx, time.Now())
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	overview := &models.FleetOverview{
		TotalDrivers: len(drivers),
		TripsToday:   len(trips),
	}
	for _, d := range drivers {
		if d.IsOnline {
			overview.OnlineDrivers++
		}
		if d.BelowTarget() {
			overview.BelowTargetCount++
		}
	}
	overview.AcceptanceRate = acceptanceRate(trips)

	return overview, nil
}

// Daily aggregates one calendar day. Admin only.
func (s *Service) Daily(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	ctx = wrap.WithAction(ctx, "report_daily")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	trips, err := s.trips.ListByDate(ctx, date)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	companies, err := s.companies.ListByDate(ctx, date)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	report := &models.DailyReport{
		Date:           date.Format(models.DateLayout),
		TotalTrips:     len(trips),
		AcceptanceRate: acceptanceRate(trips),
		Companies:      companies,
		Drivers:        []models.Driver{},
	}

	seen := make(map[uuid.UUID]bool)
	for _, t := range trips {
		if t.Status == types.TripAccepted || t.Status == types.TripCompleted {
			report.AcceptedTrips++
		}
		if seen[t.DriverID] {
			continue
		}
		seen[t.DriverID] = true

		d, err := s.drivers.Get(ctx, t.DriverID)
		if err != nil {
			// Removed drivers keep their trips on the board.
			continue
		}
		report.Drivers = append(report.Drivers, *d)
	}

	return report, nil
}

// Monthly aggregates the running month from the per-driver counters. Admin
// only.
func (s *Service) Monthly(ctx context.Context) (*models.MonthlyReport, error) {
	ctx = wrap.WithAction(ctx, "report_monthly")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	report := &models.MonthlyReport{
		Month:             time.Now().Format("2006-01"),
		TotalDrivers:      len(drivers),
		BelowTarget:       []models.Driver{},
		DriverPerformance: make([]models.DriverPerformance, 0, len(drivers)),
	}

	for _, d := range drivers {
		report.TotalTrips += d.MonthlyTrips
		if d.BelowTarget() {
			report.BelowTargetCount++
			report.BelowTarget = append(report.BelowTarget, d)
		}

		perf := models.DriverPerformance{
			Name:           d.Name,
			SerialNumber:   d.SerialNumber,
			CompletedTrips: d.MonthlyTrips,
			Target:         d.MonthlyTarget,
		}
		if d.MonthlyTarget > 0 {
			perf.Percentage = float64(d.MonthlyTrips) / float64(d.MonthlyTarget) * 100
		}
		report.DriverPerformance = append(report.DriverPerformance, perf)
	}

	if len(drivers) > 0 {
		report.AverageTripsPerDriver = float64(report.TotalTrips) / float64(len(drivers))
	}

	return report, nil
}

// ExportDaily renders the daily report as indented JSON for download.
func (s *Service) ExportDaily(ctx context.Context, date time.Time) ([]byte, error) {
	ctx = wrap.WithAction(ctx, "report_export_daily")

	report, err := s.Daily(ctx, date)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not render daily report: %w", err))
	}

	s.logger.Info(ctx, "daily report exported", "date", report.Date, "bytes", len(payload))
	return payload, nil
}

// ExportMonthly renders the monthly report as indented JSON for download.
func (s *Service) ExportMonthly(ctx context.Context) ([]byte, error) {
	ctx = wrap.WithAction(ctx, "report_export_monthly")

	report, err := s.Monthly(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("could not render monthly report: %w", err))
	}

	s.logger.Info(ctx, "monthly report exported", "month", report.Month, "bytes", len(payload))
	return payload, nil
}

// acceptanceRate is accepted over total, zero when there are no trips.
// Completed trips count as accepted, they were accepted first.
func acceptanceRate(trips []models.Trip) float64 {
	if len(trips) == 0 {
		return 0
	}

	accepted := 0
	for _, t := range trips {
		if t.Status == types.TripAccepted || t.Status == types.TripCompleted {
			accepted++
		}
	}
	return float64(accepted) / float64(len(trips))
}
