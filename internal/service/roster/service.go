package roster

import (
	"context"
	"time"

	"github.com/tanker-union/fleet-system/config"
	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/logger"
	wrap "github.com/tanker-union/fleet-system/pkg/logger/wrapper"
	"github.com/tanker-union/fleet-system/pkg/metrics"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

// Service manages the driver roster. Serial numbers are assigned once at
// registration and never reused; the rotation depends on that ordering being
// stable.
type Service struct {
	drivers  DriverRepo
	tokens   TokenRevoker
	notifier Notifier

	cfg    config.RosterConfig
	logger logger.Logger
}

func NewService(drivers DriverRepo, tokens TokenRevoker, notifier Notifier, cfg config.RosterConfig, logger logger.Logger) *Service {
	return &Service{
		drivers:  drivers,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateForUser adds a driver row for a freshly registered user. Runs inside
// the registration transaction, so a failed insert rolls the user back too.
func (s *Service) CreateForUser(ctx context.Context, userID uuid.UUID, name string) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "create_driver")

	driver := &models.Driver{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		MonthlyTarget: s.cfg.MonthlyTarget,
		IsOnline:      s.cfg.OnlineOnRegister,
		IsAvailable:   true,
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.logger.Info(ctx, "driver registered", "serial_number", driver.SerialNumber)
	s.notify(ctx, models.ChangeCreated)

	return driver, nil
}

// Get returns one driver. Drivers may read themselves, admins anyone.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "get_driver")

	driver, err := s.drivers.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() && driver.UserID != user.ID {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	return driver, nil
}

// Me returns the driver row of the calling user.
func (s *Service) Me(ctx context.Context) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "get_own_driver")

	user := models.UserFromContext(ctx)
	if user.IsAnonymous() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	driver, err := s.drivers.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return driver, nil
}

// List returns the whole roster ordered by serial number. Admin only.
func (s *Service) List(ctx context.Context) ([]models.Driver, error) {
	ctx = wrap.WithAction(ctx, "list_drivers")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return drivers, nil
}

// SetOnline flips a driver's online flag. A driver may flip their own, an
// admin anyone's.
func (s *Service) SetOnline(ctx context.Context, id uuid.UUID, online bool) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "set_driver_online")

	driver, err := s.drivers.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() && driver.UserID != user.ID {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	if err := s.drivers.SetOnline(ctx, id, online); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	driver.IsOnline = online

	s.updateOnlineGauge(ctx)
	s.logger.Info(ctx, "driver online flag changed", "driver_id", id.String(), "online", online)
	s.notify(ctx, models.ChangeUpdated)

	return driver, nil
}

// SetAvailability flips a driver's availability. Admin only; it marks
// vehicles out of service regardless of the driver being online.
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "set_driver_availability")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	if err := s.drivers.SetAvailability(ctx, id, available); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	driver, err := s.drivers.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.logger.Info(ctx, "driver availability changed", "driver_id", id.String(), "available", available)
	s.notify(ctx, models.ChangeUpdated)

	return driver, nil
}

// SetMonthlyTarget changes a driver's monthly trip goal. Admin only.
func (s *Service) SetMonthlyTarget(ctx context.Context, id uuid.UUID, target int) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "set_driver_monthly_target")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return nil, wrap.Error(ctx, types.ErrUnauthorized)
	}

	if err := s.drivers.SetMonthlyTarget(ctx, id, target); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	driver, err := s.drivers.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.notify(ctx, models.ChangeUpdated)

	return driver, nil
}

// ResetMonth zeroes every driver's monthly trip counter. Admin runs this at
// the start of a new month; targets are left as they are.
func (s *Service) ResetMonth(ctx context.Context) (int, error) {
	ctx = wrap.WithAction(ctx, "reset_month")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return 0, wrap.Error(ctx, types.ErrUnauthorized)
	}

	count, err := s.drivers.ResetMonthlyTrips(ctx)
	if err != nil {
		return 0, wrap.Error(ctx, err)
	}

	s.logger.Info(ctx, "monthly counters reset", "drivers", count)
	s.notify(ctx, models.ChangeUpdated)

	return count, nil
}

// Remove takes a driver off the roster and revokes their sessions. Admin
// only. The serial number is not reused.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "remove_driver")

	user := models.UserFromContext(ctx)
	if !user.IsAdmin() {
		return wrap.Error(ctx, types.ErrUnauthorized)
	}

	driver, err := s.drivers.Get(ctx, id)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	if err := s.drivers.Delete(ctx, id); err != nil {
		return wrap.Error(ctx, err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, driver.UserID); err != nil {
		s.logger.Warn(ctx, "failed to revoke sessions of removed driver", "error", err)
	}

	s.logger.Info(ctx, "driver removed", "driver_id", id.String())
	s.notify(ctx, models.ChangeDeleted)

	return nil
}

func (s *Service) notify(ctx context.Context, action string) {
	event := models.ChangeEvent{Kind: types.KindDrivers, Action: action, Timestamp: time.Now()}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn(ctx, "change notification failed", "error", err)
	}
}

// updateOnlineGauge recounts online drivers. Best effort.
func (s *Service) updateOnlineGauge(ctx context.Context) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return
	}

	online := 0
	for _, d := range drivers {
		if d.IsOnline {
			online++
		}
	}
	metrics.DriversOnlineGauge.WithLabelValues("fleet").Set(float64(online))
}
