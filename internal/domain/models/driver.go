package models

import (
	"time"

	"github.com/tanker-union/fleet-system/pkg/uuid"
)

// Driver is one registered member of the union roster.
//
// SerialNumber is assigned once at registration and never changes; it is the
// fairness key the assignment rotation walks over. MonthlyTrips only grows
// within a month and is zeroed by the explicit reset-month operation.
type Driver struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	SerialNumber  int       `json:"serial_number"`
	MonthlyTrips  int       `json:"monthly_trips"`
	MonthlyTarget int       `json:"monthly_target"`
	IsOnline      bool      `json:"is_online"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Eligible reports whether the driver can receive an assignment right now.
// Online is the driver-side toggle, available the admin-side gate; both must
// hold.
func (d *Driver) Eligible() bool {
	return d.IsOnline && d.IsAvailable
}

// BelowTarget reports whether the driver is behind their monthly quota.
func (d *Driver) BelowTarget() bool {
	return d.MonthlyTrips < d.MonthlyTarget
}
