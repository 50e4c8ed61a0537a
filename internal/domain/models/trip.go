package models

import (
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/types"
	"github.com/tanker-union/fleet-system/pkg/uuid"
)

// DateLayout is the calendar-date wire form used for trip and assignment
// dates (ISO 8601, date only).
const DateLayout = "2006-01-02"

// Trip is one driver's assignment to one company on one date.
// CompanyName is a denormalized copy, not a reference.
type Trip struct {
	ID          uuid.UUID        `json:"id"`
	DriverID    uuid.UUID        `json:"driver_id"`
	CompanyName string           `json:"company_name"`
	Date        time.Time        `json:"date"`
	Status      types.TripStatus `json:"status"`
	AssignedAt  time.Time        `json:"assigned_at"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OnDate reports whether the trip is dated the given calendar day.
func (t *Trip) OnDate(day time.Time) bool {
	return t.Date.Format(DateLayout) == day.Format(DateLayout)
}

// CompanyRequest records one company's daily ask. It is written exactly once
// per successful assignment and never mutated.
type CompanyRequest struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	TripsRequested   int       `json:"trips_requested"`
	VehiclesAssigned int       `json:"vehicles_assigned"`
	AssignmentDate   time.Time `json:"assignment_date"`
	CreatedAt        time.Time `json:"created_at"`
}

// AssignmentResult is what a successful assignment produced.
type AssignmentResult struct {
	Company CompanyRequest `json:"company"`
	Trips   []Trip         `json:"trips"`
}
