package dto

import (
	"time"

	"github.com/tanker-union/fleet-system/internal/domain/models"
	"github.com/tanker-union/fleet-system/pkg/validator"
)

type AssignTripsRequest struct {
	CompanyName    string `json:"company_name"`
	TripsRequested int    `json:"trips_requested"`
	VehiclesNeeded int    `json:"vehicles_needed"`
	Date           string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// AssignmentDate parses the requested date, falling back to today.
func (r *AssignTripsRequest) AssignmentDate() (time.Time, error) {
	if r.Date == "" {
		return time.Now(), nil
	}
	return time.Parse(models.DateLayout, r.Date)
}

func ValidateAssignTrips(v *validator.Validator, req *AssignTripsRequest) {
	v.Check(req.CompanyName != "", "company_name", "must be provided")
	v.Check(len(req.CompanyName) <= 500, "company_name", "must not be more than 500 bytes long")

	v.Check(req.TripsRequested > 0, "trips_requested", "must be a positive integer")
	v.Check(req.TripsRequested <= 1000, "trips_requested", "must not be more than 1000")

	v.Check(req.VehiclesNeeded > 0, "vehicles_needed", "must be a positive integer")
	v.Check(req.VehiclesNeeded <= 1000, "vehicles_needed", "must not be more than 1000")

	if req.Date != "" {
		_, err := time.Parse(models.DateLayout, req.Date)
		v.Check(err == nil, "date", "must be a valid date in YYYY-MM-DD format")
	}
}
