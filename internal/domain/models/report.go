package models

/* ======================= reporting ======================= */

// FleetOverview is the live dashboard snapshot.
type FleetOverview struct {
	TotalDrivers     int     `json:"total_drivers"`
	OnlineDrivers    int     `json:"online_drivers"`
	TripsToday       int     `json:"trips_today"`
	AcceptanceRate   float64 `json:"acceptance_rate"` // accepted / total today, 0 when no trips
	BelowTargetCount int     `json:"below_target_count"`
}

// DriverPerformance is one roster line in the monthly report.
type DriverPerformance struct {
	Name           string  `json:"name"`
	SerialNumber   int     `json:"serial_number"`
	CompletedTrips int     `json:"completed_trips"`
	Target         int     `json:"target"`
	Percentage     float64 `json:"percentage"`
}

// DailyReport aggregates one calendar day.
type DailyReport struct {
	Date           string           `json:"date"`
	TotalTrips     int              `json:"total_trips"`
	AcceptedTrips  int              `json:"accepted_trips"`
	AcceptanceRate float64          `json:"acceptance_rate"`
	Companies      []CompanyRequest `json:"companies"`
	Drivers        []Driver         `json:"drivers"` // drivers with at least one trip that day
}

// MonthlyReport aggregates the running month.
type MonthlyReport struct {
	Month                 string              `json:"month"`
	TotalDrivers          int                 `json:"total_drivers"`
	TotalTrips            int                 `json:"total_trips"` // accepted + completed
	AverageTripsPerDriver float64             `json:"average_trips_per_driver"`
	BelowTargetCount      int                 `json:"below_target_count"`
	BelowTarget           []Driver            `json:"below_target"`
	DriverPerformance     []DriverPerformance `json:"driver_performance"`
}
