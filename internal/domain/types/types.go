package types

// TripStatus is the closed set of states a trip moves through.
// A trip starts as PENDING and is moved by an explicit driver or
// admin action, never implicitly.
type TripStatus string

const (
	TripPending   TripStatus = "PENDING"
	TripAccepted  TripStatus = "ACCEPTED"
	TripDeclined  TripStatus = "DECLINED"
	TripCompleted TripStatus = "COMPLETED"
)

func (s TripStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the known trip states.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPending, TripAccepted, TripDeclined, TripCompleted:
		return true
	default:
		return false
	}
}

// TripDecision is the subset of statuses a driver may answer with.
type TripDecision string

const (
	DecisionAccepted TripDecision = "ACCEPTED"
	DecisionDeclined TripDecision = "DECLINED"
)

func (d TripDecision) Valid() bool {
	return d == DecisionAccepted || d == DecisionDeclined
}

// Status returns the trip status a decision resolves to.
func (d TripDecision) Status() TripStatus {
	return TripStatus(d)
}

// UserRole defines who may perform which operations.
type UserRole string

const (
	RoleDriver UserRole = "DRIVER"
	RoleAdmin  UserRole = "ADMIN"
)

func (r UserRole) String() string {
	return string(r)
}

// Record kinds published on the change-notification exchange.
// Consumers only use these to know which collection to re-read.
const (
	KindDrivers   = "drivers"
	KindTrips     = "trips"
	KindCompanies = "companies"
)
