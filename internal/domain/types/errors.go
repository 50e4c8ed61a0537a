package types

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDriverNotFound  = errors.New("driver not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrCompanyNotFound = errors.New("company not found")
	ErrNotFound        = errors.New("requested item not found")

	// ErrInvalidTransition is returned when a trip is not in the state the
	// requested transition starts from. A retried accept lands here instead
	// of incrementing the driver counter twice.
	ErrInvalidTransition = errors.New("trip is not in a state that allows this transition")

	ErrUnauthorized    = errors.New("caller is not allowed to perform this action")
	ErrInvalidDecision = errors.New("decision must be ACCEPTED or DECLINED")

	ErrDriverRegistered = errors.New("driver already registered")

	// ErrStoreUnavailable wraps transient data-store failures. The service
	// layer never retries; the caller decides what to do.
	ErrStoreUnavailable = errors.New("data store unavailable")
)

// InsufficientDriversError reports a company request that cannot be satisfied
// by the current eligible roster. The assignment is all-or-nothing, so when
// this error is returned nothing was written.
type InsufficientDriversError struct {
	Needed    int
	Available int
}

func (e *InsufficientDriversError) Error() string {
	return fmt.Sprintf("not enough eligible drivers: need %d, have %d", e.Needed, e.Available)
}

// IsInsufficientDrivers reports whether err is an InsufficientDriversError.
func IsInsufficientDrivers(err error) (*InsufficientDriversError, bool) {
	var e *InsufficientDriversError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
