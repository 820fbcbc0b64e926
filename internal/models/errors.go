package models

import "errors"

// Domain errors returned by the services. Callers match them with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrFlightNotFound         = errors.New("flight not found")
	ErrSeatNotFound           = errors.New("seat not found")
	ErrSeatAlreadyBooked      = errors.New("seat already booked")
	ErrSeatNotBooked          = errors.New("seat not booked")
	ErrSeatUnavailable        = errors.New("seat unavailable")
	ErrNoSeatsLeft            = errors.New("no seats left")
	ErrDuplicateReservationID = errors.New("duplicate reservation id")
	ErrPaymentInvalid         = errors.New("payment invalid")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrDuplicateUser          = errors.New("duplicate user")
	ErrCrewHoursExceeded      = errors.New("crew flight hours exceeded")
	ErrAlreadyCheckedIn       = errors.New("already checked in")
	ErrNotOwner               = errors.New("reservation belongs to another passenger")
)
