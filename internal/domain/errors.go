package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// The specific not-found errors wrap ErrNotFound, so errors.Is(err, ErrNotFound)
// holds for all of them while handlers can still tell them apart.
var (
	ErrClientNotFound       = fmt.Errorf("client %w", ErrNotFound)
	ErrTripNotFound         = fmt.Errorf("trip %w", ErrNotFound)
	ErrRegistrationNotFound = fmt.Errorf("registration %w", ErrNotFound)
)

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing first name, blank email).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrCapacityExceeded is returned by the registration engine when the trip
// already holds MaxPeople registrations. Handlers map it to HTTP 400.
var ErrCapacityExceeded = errors.New("trip has reached max capacity")

// ErrAlreadyRegistered is returned when the client already holds a
// registration for the trip. Handlers map it to HTTP 409.
var ErrAlreadyRegistered = errors.New("client is already registered for this trip")

// ErrAlreadyPaid is returned when a payment date is recorded twice for the
// same registration. Handlers map it to HTTP 409.
var ErrAlreadyPaid = errors.New("registration is already paid")

// ErrStoreUnavailable marks a recoverable persistence failure: lost
// connection, statement or lock timeout, failed commit. The operation left no
// partial writes behind and may be retried by the caller.
// Handlers map it to HTTP 500 and pass the wrapped driver message through.
var ErrStoreUnavailable = errors.New("store unavailable")

// IsKnown reports whether err carries one of the sentinels above.
// Anything else escaping a repo call is treated as a store failure.
func IsKnown(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrValidation,
		ErrCapacityExceeded,
		ErrAlreadyRegistered,
		ErrAlreadyPaid,
		ErrStoreUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
