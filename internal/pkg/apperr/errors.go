package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and retry decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidTransition
	KindStorageUnavailable
	KindNoRoute
)

// Error carries a kind alongside the underlying cause so handlers can map
// failures to HTTP statuses without string matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches by kind and message so the named sentinels below keep working
// with errors.Is after wrapping with %w.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a copy of the given sentinel.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

// Validation builds a request-specific validation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Named sentinels for the engine's contract failures.
var (
	ErrDriverNotEligible  = New(KindValidation, "only employees can be assigned vehicles")
	ErrVehicleUnavailable = New(KindConflict, "vehicle is not available for assignment")
	ErrAlreadyAssigned    = New(KindConflict, "vehicle is already assigned to another driver")
	ErrDriverBusy         = New(KindConflict, "driver already has an ongoing trip")
	ErrVehicleBusy        = New(KindConflict, "vehicle is already in use")
	ErrInvalidOdometer    = New(KindValidation, "end odometer must not be less than start odometer")
	ErrInvalidTransition  = New(KindInvalidTransition, "status transition not allowed")

	ErrUserNotFound        = New(KindNotFound, "user not found")
	ErrVehicleNotFound     = New(KindNotFound, "vehicle not found")
	ErrTripNotFound        = New(KindNotFound, "trip not found")
	ErrTripNotOngoing      = New(KindConflict, "trip is not ongoing")
	ErrMaintenanceNotFound = New(KindNotFound, "maintenance record not found")
	ErrFuelNotFound        = New(KindNotFound, "fuel record not found")
	ErrLocationNotFound    = New(KindNotFound, "unknown location")

	ErrNoRouteFound       = New(KindNoRoute, "no route found")
	ErrStorageUnavailable = New(KindStorageUnavailable, "storage unavailable")
)

// KindOf extracts the kind from an error chain, KindUnknown when absent.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
