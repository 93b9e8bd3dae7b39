package home

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates platform access has not been granted
	ErrUnauthorized = errors.New("home platform access not authorized")

	// ErrNotFound indicates a home, accessory, service or characteristic is absent
	ErrNotFound = errors.New("not found")

	// ErrOperationFailed indicates the platform reported a failure
	ErrOperationFailed = errors.New("operation failed")

	// ErrCancelled indicates the user aborted the commissioning flow
	ErrCancelled = errors.New("commissioning cancelled")
)

var (
	ErrInvalidName      = fmt.Errorf("%w: home name must not be empty", ErrOperationFailed)
	ErrDuplicateName    = fmt.Errorf("%w: a home with that name already exists", ErrOperationFailed)
	ErrInvalidSetupCode = fmt.Errorf("%w: invalid setup code", ErrOperationFailed)
	ErrNoNewAccessories = fmt.Errorf("%w: no new accessories found", ErrOperationFailed)
)

var (
	// ErrToggleBusy is returned when a toggle is requested while a write is pending
	ErrToggleBusy = errors.New("toggle already in progress")

	// ErrStateUnknown is returned when toggling a light whose state was never read
	ErrStateUnknown = errors.New("power state not yet known")
)

// Kind classifies an error for display.
type Kind string

const (
	KindUnauthorized    Kind = "unauthorized"
	KindNotFound        Kind = "not_found"
	KindOperationFailed Kind = "operation_failed"
	KindCancelled       Kind = "cancelled"
)

// KindOf classifies err. Unrecognised platform errors are operation failures.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindOperationFailed
	}
}
