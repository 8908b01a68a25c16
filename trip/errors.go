package trip

import (
	"errors"
	"fmt"
)

var (
	// ErrTripNotFound indicates the trip does not exist for the tenant
	ErrTripNotFound = errors.New("trip not found")
	// ErrJourneyNotFound indicates no journey record exists for the trip
	ErrJourneyNotFound = errors.New("journey not found")
	// ErrInvalidJourneyStatus indicates an unknown journey status was requested
	ErrInvalidJourneyStatus = errors.New("invalid journey status")
	// ErrTerminalJourney indicates a mutation was attempted after the journey completed or was cancelled
	ErrTerminalJourney = errors.New("journey is terminal")
	// ErrStopAlreadyVisited indicates the requested stop was already visited or passed
	ErrStopAlreadyVisited = errors.New("stop already visited")
	// ErrStopIndexRequired indicates an at_stop transition without a stop index
	ErrStopIndexRequired = errors.New("stop index is required")
	// ErrStopIndexOutOfRange indicates a stop index beyond the route's stop sequence
	ErrStopIndexOutOfRange = errors.New("stop index out of range")
	// ErrJourneyRewind indicates a return to an origin status after the bus reached a stop
	ErrJourneyRewind = errors.New("journey cannot return to origin status")
	// ErrMissingCancelReason indicates a cancellation without a reason
	ErrMissingCancelReason = errors.New("cancellation reason is required")
	// ErrBusy indicates the per-trip lock could not be acquired within the timeout
	ErrBusy = errors.New("trip is busy")
)

// IllegalTransitionError describes a lifecycle transition outside the allowed set
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// NewIllegalTransitionError creates an error for the rejected lifecycle transition
func NewIllegalTransitionError(from Status, to Status) error {
	return IllegalTransitionError{From: from, To: to}
}

// IsIllegalTransition returns true if the error represents a rejected lifecycle transition
func IsIllegalTransition(err error) bool {
	var ite IllegalTransitionError
	return errors.As(err, &ite)
}
