package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPendingRequest  BookingStatus = "PENDING_REQUEST"
	StatusAwaitingPayment BookingStatus = "AWAITING_PAYMENT"
	StatusPaymentApproval BookingStatus = "PAYMENT_APPROVAL"
	StatusPaymentFailed   BookingStatus = "PAYMENT_FAILED"
	StatusCompleted       BookingStatus = "COMPLETED_BOOKING"
	StatusRejected        BookingStatus = "REJECTED_BOOKING"
	StatusCancelled       BookingStatus = "CANCELLED_BOOKING"
)

// validTransitions defines the state machine for booking status transitions.
// This map is the single source of truth; handlers and screens only render
// derived state and never re-implement transition rules.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPendingRequest:  {StatusAwaitingPayment, StatusRejected, StatusCancelled},
	StatusAwaitingPayment: {StatusPaymentApproval, StatusPaymentFailed},
	StatusPaymentApproval: {StatusCompleted, StatusRejected},
	StatusPaymentFailed:   {},
	StatusCompleted:       {},
	StatusRejected:        {},
	StatusCancelled:       {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
