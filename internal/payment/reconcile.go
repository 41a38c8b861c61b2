package payment

import (
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// Outcome is the gateway's verdict carried by a redirect.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeCancel  Outcome = "cancel"
)

// TransitionRequest is what reconciliation produces: a request for the
// booking state machine, never a direct status write.
type TransitionRequest struct {
	BookingID uuid.UUID
	Outcome   Outcome
}

// ReconcileRedirect parses a gateway redirect URL (custom scheme, e.g.
// app://payments/success?booking_id=...) into a transition request. The
// outcome is distinguished by the final path segment.
func ReconcileRedirect(rawURL string) (TransitionRequest, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return TransitionRequest{}, domain.NewValidationError("malformed redirect URL")
	}

	bookingID, err := uuid.Parse(u.Query().Get("booking_id"))
	if err != nil {
		return TransitionRequest{}, domain.NewValidationError("redirect URL is missing a booking id")
	}

	// For custom schemes like app://payments/success the first segment
	// lands in the host portion, so inspect host and path together.
	target := strings.Trim(u.Host+u.Path, "/")
	segments := strings.Split(target, "/")
	last := segments[len(segments)-1]

	switch last {
	case "success":
		return TransitionRequest{BookingID: bookingID, Outcome: OutcomeSuccess}, nil
	case "cancel":
		return TransitionRequest{BookingID: bookingID, Outcome: OutcomeCancel}, nil
	default:
		return TransitionRequest{}, domain.NewValidationError("unrecognized redirect outcome")
	}
}
