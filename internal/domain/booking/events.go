package booking

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics this service produces to and consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Lifecycle event types published on TopicBookingEvents. The notification
// dispatcher consumes these and targets the right participant; this service
// never renders or delivers notifications itself.
const (
	BookingRequested        = "booking.requested"
	BookingApproved         = "booking.approved"
	BookingRejected         = "booking.rejected"
	BookingCancelled        = "booking.cancelled"
	BookingPaymentSubmitted = "booking.payment_submitted"
	BookingPaymentFailed    = "booking.payment_failed"
	BookingCompleted        = "booking.completed"
)

// LifecycleEvent is emitted exactly once per successful transition. It
// carries both participant ids so the dispatcher can pick recipients
// without a lookup.
type LifecycleEvent struct {
	BookingID  uuid.UUID     `json:"booking_id"`
	Reference  string        `json:"reference"`
	OldStatus  BookingStatus `json:"old_status"`
	NewStatus  BookingStatus `json:"new_status"`
	TenantID   uuid.UUID     `json:"tenant_id"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	Message    string        `json:"message,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
