package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HanapBahay/service-booking/internal/pkg/auth"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CheckoutSession is the gateway-issued transaction context attached to a
// booking while payment is in flight. The payment adapter is the only
// writer of this value.
type CheckoutSession struct {
	PaymentID   string    `json:"payment_id"`
	ClientKey   string    `json:"client_key"`
	CheckoutURL string    `json:"checkout_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired returns true if the session can no longer be completed.
func (s CheckoutSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Booking is the aggregate root for the booking lifecycle. Status mutations
// go exclusively through the behavior methods, which enforce the transition
// table in booking_status.go against the booking's persisted status.
type Booking struct {
	id              uuid.UUID
	reference       string
	tenantID        uuid.UUID
	roomID          uuid.UUID
	boardingHouseID uuid.UUID
	ownerID         uuid.UUID
	status          BookingStatus

	checkInDate  time.Time
	checkOutDate time.Time

	totalAmount    decimal.Decimal
	currency       string
	paymentProofID string
	session        *CheckoutSession

	ownerMessage  string
	tenantMessage string

	expiresAt *time.Time
	isDeleted bool
	deletedAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a booking reference in the format "BH-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "BH-" + string(result), nil
}

// NewBooking creates a new Booking aggregate in PENDING_REQUEST.
// The date range is validated here, before the state machine is ever involved.
func NewBooking(
	tenantID, roomID, boardingHouseID, ownerID uuid.UUID,
	checkInDate, checkOutDate time.Time,
	totalAmount decimal.Decimal,
	currency string,
) (*Booking, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant ID is required")
	}
	if roomID == uuid.Nil {
		return nil, domain.NewValidationError("room ID is required")
	}
	if boardingHouseID == uuid.Nil {
		return nil, domain.NewValidationError("boarding house ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if !checkOutDate.After(checkInDate) {
		return nil, domain.NewValidationError("check-out date must be after check-in date")
	}
	if !totalAmount.IsPositive() {
		return nil, domain.NewValidationError("total amount must be positive")
	}
	if currency == "" {
		currency = domain.CurrencyPHP
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		reference:       reference,
		tenantID:        tenantID,
		roomID:          roomID,
		boardingHouseID: boardingHouseID,
		ownerID:         ownerID,
		status:          StatusPendingRequest,
		checkInDate:     checkInDate,
		checkOutDate:    checkOutDate,
		totalAmount:     totalAmount,
		currency:        currency,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	reference string,
	tenantID, roomID, boardingHouseID, ownerID uuid.UUID,
	status BookingStatus,
	checkInDate, checkOutDate time.Time,
	totalAmount decimal.Decimal,
	currency string,
	paymentProofID string,
	session *CheckoutSession,
	ownerMessage, tenantMessage string,
	expiresAt *time.Time,
	isDeleted bool,
	deletedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		reference:       reference,
		tenantID:        tenantID,
		roomID:          roomID,
		boardingHouseID: boardingHouseID,
		ownerID:         ownerID,
		status:          status,
		checkInDate:     checkInDate,
		checkOutDate:    checkOutDate,
		totalAmount:     totalAmount,
		currency:        currency,
		paymentProofID:  paymentProofID,
		session:         session,
		ownerMessage:    ownerMessage,
		tenantMessage:   tenantMessage,
		expiresAt:       expiresAt,
		isDeleted:       isDeleted,
		deletedAt:       deletedAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// TenantID returns the requesting tenant's user ID.
func (b *Booking) TenantID() uuid.UUID { return b.tenantID }

// RoomID returns the booked room's ID.
func (b *Booking) RoomID() uuid.UUID { return b.roomID }

// BoardingHouseID returns the room's boarding house ID.
func (b *Booking) BoardingHouseID() uuid.UUID { return b.boardingHouseID }

// OwnerID returns the boarding house owner's user ID.
func (b *Booking) OwnerID() uuid.UUID { return b.ownerID }

// Status returns the current lifecycle status.
func (b *Booking) Status() BookingStatus { return b.status }

// CheckInDate returns the start of the stay.
func (b *Booking) CheckInDate() time.Time { return b.checkInDate }

// CheckOutDate returns the end of the stay.
func (b *Booking) CheckOutDate() time.Time { return b.checkOutDate }

// TotalAmount returns the amount due for the stay.
func (b *Booking) TotalAmount() decimal.Decimal { return b.totalAmount }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// PaymentProofID returns the gateway payment id or uploaded proof reference,
// or "" when no payment has been submitted.
func (b *Booking) PaymentProofID() string { return b.paymentProofID }

// Session returns the active checkout session, or nil.
func (b *Booking) Session() *CheckoutSession { return b.session }

// OwnerMessage returns the owner's annotation (approval note, rejection
// reason, or verification remarks).
func (b *Booking) OwnerMessage() string { return b.ownerMessage }

// TenantMessage returns the tenant's annotation (cancellation reason).
func (b *Booking) TenantMessage() string { return b.tenantMessage }

// ExpiresAt returns the deadline an external sweeper may expire this booking
// at, or nil when the current state is not time-boxed.
func (b *Booking) ExpiresAt() *time.Time { return b.expiresAt }

// IsDeleted returns true if the booking was administratively removed.
func (b *Booking) IsDeleted() bool { return b.isDeleted }

// DeletedAt returns the administrative removal time, or nil.
func (b *Booking) DeletedAt() *time.Time { return b.deletedAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Approve transitions the booking from PENDING_REQUEST to AWAITING_PAYMENT,
// recording the owner's optional message.
func (b *Booking) Approve(message string) error {
	if !b.status.CanTransitionTo(StatusAwaitingPayment) {
		return domain.NewInvalidStateError(string(b.status), string(StatusAwaitingPayment))
	}
	b.status = StatusAwaitingPayment
	b.ownerMessage = message
	b.updatedAt = time.Now().UTC()
	return nil
}

// Reject transitions the booking from PENDING_REQUEST to REJECTED_BOOKING.
// A non-empty reason is required.
func (b *Booking) Reject(reason string) error {
	if reason == "" {
		return domain.NewValidationError("rejection reason is required")
	}
	if !b.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	b.status = StatusRejected
	b.ownerMessage = reason
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to CANCELLED_BOOKING, recording the reason
// against the cancelling party's message field.
func (b *Booking) Cancel(role auth.Role, reason string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	if role == auth.RoleOwner {
		b.ownerMessage = reason
	} else {
		b.tenantMessage = reason
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// CanAttachCheckoutSession checks the session preconditions without
// recording anything: the booking must be AWAITING_PAYMENT and must not
// already carry an unexpired session. Callers check this before asking the
// gateway for a session so a refused request never creates a provider-side
// orphan.
func (b *Booking) CanAttachCheckoutSession() error {
	if b.status != StatusAwaitingPayment {
		return domain.NewInvalidStateError(string(b.status), string(StatusAwaitingPayment))
	}
	if b.session != nil && !b.session.Expired(time.Now().UTC()) {
		return domain.NewConflictError("an unexpired checkout session already exists for this booking")
	}
	return nil
}

// AttachCheckoutSession records a gateway checkout session. The status does
// not change; the preconditions are those of CanAttachCheckoutSession.
func (b *Booking) AttachCheckoutSession(session CheckoutSession) error {
	if err := b.CanAttachCheckoutSession(); err != nil {
		return err
	}
	b.session = &session
	b.expiresAt = &session.ExpiresAt
	b.updatedAt = time.Now().UTC()
	return nil
}

// AbandonCheckoutSession drops the active session after the tenant backed
// out of the checkout page. The booking stays in AWAITING_PAYMENT so a new
// session can be created and payment retried.
func (b *Booking) AbandonCheckoutSession(paymentID string) error {
	if err := b.matchSession(paymentID); err != nil {
		return err
	}
	if b.status != StatusAwaitingPayment {
		return domain.NewInvalidStateError(string(b.status), string(StatusAwaitingPayment))
	}
	b.session = nil
	b.expiresAt = nil
	b.updatedAt = time.Now().UTC()
	return nil
}

// SubmitPayment transitions the booking from AWAITING_PAYMENT to
// PAYMENT_APPROVAL after the gateway reported success for the given payment.
func (b *Booking) SubmitPayment(paymentID string) error {
	if err := b.matchSession(paymentID); err != nil {
		return err
	}
	if !b.status.CanTransitionTo(StatusPaymentApproval) {
		return domain.NewInvalidStateError(string(b.status), string(StatusPaymentApproval))
	}
	b.status = StatusPaymentApproval
	b.paymentProofID = paymentID
	b.expiresAt = nil
	b.updatedAt = time.Now().UTC()
	return nil
}

// FailPayment transitions the booking from AWAITING_PAYMENT to the terminal
// PAYMENT_FAILED after a definitive gateway failure verdict. A tenant merely
// abandoning the checkout page does not call this; the booking then stays in
// AWAITING_PAYMENT and a new session can be created.
func (b *Booking) FailPayment(paymentID, reason string) error {
	if err := b.matchSession(paymentID); err != nil {
		return err
	}
	if !b.status.CanTransitionTo(StatusPaymentFailed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusPaymentFailed))
	}
	b.status = StatusPaymentFailed
	b.tenantMessage = reason
	b.expiresAt = nil
	b.updatedAt = time.Now().UTC()
	return nil
}

// VerifyPayment resolves the owner's payment review: approve moves the
// booking to COMPLETED_BOOKING, deny to REJECTED_BOOKING. Remarks are
// recorded as the owner's annotation either way.
func (b *Booking) VerifyPayment(approve bool, remarks string) error {
	target := StatusCompleted
	if !approve {
		target = StatusRejected
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	if remarks != "" {
		b.ownerMessage = remarks
	}
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkDeleted soft-deletes the booking for administrative removal. This is
// orthogonal to lifecycle status and does not touch the state machine.
func (b *Booking) MarkDeleted() {
	now := time.Now().UTC()
	b.isDeleted = true
	b.deletedAt = &now
	b.updatedAt = now
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func (b *Booking) matchSession(paymentID string) error {
	if b.session == nil || b.session.PaymentID != paymentID {
		return domain.NewConflictError("payment does not match the booking's checkout session")
	}
	return nil
}
