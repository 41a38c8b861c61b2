//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/HanapBahay/service-booking/internal/domain/booking"
	bookingEvents "github.com/HanapBahay/service-booking/internal/events"
	"github.com/HanapBahay/service-booking/internal/repository"
)

// TestPaymentPaid_SubmitsBookingForReview verifies that when a payment.paid
// verdict is published to payment.events, the booking service picks it up,
// moves the booking to PAYMENT_APPROVAL, and emits a payment_submitted
// lifecycle event.
func TestPaymentPaid_SubmitsBookingForReview(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	bookingID := uuid.New()
	tenantID := uuid.New()
	ownerID := uuid.New()
	paymentID := "cs_int_" + uuid.New().String()[:8]
	seedBookingAwaitingPayment(t, infra.DB, bookingID, tenantID, ownerID, paymentID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	evt := bookingEvents.PaymentResultEvent{
		BookingID: bookingID,
		PaymentID: paymentID,
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingDomain.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentPaid, bookingID.String(), evt)

	model := waitForBookingStatus(t, infra.DB, bookingID,
		string(bookingDomain.StatusPaymentApproval), 15*time.Second)
	assert.Equal(t, paymentID, model.PaymentProofID)
	assert.Nil(t, model.ExpiresAt, "payment deadline cleared on submission")
	assert.Equal(t, int64(4), model.Version)

	var proofs []repository.PaymentProofModel
	require.NoError(t, infra.DB.Where("booking_id = ?", bookingID).Find(&proofs).Error)
	require.Len(t, proofs, 1, "gateway payment id recorded as a proof")
	assert.Equal(t, "gateway", proofs[0].Kind)
	assert.Equal(t, paymentID, proofs[0].Reference)

	ce := consumeOneEvent(t, infra.KafkaBrokers, bookingDomain.TopicBookingEvents,
		bookingDomain.BookingPaymentSubmitted, 15*time.Second)
	assert.Equal(t, bookingID.String(), ce.Subject, "lifecycle events keyed per booking")

	var lifecycle bookingDomain.LifecycleEvent
	require.NoError(t, ce.ParseData(&lifecycle))
	assert.Equal(t, bookingID, lifecycle.BookingID)
	assert.Equal(t, tenantID, lifecycle.TenantID)
	assert.Equal(t, ownerID, lifecycle.OwnerID)
	assert.Equal(t, bookingDomain.StatusAwaitingPayment, lifecycle.OldStatus)
	assert.Equal(t, bookingDomain.StatusPaymentApproval, lifecycle.NewStatus)
}

// TestPaymentFailed_TerminatesBooking verifies a payment.failed verdict lands
// the booking in the terminal PAYMENT_FAILED state.
func TestPaymentFailed_TerminatesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	bookingID := uuid.New()
	paymentID := "cs_int_" + uuid.New().String()[:8]
	seedBookingAwaitingPayment(t, infra.DB, bookingID, uuid.New(), uuid.New(), paymentID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second)

	evt := bookingEvents.PaymentResultEvent{
		BookingID: bookingID,
		PaymentID: paymentID,
		Reason:    "card declined",
	}
	publishTestEvent(t, infra.KafkaBrokers, bookingDomain.TopicPaymentEvents,
		"service-payment", bookingEvents.PaymentFailed, bookingID.String(), evt)

	model := waitForBookingStatus(t, infra.DB, bookingID,
		string(bookingDomain.StatusPaymentFailed), 15*time.Second)
	assert.Equal(t, "card declined", model.TenantMessage)
}
