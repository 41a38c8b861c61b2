package payment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

func TestReconcileRedirect(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name string
		url  string
		want Outcome
	}{
		{"custom scheme success", "app://payments/success?booking_id=" + bookingID.String(), OutcomeSuccess},
		{"custom scheme cancel", "app://payments/cancel?booking_id=" + bookingID.String(), OutcomeCancel},
		{"https success", "https://hanapbahay.ph/payments/success?booking_id=" + bookingID.String(), OutcomeSuccess},
		{"host-only scheme", "app://success?booking_id=" + bookingID.String(), OutcomeSuccess},
		{"trailing slash", "app://payments/cancel/?booking_id=" + bookingID.String(), OutcomeCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ReconcileRedirect(tt.url)
			require.NoError(t, err)
			assert.Equal(t, bookingID, req.BookingID)
			assert.Equal(t, tt.want, req.Outcome)
		})
	}
}

func TestReconcileRedirect_Invalid(t *testing.T) {
	bookingID := uuid.New().String()

	tests := []struct {
		name string
		url  string
	}{
		{"missing booking id", "app://payments/success"},
		{"garbage booking id", "app://payments/success?booking_id=not-a-uuid"},
		{"unknown outcome", "app://payments/pending?booking_id=" + bookingID},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReconcileRedirect(tt.url)
			require.Error(t, err)
			assert.True(t, domain.IsCode(err, domain.CodeValidation))
		})
	}
}
