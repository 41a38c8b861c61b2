package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	StatusPendingRequest,
	StatusAwaitingPayment,
	StatusPaymentApproval,
	StatusPaymentFailed,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

func TestCanTransitionTo_FullTable(t *testing.T) {
	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPendingRequest: {
			StatusAwaitingPayment: true,
			StatusRejected:        true,
			StatusCancelled:       true,
		},
		StatusAwaitingPayment: {
			StatusPaymentApproval: true,
			StatusPaymentFailed:   true,
		},
		StatusPaymentApproval: {
			StatusCompleted: true,
			StatusRejected:  true,
		},
	}

	// Sweep every (from, to) pair so a table edit cannot silently open or
	// close an edge.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[BookingStatus]bool{
		StatusPaymentFailed: true,
		StatusCompleted:     true,
		StatusRejected:      true,
		StatusCancelled:     true,
	}

	for _, s := range allStatuses {
		assert.Equal(t, terminal[s], s.IsTerminal(), "status %s", s)
	}
}

func TestTerminalStatuses_HaveNoOutgoingEdges(t *testing.T) {
	for _, from := range allStatuses {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStatuses {
			assert.False(t, from.CanTransitionTo(to),
				"terminal status %s must not transition to %s", from, to)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := ParseBookingStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseBookingStatus("IN_TRANSIT")
	assert.Error(t, err)

	_, err = ParseBookingStatus("pending_request")
	assert.Error(t, err, "statuses are case-sensitive wire values")
}

func TestBookingStatus_IsValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, BookingStatus("UNKNOWN").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}
