package proof

import (
	"context"

	"github.com/google/uuid"
)

// ProofRepository defines the persistence contract for payment proofs.
type ProofRepository interface {
	// FindByID retrieves a proof by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentProof, error)

	// FindByBookingID retrieves all proofs recorded for a booking.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*PaymentProof, error)

	// Save persists a new proof record.
	Save(ctx context.Context, proof *PaymentProof) error
}
