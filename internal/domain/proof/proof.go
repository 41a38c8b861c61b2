package proof

import (
	"time"

	"github.com/google/uuid"

	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// ProofKind distinguishes where a payment proof came from.
type ProofKind string

const (
	// ProofKindGateway is a payment id issued by the checkout gateway.
	ProofKindGateway ProofKind = "gateway"
	// ProofKindUpload is a tenant-uploaded receipt or transfer slip.
	ProofKindUpload ProofKind = "upload"
)

// IsValid returns true if the proof kind is recognized.
func (k ProofKind) IsValid() bool {
	return k == ProofKindGateway || k == ProofKindUpload
}

// PaymentProof is an immutable record a booking's paymentProofId points at.
type PaymentProof struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	uploadedBy uuid.UUID
	kind       ProofKind
	reference  string
	notes      string
	createdAt  time.Time
}

// NewPaymentProof creates a payment proof record for a booking.
func NewPaymentProof(bookingID, uploadedBy uuid.UUID, kind ProofKind, reference, notes string) (*PaymentProof, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("invalid proof kind")
	}
	if reference == "" {
		return nil, domain.NewValidationError("proof reference is required")
	}

	return &PaymentProof{
		id:         uuid.New(),
		bookingID:  bookingID,
		uploadedBy: uploadedBy,
		kind:       kind,
		reference:  reference,
		notes:      notes,
		createdAt:  time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a PaymentProof from persistence.
func Reconstruct(id, bookingID, uploadedBy uuid.UUID, kind ProofKind, reference, notes string, createdAt time.Time) *PaymentProof {
	return &PaymentProof{
		id:         id,
		bookingID:  bookingID,
		uploadedBy: uploadedBy,
		kind:       kind,
		reference:  reference,
		notes:      notes,
		createdAt:  createdAt,
	}
}

// --- Getters ---

func (p *PaymentProof) ID() uuid.UUID         { return p.id }
func (p *PaymentProof) BookingID() uuid.UUID  { return p.bookingID }
func (p *PaymentProof) UploadedBy() uuid.UUID { return p.uploadedBy }
func (p *PaymentProof) Kind() ProofKind       { return p.kind }
func (p *PaymentProof) Reference() string     { return p.reference }
func (p *PaymentProof) Notes() string         { return p.notes }
func (p *PaymentProof) CreatedAt() time.Time  { return p.createdAt }
