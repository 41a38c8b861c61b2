package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/HanapBahay/service-booking/internal/domain/booking"
	proofDomain "github.com/HanapBahay/service-booking/internal/domain/proof"
	"github.com/HanapBahay/service-booking/internal/pkg/auth"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// RecordProofRequest holds a tenant-uploaded payment proof.
type RecordProofRequest struct {
	Reference string `json:"reference" binding:"required"`
	Notes     string `json:"notes"`
}

// ProofDTO is the response representation of a payment proof.
type ProofDTO struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	Kind       string    `json:"kind"`
	Reference  string    `json:"reference"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProofService records and serves payment proofs attached to bookings.
type ProofService struct {
	repo        proofDomain.ProofRepository
	bookingRepo bookingDomain.BookingRepository
	logger      *zap.Logger
}

// NewProofService creates a new ProofService.
func NewProofService(repo proofDomain.ProofRepository, bookingRepo bookingDomain.BookingRepository, logger *zap.Logger) *ProofService {
	return &ProofService{repo: repo, bookingRepo: bookingRepo, logger: logger}
}

// RecordUpload records a tenant-uploaded receipt against their own booking.
func (s *ProofService) RecordUpload(ctx context.Context, bookingID, tenantID uuid.UUID, req RecordProofRequest) (*ProofDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.TenantID() != tenantID {
		return nil, domain.NewForbiddenError("you cannot attach a proof to this booking")
	}

	p, err := proofDomain.NewPaymentProof(bookingID, tenantID, proofDomain.ProofKindUpload, req.Reference, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	result := toProofDTO(p)
	return &result, nil
}

// RecordGatewayProof records the gateway payment id issued for a booking.
// Called from the payment reconciliation path, not from a user request.
func (s *ProofService) RecordGatewayProof(ctx context.Context, bookingID, tenantID uuid.UUID, paymentID string) error {
	p, err := proofDomain.NewPaymentProof(bookingID, tenantID, proofDomain.ProofKindGateway, paymentID, "")
	if err != nil {
		return err
	}

	return s.repo.Save(ctx, p)
}

// ListProofs returns the proofs recorded against a booking, restricted to
// the booking's participants.
func (s *ProofService) ListProofs(ctx context.Context, bookingID uuid.UUID, role auth.Role, actorID uuid.UUID) ([]ProofDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch role {
	case auth.RoleAdmin:
	case auth.RoleTenant:
		if bk.TenantID() != actorID {
			return nil, domain.NewForbiddenError("you cannot view proofs for this booking")
		}
	case auth.RoleOwner:
		if bk.OwnerID() != actorID {
			return nil, domain.NewForbiddenError("you cannot view proofs for this booking")
		}
	default:
		return nil, domain.NewForbiddenError("you cannot view proofs for this booking")
	}

	proofs, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProofDTO, len(proofs))
	for i, p := range proofs {
		dtos[i] = toProofDTO(p)
	}
	return dtos, nil
}

func toProofDTO(p *proofDomain.PaymentProof) ProofDTO {
	return ProofDTO{
		ID:         p.ID(),
		BookingID:  p.BookingID(),
		UploadedBy: p.UploadedBy(),
		Kind:       string(p.Kind()),
		Reference:  p.Reference(),
		Notes:      p.Notes(),
		CreatedAt:  p.CreatedAt(),
	}
}
