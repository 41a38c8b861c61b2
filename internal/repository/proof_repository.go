package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	proofDomain "github.com/HanapBahay/service-booking/internal/domain/proof"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// PaymentProofModel is the GORM model for the payment_proofs table.
type PaymentProofModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null"`
	Kind       string    `gorm:"not null;size:20"`
	Reference  string    `gorm:"not null;size:200"`
	Notes      string    `gorm:"size:500"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentProofModel) TableName() string {
	return "payment_proofs"
}

// GormProofRepository is the GORM-based implementation of ProofRepository.
type GormProofRepository struct {
	db *gorm.DB
}

// NewGormProofRepository creates a new GormProofRepository.
func NewGormProofRepository(db *gorm.DB) *GormProofRepository {
	return &GormProofRepository{db: db}
}

// FindByID retrieves a payment proof by its unique identifier.
func (r *GormProofRepository) FindByID(ctx context.Context, id uuid.UUID) (*proofDomain.PaymentProof, error) {
	var model PaymentProofModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("PaymentProof", id.String())
		}
		return nil, fmt.Errorf("failed to find payment proof by ID: %w", err)
	}
	return toDomainProof(&model), nil
}

// FindByBookingID retrieves all payment proofs recorded against a booking.
func (r *GormProofRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*proofDomain.PaymentProof, error) {
	var models []PaymentProofModel
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find payment proofs: %w", err)
	}

	proofs := make([]*proofDomain.PaymentProof, len(models))
	for i, m := range models {
		proofs[i] = toDomainProof(&m)
	}
	return proofs, nil
}

// Save persists a new payment proof. Proofs are immutable once written.
func (r *GormProofRepository) Save(ctx context.Context, p *proofDomain.PaymentProof) error {
	model := &PaymentProofModel{
		ID:         p.ID(),
		BookingID:  p.BookingID(),
		UploadedBy: p.UploadedBy(),
		Kind:       string(p.Kind()),
		Reference:  p.Reference(),
		Notes:      p.Notes(),
		CreatedAt:  p.CreatedAt(),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save payment proof: %w", err)
	}
	return nil
}

func toDomainProof(m *PaymentProofModel) *proofDomain.PaymentProof {
	return proofDomain.Reconstruct(
		m.ID,
		m.BookingID,
		m.UploadedBy,
		proofDomain.ProofKind(m.Kind),
		m.Reference,
		m.Notes,
		m.CreatedAt,
	)
}
