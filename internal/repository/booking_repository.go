package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	bookingDomain "github.com/HanapBahay/service-booking/internal/domain/booking"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference       string          `gorm:"uniqueIndex;not null;size:20"`
	TenantID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	RoomID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	BoardingHouseID uuid.UUID       `gorm:"type:uuid;index;not null"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Status          string          `gorm:"not null;size:30;index"`
	CheckInDate     time.Time       `gorm:"not null"`
	CheckOutDate    time.Time       `gorm:"not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency        string          `gorm:"not null;size:3;default:'PHP'"`
	PaymentProofID  string          `gorm:"size:100"`
	Session         datatypes.JSON  `gorm:"type:jsonb"`
	OwnerMessage    string          `gorm:"size:500"`
	TenantMessage   string          `gorm:"size:500"`
	ExpiresAt       *time.Time      `gorm:""`
	IsDeleted       bool            `gorm:"not null;default:false;index"`
	DeletedAt       *time.Time      `gorm:""`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// activeStatuses are the non-terminal lifecycle states. A booking in any of
// these still holds its room for availability purposes.
var activeStatuses = []string{
	string(bookingDomain.StatusPendingRequest),
	string(bookingDomain.StatusAwaitingPayment),
	string(bookingDomain.StatusPaymentApproval),
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = false", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByReference retrieves a booking by its human-readable reference.
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("reference = ? AND is_deleted = false", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", reference)
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByTenantID retrieves bookings requested by a tenant with pagination.
func (r *GormBookingRepository) FindByTenantID(ctx context.Context, tenantID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaginated(ctx, "tenant_id = ? AND is_deleted = false", tenantID, page, limit)
}

// FindByOwnerID retrieves bookings against an owner's boarding houses with pagination.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPaginated(ctx, "owner_id = ? AND is_deleted = false", ownerID, page, limit)
}

// CountActiveOverlapping counts non-terminal bookings for the room whose
// stay overlaps the [checkIn, checkOut) range.
func (r *GormBookingRepository) CountActiveOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ? AND is_deleted = false", roomID).
		Where("status IN ?", activeStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// Only update if the stored version matches (current version - 1,
	// since IncrementVersion was called before the write).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"total_amount":     model.TotalAmount,
			"currency":         model.Currency,
			"payment_proof_id": model.PaymentProofID,
			"session":          model.Session,
			"owner_message":    model.OwnerMessage,
			"tenant_message":   model.TenantMessage,
			"expires_at":       model.ExpiresAt,
			"is_deleted":       model.IsDeleted,
			"deleted_at":       model.DeletedAt,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Where("is_deleted = false").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func (r *GormBookingRepository) findPaginated(ctx context.Context, query string, arg interface{}, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(query, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	var sessionJSON datatypes.JSON
	if bk.Session() != nil {
		data, err := json.Marshal(bk.Session())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal checkout session: %w", err)
		}
		sessionJSON = data
	}

	return &BookingModel{
		ID:              bk.ID(),
		Reference:       bk.Reference(),
		TenantID:        bk.TenantID(),
		RoomID:          bk.RoomID(),
		BoardingHouseID: bk.BoardingHouseID(),
		OwnerID:         bk.OwnerID(),
		Status:          string(bk.Status()),
		CheckInDate:     bk.CheckInDate(),
		CheckOutDate:    bk.CheckOutDate(),
		TotalAmount:     bk.TotalAmount(),
		Currency:        bk.Currency(),
		PaymentProofID:  bk.PaymentProofID(),
		Session:         sessionJSON,
		OwnerMessage:    bk.OwnerMessage(),
		TenantMessage:   bk.TenantMessage(),
		ExpiresAt:       bk.ExpiresAt(),
		IsDeleted:       bk.IsDeleted(),
		DeletedAt:       bk.DeletedAt(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var session *bookingDomain.CheckoutSession
	if len(m.Session) > 0 {
		var s bookingDomain.CheckoutSession
		if err := json.Unmarshal(m.Session, &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		session = &s
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Reference,
		m.TenantID,
		m.RoomID,
		m.BoardingHouseID,
		m.OwnerID,
		status,
		m.CheckInDate,
		m.CheckOutDate,
		m.TotalAmount,
		m.Currency,
		m.PaymentProofID,
		session,
		m.OwnerMessage,
		m.TenantMessage,
		m.ExpiresAt,
		m.IsDeleted,
		m.DeletedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
