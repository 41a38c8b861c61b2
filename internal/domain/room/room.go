package room

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// RoomStatus represents the inventory state of a room.
type RoomStatus string

const (
	RoomStatusActive   RoomStatus = "active"
	RoomStatusArchived RoomStatus = "archived"
)

// Room is the aggregate root for a boarding-house room. Bookings resolve
// their owning party and price through it: roomID -> boardingHouseID ->
// ownerID, monthlyRate -> totalAmount.
type Room struct {
	id              uuid.UUID
	boardingHouseID uuid.UUID
	ownerID         uuid.UUID
	name            string
	description     string
	monthlyRate     decimal.Decimal
	capacity        int
	status          RoomStatus
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewRoom creates a new active room with validated fields.
func NewRoom(
	boardingHouseID, ownerID uuid.UUID,
	name, description string,
	monthlyRate decimal.Decimal,
	capacity int,
) (*Room, error) {
	if boardingHouseID == uuid.Nil {
		return nil, domain.NewValidationError("boarding house ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("room name is required")
	}
	if !monthlyRate.IsPositive() {
		return nil, domain.NewValidationError("monthly rate must be positive")
	}
	if capacity < 1 {
		return nil, domain.NewValidationError("capacity must be at least 1")
	}

	now := time.Now().UTC()
	return &Room{
		id:              uuid.New(),
		boardingHouseID: boardingHouseID,
		ownerID:         ownerID,
		name:            name,
		description:     description,
		monthlyRate:     monthlyRate,
		capacity:        capacity,
		status:          RoomStatusActive,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Room from persistence data (no validation).
func Reconstruct(
	id, boardingHouseID, ownerID uuid.UUID,
	name, description string,
	monthlyRate decimal.Decimal,
	capacity int,
	status RoomStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:              id,
		boardingHouseID: boardingHouseID,
		ownerID:         ownerID,
		name:            name,
		description:     description,
		monthlyRate:     monthlyRate,
		capacity:        capacity,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (r *Room) ID() uuid.UUID                { return r.id }
func (r *Room) BoardingHouseID() uuid.UUID   { return r.boardingHouseID }
func (r *Room) OwnerID() uuid.UUID           { return r.ownerID }
func (r *Room) Name() string                 { return r.name }
func (r *Room) Description() string          { return r.description }
func (r *Room) MonthlyRate() decimal.Decimal { return r.monthlyRate }
func (r *Room) Capacity() int                { return r.capacity }
func (r *Room) Status() RoomStatus           { return r.status }
func (r *Room) Version() int64               { return r.version }
func (r *Room) CreatedAt() time.Time         { return r.createdAt }
func (r *Room) UpdatedAt() time.Time         { return r.updatedAt }

// IsOwnedBy returns true if the room belongs to the given owner.
func (r *Room) IsOwnedBy(ownerID uuid.UUID) bool {
	return r.ownerID == ownerID
}

// IsBookable returns true if the room can accept new booking requests.
func (r *Room) IsBookable() bool {
	return r.status == RoomStatusActive
}

// Update replaces the room's editable fields.
func (r *Room) Update(name, description string, monthlyRate decimal.Decimal, capacity int) {
	if name != "" {
		r.name = name
	}
	r.description = description
	if monthlyRate.IsPositive() {
		r.monthlyRate = monthlyRate
	}
	if capacity >= 1 {
		r.capacity = capacity
	}
	r.version++
	r.updatedAt = time.Now().UTC()
}

// Archive removes the room from bookable inventory without deleting it.
func (r *Room) Archive() {
	r.status = RoomStatusArchived
	r.version++
	r.updatedAt = time.Now().UTC()
}

// PriceStay computes the amount due for a stay: the monthly rate prorated
// by nights over a 30-night month, rounded to centavos.
func (r *Room) PriceStay(checkIn, checkOut time.Time) (decimal.Decimal, error) {
	if !checkOut.After(checkIn) {
		return decimal.Zero, domain.NewValidationError("check-out date must be after check-in date")
	}
	nights := decimal.NewFromInt(int64(checkOut.Sub(checkIn).Hours() / 24))
	if nights.IsZero() {
		nights = decimal.NewFromInt(1)
	}
	rate := r.monthlyRate.Div(decimal.NewFromInt(30))
	return rate.Mul(nights).Round(2), nil
}
