package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	roomDomain "github.com/HanapBahay/service-booking/internal/domain/room"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BoardingHouseID uuid.UUID       `gorm:"type:uuid;index;not null"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name            string          `gorm:"not null;size:100"`
	Description     string          `gorm:"size:1000"`
	MonthlyRate     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Capacity        int             `gorm:"not null;default:1"`
	Status          string          `gorm:"not null;size:20;index"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model), nil
}

// FindByOwnerID retrieves all rooms belonging to an owner.
func (r *GormRoomRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find rooms by owner: %w", err)
	}

	rooms := make([]*roomDomain.Room, len(models))
	for i, m := range models {
		rooms[i] = toDomainRoom(&m)
	}
	return rooms, nil
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	if err := r.db.WithContext(ctx).Create(toRoomModel(rm)).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Update persists changes to an existing room with optimistic locking.
func (r *GormRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	model := toRoomModel(rm)

	expectedVersion := rm.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":         model.Name,
			"description":  model.Description,
			"monthly_rate": model.MonthlyRate,
			"capacity":     model.Capacity,
			"status":       model.Status,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("room was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toRoomModel(rm *roomDomain.Room) *RoomModel {
	return &RoomModel{
		ID:              rm.ID(),
		BoardingHouseID: rm.BoardingHouseID(),
		OwnerID:         rm.OwnerID(),
		Name:            rm.Name(),
		Description:     rm.Description(),
		MonthlyRate:     rm.MonthlyRate(),
		Capacity:        rm.Capacity(),
		Status:          string(rm.Status()),
		Version:         rm.Version(),
		CreatedAt:       rm.CreatedAt(),
		UpdatedAt:       rm.UpdatedAt(),
	}
}

func toDomainRoom(m *RoomModel) *roomDomain.Room {
	return roomDomain.Reconstruct(
		m.ID,
		m.BoardingHouseID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.MonthlyRate,
		m.Capacity,
		roomDomain.RoomStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
