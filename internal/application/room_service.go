package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	roomDomain "github.com/HanapBahay/service-booking/internal/domain/room"
	"github.com/HanapBahay/service-booking/internal/pkg/domain"
)

// CreateRoomRequest holds the data needed to list a new room.
type CreateRoomRequest struct {
	BoardingHouseID uuid.UUID       `json:"boarding_house_id" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	MonthlyRate     decimal.Decimal `json:"monthly_rate" binding:"required"`
	Capacity        int             `json:"capacity" binding:"required"`
}

// UpdateRoomRequest holds the editable fields of a room.
type UpdateRoomRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	MonthlyRate decimal.Decimal `json:"monthly_rate" binding:"required"`
	Capacity    int             `json:"capacity" binding:"required"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID              uuid.UUID       `json:"id"`
	BoardingHouseID uuid.UUID       `json:"boarding_house_id"`
	OwnerID         uuid.UUID       `json:"owner_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	MonthlyRate     decimal.Decimal `json:"monthly_rate"`
	Capacity        int             `json:"capacity"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RoomService manages room listings on behalf of owners.
type RoomService struct {
	repo   roomDomain.RoomRepository
	logger *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(repo roomDomain.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{repo: repo, logger: logger}
}

// CreateRoom lists a new room under the owner's boarding house.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID uuid.UUID, req CreateRoomRequest) (*RoomDTO, error) {
	rm, err := roomDomain.NewRoom(req.BoardingHouseID, ownerID, req.Name, req.Description, req.MonthlyRate, req.Capacity)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rm); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", rm.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	result := toRoomDTO(rm)
	return &result, nil
}

// UpdateRoom edits a room the caller owns.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, ownerID uuid.UUID, req UpdateRoomRequest) (*RoomDTO, error) {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !rm.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("you cannot modify this room")
	}

	rm.Update(req.Name, req.Description, req.MonthlyRate, req.Capacity)

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// ArchiveRoom removes a room from booking availability without deleting it.
func (s *RoomService) ArchiveRoom(ctx context.Context, roomID, ownerID uuid.UUID) error {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !rm.IsOwnedBy(ownerID) {
		return domain.NewForbiddenError("you cannot modify this room")
	}

	rm.Archive()
	return s.repo.Update(ctx, rm)
}

// GetRoom retrieves a single room.
func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomDTO, error) {
	rm, err := s.repo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	result := toRoomDTO(rm)
	return &result, nil
}

// GetOwnerRooms retrieves all rooms listed by an owner.
func (s *RoomService) GetOwnerRooms(ctx context.Context, ownerID uuid.UUID) ([]RoomDTO, error) {
	rooms, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}
	return dtos, nil
}

func toRoomDTO(rm *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:              rm.ID(),
		BoardingHouseID: rm.BoardingHouseID(),
		OwnerID:         rm.OwnerID(),
		Name:            rm.Name(),
		Description:     rm.Description(),
		MonthlyRate:     rm.MonthlyRate(),
		Capacity:        rm.Capacity(),
		Status:          string(rm.Status()),
		CreatedAt:       rm.CreatedAt(),
		UpdatedAt:       rm.UpdatedAt(),
	}
}
