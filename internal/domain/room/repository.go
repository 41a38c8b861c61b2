package room

import (
	"context"

	"github.com/google/uuid"
)

// RoomRepository defines the persistence contract for room aggregates.
type RoomRepository interface {
	// FindByID retrieves a room by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByOwnerID retrieves all rooms belonging to an owner.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Room, error)

	// Save persists a new room.
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room.
	Update(ctx context.Context, room *Room) error
}
