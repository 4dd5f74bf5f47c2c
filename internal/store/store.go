package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"studybuddy-backend/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// CreateRoomMessageParams contains parameters for appending a message to a
// room's conversation. CreatedAt and Seq are assigned by the store.
type CreateRoomMessageParams struct {
	ID      uuid.UUID
	RoomID  uuid.UUID
	UserID  uuid.UUID
	Message string
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations (identity directory)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUserIfAbsent inserts the given user unless a user with the same
	// email already exists, in which case the existing row is returned. The
	// operation must be atomic with respect to the email uniqueness
	// constraint; concurrent callers for the same email all receive the same
	// row.
	CreateUserIfAbsent(ctx context.Context, user *models.User) (*models.User, error)

	// Room operations
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	// Conversation operations. ListRecentRoomMessages returns at most limit
	// messages, newest first, with AuthorName populated; ties in created_at
	// are broken by insertion order.
	CreateRoomMessage(ctx context.Context, arg CreateRoomMessageParams) (*models.RoomMessage, error)
	ListRecentRoomMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]models.RoomMessage, error)
	// DeleteRoomMessages removes every message in a room; invoked by room
	// teardown.
	DeleteRoomMessages(ctx context.Context, roomID uuid.UUID) error
}
