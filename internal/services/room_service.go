package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/store"
)

// RoomService handles the minimal room lifecycle the chat pipeline depends
// on: existence, listing, and teardown. Membership and timers live elsewhere.
type RoomService struct {
	store store.Store
	log   zerolog.Logger
}

func NewRoomService(s store.Store, log zerolog.Logger) *RoomService {
	return &RoomService{store: s, log: log}
}

func (s *RoomService) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.RoomResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: room name cannot be empty", ErrValidation)
	}

	room := &models.Room{
		ID:      uuid.New(),
		Name:    req.Name,
		Subject: req.Subject,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return roomToResponse(room), nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*models.RoomResponse, error) {
	room, err := s.store.GetRoomByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return roomToResponse(room), nil
}

func (s *RoomService) ListRooms(ctx context.Context) ([]models.RoomResponse, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	resps := make([]models.RoomResponse, 0, len(rooms))
	for i := range rooms {
		resps = append(resps, *roomToResponse(&rooms[i]))
	}
	return resps, nil
}

// DeleteRoom tears a room down: the conversation is bulk-deleted first, then
// the room itself. An AI reply arriving after teardown is dropped by the
// consumer's room lookup.
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetRoomByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to get room: %w", err)
	}

	if err := s.store.DeleteRoomMessages(ctx, id); err != nil {
		return fmt.Errorf("failed to delete room messages: %w", err)
	}
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.log.Info().Str("room_id", id.String()).Msg("room torn down")
	return nil
}

func roomToResponse(room *models.Room) *models.RoomResponse {
	return &models.RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		Subject:   room.Subject,
		CreatedAt: room.CreatedAt,
	}
}
