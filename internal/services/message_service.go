package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/broker"
	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/realtime"
	"studybuddy-backend/internal/store"
)

// contextWindowSize bounds the transcript sent with a triggering message. It
// caps event payload size and prompt cost while keeping enough recent context
// for a coherent reply.
const contextWindowSize = 50

var (
	// ErrRoomNotFound is returned when the target room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUserNotFound is returned when the authoring user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// MessageService is the entry point for chat ingestion: it persists messages,
// fans them out to the room's live channel, and, for triggering messages,
// publishes an AI request event carrying the room's recent transcript.
type MessageService struct {
	store     store.Store
	hub       realtime.Broadcaster
	publisher broker.Publisher
	log       zerolog.Logger
}

func NewMessageService(s store.Store, hub realtime.Broadcaster, pub broker.Publisher, log zerolog.Logger) *MessageService {
	return &MessageService{
		store:     s,
		hub:       hub,
		publisher: pub,
		log:       log,
	}
}

// PostMessage stores a human message and broadcasts it to the room's live
// channel. The broadcast is best-effort: once the write is durable the call
// succeeds regardless of realtime delivery.
func (s *MessageService) PostMessage(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error) {
	return s.ingest(ctx, roomID, userID, text)
}

// PostMessageAndRequestAI behaves like PostMessage and additionally publishes
// an AI request event with the room's recent transcript. Publish failure is
// logged and never fails the user-visible call; the human message is already
// stored and visible.
func (s *MessageService) PostMessageAndRequestAI(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error) {
	resp, err := s.ingest(ctx, roomID, userID, text)
	if err != nil {
		return nil, err
	}

	window, err := s.BuildContext(ctx, roomID)
	if err != nil {
		s.log.Warn().Err(err).
			Str("room_id", roomID.String()).
			Msg("building AI context failed, skipping AI request")
		return resp, nil
	}

	event := models.AIMessageEvent{
		RoomID:  roomID,
		UserID:  userID,
		Message: text,
		Context: window,
	}
	if err := s.publisher.PublishAIMessage(ctx, event); err != nil {
		s.log.Warn().Err(err).
			Str("room_id", roomID.String()).
			Msg("publishing AI request failed, message stored anyway")
		return resp, nil
	}

	s.log.Info().
		Str("room_id", roomID.String()).
		Int("context_lines", len(window)).
		Msg("AI request published")
	return resp, nil
}

func (s *MessageService) ingest(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	room, err := s.store.GetRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to resolve room: %w", err)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	msg, err := s.store.CreateRoomMessage(ctx, store.CreateRoomMessageParams{
		ID:      uuid.New(),
		RoomID:  room.ID,
		UserID:  user.ID,
		Message: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	resp := &models.MessageResponse{
		ID:        msg.ID,
		Room:      msg.RoomID,
		User:      models.MessageAuthor{ID: user.ID, DisplayName: user.DisplayName},
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	}

	// Storage durability takes priority over realtime delivery: the hub only
	// pushes to whoever is connected right now and never reports back.
	s.hub.Broadcast(room.ID, *resp)

	return resp, nil
}

// BuildContext assembles the most recent messages of a room into a transcript
// for AI consumption: at most contextWindowSize lines, oldest first, each
// rendered as "<displayName>: <text>". The underlying fetch is newest-first,
// so the window is reversed before rendering.
func (s *MessageService) BuildContext(ctx context.Context, roomID uuid.UUID) ([]string, error) {
	msgs, err := s.store.ListRecentRoomMessages(ctx, roomID, contextWindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent messages: %w", err)
	}

	window := make([]string, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		window = append(window, msgs[i].AuthorName+": "+msgs[i].Message)
	}
	return window, nil
}

// LastMessages returns the latest messages of a room, newest first, for
// history fetches by late joiners.
func (s *MessageService) LastMessages(ctx context.Context, roomID uuid.UUID) ([]models.MessageResponse, error) {
	if _, err := s.store.GetRoomByID(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to resolve room: %w", err)
	}

	msgs, err := s.store.ListRecentRoomMessages(ctx, roomID, contextWindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent messages: %w", err)
	}

	resps := make([]models.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resps = append(resps, models.MessageResponse{
			ID:        m.ID,
			Room:      m.RoomID,
			User:      models.MessageAuthor{ID: m.UserID, DisplayName: m.AuthorName},
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		})
	}
	return resps, nil
}
