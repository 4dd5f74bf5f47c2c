// Package consumer processes assistant replies arriving on the broker and
// feeds them back into the room conversation.
package consumer

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/realtime"
	"studybuddy-backend/internal/store"
)

// Reserved identity of the AI responder. At most one user row ever holds this
// email; the uniqueness constraint at the store level enforces it.
const (
	AIUserEmail       = "ai@studybuddy.com"
	AIUserDisplayName = "StudyBuddy AI"
)

// Processing stages, used as the failure tag in logs.
const (
	stageParse    = "parse"
	stageRoom     = "room-not-found"
	stageIdentity = "identity"
	stagePersist  = "persist"
)

// AIResponseConsumer turns an inbound AIResponseEvent into a persisted,
// broadcast room message authored by the reserved AI identity. Failures at
// any stage are logged and the event dropped: no retry, no dead-letter. A
// lost reply is acceptable for a best-effort augmentation feature; the human
// conversation is never affected.
type AIResponseConsumer struct {
	store store.Store
	hub   realtime.Broadcaster
	log   zerolog.Logger
}

func NewAIResponseConsumer(s store.Store, hub realtime.Broadcaster, log zerolog.Logger) *AIResponseConsumer {
	return &AIResponseConsumer{
		store: s,
		hub:   hub,
		log:   log,
	}
}

// Handle processes one raw broker payload. Safe for concurrent delivery: the
// only shared mutation is the insert-or-fetch of the AI identity, which the
// store performs atomically.
func (c *AIResponseConsumer) Handle(ctx context.Context, payload []byte) {
	var event models.AIResponseEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.fail(stageParse, err, uuid.Nil, "malformed AI response payload")
		return
	}
	if event.RoomID == uuid.Nil || event.Response == "" {
		c.fail(stageParse, nil, event.RoomID, "AI response missing roomId or response")
		return
	}

	// The room may have been torn down between request and reply.
	room, err := c.store.GetRoomByID(ctx, event.RoomID)
	if err != nil {
		c.fail(stageRoom, err, event.RoomID, "room lookup failed for AI response")
		return
	}

	aiUser, err := c.resolveAIUser(ctx)
	if err != nil {
		c.fail(stageIdentity, err, room.ID, "resolving AI identity failed")
		return
	}

	msg, err := c.store.CreateRoomMessage(ctx, store.CreateRoomMessageParams{
		ID:      uuid.New(),
		RoomID:  room.ID,
		UserID:  aiUser.ID,
		Message: event.Response,
	})
	if err != nil {
		c.fail(stagePersist, err, room.ID, "persisting AI reply failed")
		return
	}

	// Same path a human message takes: persisted first, then pushed to the
	// room's live channel. Broadcast cannot fail the already-durable write.
	c.hub.Broadcast(room.ID, models.MessageResponse{
		ID:        msg.ID,
		Room:      msg.RoomID,
		User:      models.MessageAuthor{ID: aiUser.ID, DisplayName: aiUser.DisplayName},
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
	})

	c.log.Info().
		Str("room_id", room.ID.String()).
		Str("message_id", msg.ID.String()).
		Msg("AI reply persisted and broadcast")
}

// resolveAIUser fetches the reserved AI identity, lazily creating it on the
// first reply. The store's insert-or-fetch is atomic, so concurrent replies
// racing on first creation all resolve to the same row.
func (c *AIResponseConsumer) resolveAIUser(ctx context.Context) (*models.User, error) {
	return c.store.CreateUserIfAbsent(ctx, &models.User{
		ID:             uuid.New(),
		Email:          AIUserEmail,
		DisplayName:    AIUserDisplayName,
		HashedPassword: "fake", // placeholder, the AI identity never logs in
		Verified:       true,
	})
}

func (c *AIResponseConsumer) fail(stage string, err error, roomID uuid.UUID, msg string) {
	evt := c.log.Error().Str("stage", stage)
	if err != nil {
		evt = evt.Err(err)
	}
	if roomID != uuid.Nil {
		evt = evt.Str("room_id", roomID.String())
	}
	evt.Msg(msg + " (event dropped)")
}
