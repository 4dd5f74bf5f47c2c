package models

import "github.com/google/uuid"

// AIMessageEvent is the outbound broker payload for a triggering message. The
// context field carries up to the last 50 room messages rendered as
// "<displayName>: <text>", oldest first.
type AIMessageEvent struct {
	RoomID  uuid.UUID `json:"roomId"`
	UserID  uuid.UUID `json:"userId"`
	Message string    `json:"message"`
	Context []string  `json:"context"`
}

// AIResponseEvent is the inbound broker payload carrying the assistant's
// reply. It is not yet associated with a user; the consumer resolves the
// reserved AI identity before persisting it.
type AIResponseEvent struct {
	RoomID   uuid.UUID `json:"roomId"`
	Response string    `json:"response"`
}
