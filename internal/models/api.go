package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateRoomRequest defines the body for creating a study room.
type CreateRoomRequest struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

// PostMessageRequest defines the body for posting a chat message to a room.
// When AI is true the message additionally triggers an assistant reply via the
// broker; the human message succeeds either way.
type PostMessageRequest struct {
	Message string `json:"message"`
	AI      bool   `json:"ai"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like HashedPassword.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// RoomResponse defines the room information returned by the API.
type RoomResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageAuthor identifies the author of a broadcast message.
type MessageAuthor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}

// MessageResponse is the wire shape of a room message, both for REST reads and
// for the per-room realtime channel.
type MessageResponse struct {
	ID        uuid.UUID     `json:"id"`
	Room      uuid.UUID     `json:"room"`
	User      MessageAuthor `json:"user"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
