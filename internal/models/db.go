package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the database. One distinguished user, keyed by the
// reserved AI email, represents the AI responder; it is created lazily by the
// response consumer and never through signup.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	DisplayName    string    `db:"display_name"`
	HashedPassword string    `db:"hashed_password"`
	Verified       bool      `db:"verified"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Room represents a shared study room. The core only needs its identity and
// subject metadata; membership lives elsewhere.
type Room struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Subject   string    `db:"subject"`
	CreatedAt time.Time `db:"created_at"`
}

// RoomMessage is a single chat message in a room. Immutable once created;
// CreatedAt is assigned by the store and, together with Seq, totally orders
// messages within a room.
type RoomMessage struct {
	ID        uuid.UUID `db:"id"`
	Seq       int64     `db:"seq"`
	RoomID    uuid.UUID `db:"room_id"`
	UserID    uuid.UUID `db:"user_id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`

	// AuthorName is populated by list queries that join users; it is not a
	// column of room_messages.
	AuthorName string `db:"-"`
}
