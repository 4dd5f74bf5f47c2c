package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/store"
)

// --- Room message methods ---

const createRoomMessage = `
INSERT INTO room_messages (id, room_id, user_id, message)
VALUES ($1, $2, $3, $4)
RETURNING id, seq, room_id, user_id, message, created_at`

// CreateRoomMessage appends a message to a room's conversation. created_at and
// seq are assigned by the database so that insertion order is authoritative.
func (s *PostgresStore) CreateRoomMessage(ctx context.Context, arg store.CreateRoomMessageParams) (*models.RoomMessage, error) {
	msg := &models.RoomMessage{}
	err := s.db.QueryRow(ctx, createRoomMessage,
		arg.ID,
		arg.RoomID,
		arg.UserID,
		arg.Message,
	).Scan(
		&msg.ID,
		&msg.Seq,
		&msg.RoomID,
		&msg.UserID,
		&msg.Message,
		&msg.CreatedAt,
	)
	if err != nil {
		s.log.Error().Err(err).Str("room_id", arg.RoomID.String()).Msg("CreateRoomMessage insert failed")
		return nil, fmt.Errorf("database error creating room message: %w", err)
	}
	return msg, nil
}

const listRecentRoomMessages = `
SELECT m.id, m.seq, m.room_id, m.user_id, m.message, m.created_at, u.display_name
FROM room_messages m
JOIN users u ON u.id = m.user_id
WHERE m.room_id = $1
ORDER BY m.created_at DESC, m.seq DESC
LIMIT $2`

// ListRecentRoomMessages returns the latest messages of a room, newest first.
// The fetch is newest-first because the hot query is "most recent N"; callers
// that need chronological order re-sort the bounded slice themselves.
func (s *PostgresStore) ListRecentRoomMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]models.RoomMessage, error) {
	rows, err := s.db.Query(ctx, listRecentRoomMessages, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("database error listing room messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.RoomMessage
	for rows.Next() {
		var m models.RoomMessage
		if err := rows.Scan(&m.ID, &m.Seq, &m.RoomID, &m.UserID, &m.Message, &m.CreatedAt, &m.AuthorName); err != nil {
			return nil, fmt.Errorf("database error scanning room message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating room messages: %w", err)
	}
	return msgs, nil
}

const deleteRoomMessages = `DELETE FROM room_messages WHERE room_id = $1`

// DeleteRoomMessages bulk-deletes a room's conversation during teardown.
func (s *PostgresStore) DeleteRoomMessages(ctx context.Context, roomID uuid.UUID) error {
	if _, err := s.db.Exec(ctx, deleteRoomMessages, roomID); err != nil {
		return fmt.Errorf("database error deleting room messages: %w", err)
	}
	return nil
}
