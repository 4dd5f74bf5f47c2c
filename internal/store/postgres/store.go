package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/store"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

func NewPostgresStore(db *pgxpool.Pool, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// --- User methods ---

const createUser = `
INSERT INTO users (id, email, display_name, hashed_password, verified)
VALUES ($1, $2, $3, $4, $5)`

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.Exec(ctx, createUser,
		user.ID,
		user.Email,
		user.DisplayName,
		user.HashedPassword,
		user.Verified,
	)
	if err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("CreateUser insert failed")
		return fmt.Errorf("database error creating user: %w", err)
	}
	return nil
}

const getUserByID = `
SELECT id, email, display_name, hashed_password, verified, created_at, updated_at
FROM users
WHERE id = $1`

func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, getUserByID, id).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.HashedPassword,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user by id: %w", err)
	}
	return user, nil
}

const getUserByEmail = `
SELECT id, email, display_name, hashed_password, verified, created_at, updated_at
FROM users
WHERE email = $1`

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx, getUserByEmail, email).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.HashedPassword,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}
	return user, nil
}

const insertUserIfAbsent = `
INSERT INTO users (id, email, display_name, hashed_password, verified)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO NOTHING`

// CreateUserIfAbsent inserts the user and, win or lose the insert race,
// returns the row holding the email. The unique constraint on users.email
// makes the insert-or-fetch atomic; a concurrent writer's row is visible by
// the time our ON CONFLICT insert completes.
func (s *PostgresStore) CreateUserIfAbsent(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := s.db.Exec(ctx, insertUserIfAbsent,
		user.ID,
		user.Email,
		user.DisplayName,
		user.HashedPassword,
		user.Verified,
	)
	if err != nil {
		return nil, fmt.Errorf("database error upserting user: %w", err)
	}
	return s.GetUserByEmail(ctx, user.Email)
}

// --- Room methods ---

const createRoom = `
INSERT INTO rooms (id, name, subject)
VALUES ($1, $2, $3)`

func (s *PostgresStore) CreateRoom(ctx context.Context, room *models.Room) error {
	_, err := s.db.Exec(ctx, createRoom, room.ID, room.Name, room.Subject)
	if err != nil {
		s.log.Error().Err(err).Str("room", room.Name).Msg("CreateRoom insert failed")
		return fmt.Errorf("database error creating room: %w", err)
	}
	return nil
}

const getRoomByID = `
SELECT id, name, subject, created_at
FROM rooms
WHERE id = $1`

func (s *PostgresStore) GetRoomByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room := &models.Room{}
	err := s.db.QueryRow(ctx, getRoomByID, id).Scan(
		&room.ID,
		&room.Name,
		&room.Subject,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching room: %w", err)
	}
	return room, nil
}

const listRooms = `
SELECT id, name, subject, created_at
FROM rooms
ORDER BY created_at DESC`

func (s *PostgresStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := s.db.Query(ctx, listRooms)
	if err != nil {
		return nil, fmt.Errorf("database error listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var r models.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Subject, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("database error scanning room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating rooms: %w", err)
	}
	return rooms, nil
}

const deleteRoom = `DELETE FROM rooms WHERE id = $1`

func (s *PostgresStore) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, deleteRoom, id)
	if err != nil {
		return fmt.Errorf("database error deleting room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
