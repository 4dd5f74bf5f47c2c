// Package memory provides a mutex-guarded in-memory implementation of
// store.Store. It backs the test suites and lets the server run without
// Postgres during local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/store"
)

// Compile-time check to ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

type Store struct {
	mu       sync.Mutex
	users    map[uuid.UUID]models.User
	byEmail  map[string]uuid.UUID
	rooms    map[uuid.UUID]models.Room
	messages map[uuid.UUID][]models.RoomMessage
	seq      int64
	lastTime time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]models.User),
		byEmail:  make(map[string]uuid.UUID),
		rooms:    make(map[uuid.UUID]models.Room),
		messages: make(map[uuid.UUID][]models.RoomMessage),
	}
}

// now returns a timestamp that never moves backwards, mirroring the
// monotonically non-decreasing created_at the database assigns.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if t.Before(s.lastTime) {
		t = s.lastTime
	}
	s.lastTime = t
	return t
}

// --- User operations ---

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

// CreateUserIfAbsent holds the store mutex across the check and the insert, so
// concurrent callers for the same email all observe a single row.
func (s *Store) CreateUserIfAbsent(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byEmail[user.Email]; ok {
		existing := s.users[id]
		return &existing, nil
	}

	u := *user
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return &u, nil
}

// --- Room operations ---

func (s *Store) CreateRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *room
	r.CreatedAt = s.now()
	s.rooms[r.ID] = r
	return nil
}

func (s *Store) GetRoomByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *Store) ListRooms(_ context.Context) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make([]models.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	return rooms, nil
}

func (s *Store) DeleteRoom(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.rooms, id)
	return nil
}

// --- Conversation operations ---

func (s *Store) CreateRoomMessage(_ context.Context, arg store.CreateRoomMessageParams) (*models.RoomMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	msg := models.RoomMessage{
		ID:        arg.ID,
		Seq:       s.seq,
		RoomID:    arg.RoomID,
		UserID:    arg.UserID,
		Message:   arg.Message,
		CreatedAt: s.now(),
	}
	s.messages[arg.RoomID] = append(s.messages[arg.RoomID], msg)
	return &msg, nil
}

func (s *Store) ListRecentRoomMessages(_ context.Context, roomID uuid.UUID, limit int) ([]models.RoomMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.messages[roomID]
	if limit > len(all) {
		limit = len(all)
	}

	// Messages are appended in insertion order, so walking backwards yields
	// newest-first with created_at ties already broken by seq.
	msgs := make([]models.RoomMessage, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		m := all[i]
		if u, ok := s.users[m.UserID]; ok {
			m.AuthorName = u.DisplayName
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (s *Store) DeleteRoomMessages(_ context.Context, roomID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, roomID)
	return nil
}
