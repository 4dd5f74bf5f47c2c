// Package realtime fans persisted room messages out to live subscribers.
// Delivery is advisory: there is no acknowledgment and no buffering for
// offline subscribers; late joiners read history from the store instead.
package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/models"
)

// Broadcaster publishes a message to all current subscribers of a room's live
// channel. It is a side effect only and never fails the caller.
type Broadcaster interface {
	Broadcast(roomID uuid.UUID, msg models.MessageResponse)
}

// Subscriber receives messages for a single room.
type Subscriber chan models.MessageResponse

// Hub is an in-process pub/sub bus keyed by room id. Rooms are independent:
// a subscriber only sees messages for the room it subscribed to.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[Subscriber]bool
	log   zerolog.Logger
}

var _ Broadcaster = (*Hub)(nil)

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[Subscriber]bool),
		log:   log,
	}
}

// Subscribe registers a new subscriber for a room and returns its channel.
func (h *Hub) Subscribe(roomID uuid.UUID) Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := make(Subscriber, 50) // Buffer per subscriber
	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[Subscriber]bool)
		h.rooms[roomID] = subs
	}
	subs[sub] = true
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(roomID uuid.UUID, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, roomID)
	}
	close(sub)
}

// Broadcast delivers msg to every current subscriber of the room. Slow
// subscribers with full buffers are skipped rather than blocked on.
func (h *Hub) Broadcast(roomID uuid.UUID, msg models.MessageResponse) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.rooms[roomID] {
		select {
		case sub <- msg:
		default:
			h.log.Warn().
				Str("room_id", roomID.String()).
				Msg("subscriber buffer full, dropping realtime message")
		}
	}
}

// SubscriberCount returns the number of active subscribers for a room.
func (h *Hub) SubscriberCount(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
