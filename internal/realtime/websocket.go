package realtime

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS middleware on the HTTP side;
	// the websocket handshake accepts any origin here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades HTTP requests on a room's live channel and pumps
// hub broadcasts to the client until it disconnects.
type WebSocketHandler struct {
	hub *Hub
	log zerolog.Logger
}

func NewWebSocketHandler(hub *Hub, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, log: log}
}

// HandleRoomSocket handles GET /v1/rooms/{roomID}/ws.
func (h *WebSocketHandler) HandleRoomSocket(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		http.Error(w, "invalid room ID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		h.log.Warn().Err(err).Str("room_id", roomID.String()).Msg("websocket upgrade failed")
		return
	}

	sub := h.hub.Subscribe(roomID)
	h.log.Debug().Str("room_id", roomID.String()).Msg("websocket subscriber attached")

	go h.writePump(conn, roomID, sub)
	h.readPump(conn, roomID, sub)
}

// readPump discards inbound frames; messages are posted over REST, not the
// socket. Its job is to notice the peer going away and detach the subscriber.
func (h *WebSocketHandler) readPump(conn *websocket.Conn, roomID uuid.UUID, sub Subscriber) {
	defer func() {
		h.hub.Unsubscribe(roomID, sub)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("room_id", roomID.String()).Msg("websocket read error")
			}
			return
		}
	}
}

func (h *WebSocketHandler) writePump(conn *websocket.Conn, roomID uuid.UUID, sub Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the subscription.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("room_id", roomID.String()).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
