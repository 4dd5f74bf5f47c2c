package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/services"
	"studybuddy-backend/pkg/httputil"
)

type RoomHandler struct {
	roomService *services.RoomService
	log         zerolog.Logger
}

func NewRoomHandler(rs *services.RoomService, log zerolog.Logger) *RoomHandler {
	return &RoomHandler{roomService: rs, log: log}
}

// HandleCreateRoom handles POST /v1/rooms.
func (h *RoomHandler) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	room, err := h.roomService.CreateRoom(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("creating room failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, room)
}

// HandleGetRoom handles GET /v1/rooms/{roomID}.
func (h *RoomHandler) HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	room, err := h.roomService.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID.String()).Msg("fetching room failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch room")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, room)
}

// HandleListRooms handles GET /v1/rooms.
func (h *RoomHandler) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.ListRooms(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("listing rooms failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list rooms")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, rooms)
}

// HandleDeleteRoom handles DELETE /v1/rooms/{roomID}: room teardown including
// bulk deletion of the room's conversation.
func (h *RoomHandler) HandleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	if err := h.roomService.DeleteRoom(r.Context(), roomID); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID.String()).Msg("deleting room failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete room")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
