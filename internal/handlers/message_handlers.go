package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/auth"
	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/services"
	"studybuddy-backend/pkg/httputil"
)

// MessageService defines the interface expected from the message service.
type MessageService interface {
	PostMessage(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error)
	PostMessageAndRequestAI(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error)
	LastMessages(ctx context.Context, roomID uuid.UUID) ([]models.MessageResponse, error)
}

type MessageHandler struct {
	messageService MessageService
	log            zerolog.Logger
}

func NewMessageHandler(ms MessageService, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{messageService: ms, log: log}
}

// HandlePostMessage handles POST /v1/rooms/{roomID}/messages. The authoring
// user comes from the JWT; a body with "ai": true makes the message trigger
// an assistant reply.
func (h *MessageHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req models.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	var msg *models.MessageResponse
	if req.AI {
		msg, err = h.messageService.PostMessageAndRequestAI(r.Context(), roomID, userID, req.Message)
	} else {
		msg, err = h.messageService.PostMessage(r.Context(), roomID, userID, req.Message)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoomNotFound), errors.Is(err, services.ErrUserNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error().Err(err).Str("room_id", roomID.String()).Msg("posting message failed")
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to post message")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// HandleListMessages handles GET /v1/rooms/{roomID}/messages, returning the
// latest messages newest first.
func (h *MessageHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	msgs, err := h.messageService.LastMessages(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.log.Error().Err(err).Str("room_id", roomID.String()).Msg("listing messages failed")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, msgs)
}
