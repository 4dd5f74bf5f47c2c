package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy-backend/internal/auth"
	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/services"
)

// stubMessageService lets each test script the service layer's behavior.
type stubMessageService struct {
	postFn   func(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error)
	postAIFn func(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error)
	listFn   func(ctx context.Context, roomID uuid.UUID) ([]models.MessageResponse, error)
}

func (s *stubMessageService) PostMessage(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error) {
	return s.postFn(ctx, roomID, userID, text)
}

func (s *stubMessageService) PostMessageAndRequestAI(ctx context.Context, roomID, userID uuid.UUID, text string) (*models.MessageResponse, error) {
	return s.postAIFn(ctx, roomID, userID, text)
}

func (s *stubMessageService) LastMessages(ctx context.Context, roomID uuid.UUID) ([]models.MessageResponse, error) {
	return s.listFn(ctx, roomID)
}

func newMessageRouter(svc MessageService) *chi.Mux {
	h := NewMessageHandler(svc, zerolog.Nop())
	r := chi.NewRouter()
	r.Post("/v1/rooms/{roomID}/messages", h.HandlePostMessage)
	r.Get("/v1/rooms/{roomID}/messages", h.HandleListMessages)
	return r
}

func postMessageRequest(roomID string, userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/rooms/%s/messages", roomID), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestHandlePostMessageCreated(t *testing.T) {
	roomID := uuid.New()
	userID := uuid.New()
	created := &models.MessageResponse{
		ID:      uuid.New(),
		Room:    roomID,
		User:    models.MessageAuthor{ID: userID, DisplayName: "Alice"},
		Message: "hello",
	}

	var aiCalled bool
	svc := &stubMessageService{
		postFn: func(_ context.Context, gotRoom, gotUser uuid.UUID, text string) (*models.MessageResponse, error) {
			assert.Equal(t, roomID, gotRoom)
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, "hello", text)
			return created, nil
		},
		postAIFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*models.MessageResponse, error) {
			aiCalled = true
			return created, nil
		},
	}

	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, postMessageRequest(roomID.String(), userID, `{"message":"hello"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, aiCalled)

	var resp models.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "Alice", resp.User.DisplayName)
}

func TestHandlePostMessageAIFlagRoutesToAIPath(t *testing.T) {
	roomID := uuid.New()
	userID := uuid.New()

	var aiCalled bool
	svc := &stubMessageService{
		postFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*models.MessageResponse, error) {
			t.Fatal("plain path used for an AI-flagged message")
			return nil, nil
		},
		postAIFn: func(_ context.Context, _, _ uuid.UUID, text string) (*models.MessageResponse, error) {
			aiCalled = true
			assert.Equal(t, "explain photosynthesis", text)
			return &models.MessageResponse{ID: uuid.New(), Room: roomID}, nil
		},
	}

	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, postMessageRequest(roomID.String(), userID, `{"message":"explain photosynthesis","ai":true}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, aiCalled)
}

func TestHandlePostMessageInvalidRoomID(t *testing.T) {
	svc := &stubMessageService{}

	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, postMessageRequest("not-a-uuid", uuid.New(), `{"message":"hi"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePostMessageMissingIdentity(t *testing.T) {
	svc := &stubMessageService{}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/rooms/%s/messages", uuid.New()), bytes.NewBufferString(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlePostMessageRoomNotFound(t *testing.T) {
	svc := &stubMessageService{
		postFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*models.MessageResponse, error) {
			return nil, services.ErrRoomNotFound
		},
	}

	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, postMessageRequest(uuid.New().String(), uuid.New(), `{"message":"hi"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePostMessageValidationError(t *testing.T) {
	svc := &stubMessageService{
		postFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*models.MessageResponse, error) {
			return nil, services.ErrValidation
		},
	}

	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, postMessageRequest(uuid.New().String(), uuid.New(), `{"message":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListMessagesOK(t *testing.T) {
	roomID := uuid.New()
	svc := &stubMessageService{
		listFn: func(_ context.Context, gotRoom uuid.UUID) ([]models.MessageResponse, error) {
			assert.Equal(t, roomID, gotRoom)
			return []models.MessageResponse{
				{ID: uuid.New(), Room: roomID, Message: "newest"},
				{ID: uuid.New(), Room: roomID, Message: "older"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/rooms/%s/messages", roomID), nil)
	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var msgs []models.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "newest", msgs[0].Message)
}

func TestHandleListMessagesRoomNotFound(t *testing.T) {
	svc := &stubMessageService{
		listFn: func(context.Context, uuid.UUID) ([]models.MessageResponse, error) {
			return nil, services.ErrRoomNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/rooms/%s/messages", uuid.New()), nil)
	rec := httptest.NewRecorder()
	newMessageRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
