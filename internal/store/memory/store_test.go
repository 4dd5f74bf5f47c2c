package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/store"
)

func TestCreateUserIfAbsentConcurrent(t *testing.T) {
	st := NewStore()
	const workers = 16

	results := make([]*models.User, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			u, err := st.CreateUserIfAbsent(context.Background(), &models.User{
				ID:          uuid.New(),
				Email:       "ai@studybuddy.com",
				DisplayName: "StudyBuddy AI",
			})
			require.NoError(t, err)
			results[i] = u
		}(i)
	}
	wg.Wait()

	// All workers obtained a reference to the same single row.
	first := results[0]
	require.NotNil(t, first)
	for _, u := range results[1:] {
		assert.Equal(t, first.ID, u.ID)
	}
}

func TestListRecentRoomMessagesOrderAndLimit(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	room := &models.Room{ID: uuid.New(), Name: "history"}
	require.NoError(t, st.CreateRoom(ctx, room))
	user := &models.User{ID: uuid.New(), Email: "bob@example.com", DisplayName: "Bob"}
	require.NoError(t, st.CreateUser(ctx, user))

	for i := 0; i < 10; i++ {
		_, err := st.CreateRoomMessage(ctx, store.CreateRoomMessageParams{
			ID:      uuid.New(),
			RoomID:  room.ID,
			UserID:  user.ID,
			Message: fmt.Sprintf("msg-%d", i),
		})
		require.NoError(t, err)
	}

	msgs, err := st.ListRecentRoomMessages(ctx, room.ID, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	// Newest first, with author names resolved.
	assert.Equal(t, "msg-9", msgs[0].Message)
	assert.Equal(t, "msg-8", msgs[1].Message)
	assert.Equal(t, "msg-7", msgs[2].Message)
	assert.Equal(t, "Bob", msgs[0].AuthorName)

	// created_at never decreases across insertions.
	all, err := st.ListRecentRoomMessages(ctx, room.ID, 10)
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].CreatedAt.Before(all[i].CreatedAt))
	}
}

func TestListRecentRoomMessagesLimitAboveCount(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	room := &models.Room{ID: uuid.New(), Name: "empty-ish"}
	require.NoError(t, st.CreateRoom(ctx, room))
	user := &models.User{ID: uuid.New(), Email: "eve@example.com", DisplayName: "Eve"}
	require.NoError(t, st.CreateUser(ctx, user))

	_, err := st.CreateRoomMessage(ctx, store.CreateRoomMessageParams{
		ID: uuid.New(), RoomID: room.ID, UserID: user.ID, Message: "only one",
	})
	require.NoError(t, err)

	msgs, err := st.ListRecentRoomMessages(ctx, room.ID, 50)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestDeleteRoomMessages(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	room := &models.Room{ID: uuid.New(), Name: "doomed"}
	require.NoError(t, st.CreateRoom(ctx, room))
	user := &models.User{ID: uuid.New(), Email: "zoe@example.com", DisplayName: "Zoe"}
	require.NoError(t, st.CreateUser(ctx, user))

	for i := 0; i < 4; i++ {
		_, err := st.CreateRoomMessage(ctx, store.CreateRoomMessageParams{
			ID: uuid.New(), RoomID: room.ID, UserID: user.ID, Message: "bye",
		})
		require.NoError(t, err)
	}

	require.NoError(t, st.DeleteRoomMessages(ctx, room.ID))

	msgs, err := st.ListRecentRoomMessages(ctx, room.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestLookupsReturnErrNotFound(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	_, err := st.GetRoomByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, st.DeleteRoom(ctx, uuid.New()), store.ErrNotFound)
}
