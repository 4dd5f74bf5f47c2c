package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studybuddy-backend/internal/config"
	"studybuddy-backend/internal/store/memory"
)

func newAuthService(st *memory.Store) *AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", TokenExpiration: time.Hour}
	return NewAuthService(st, cfg, zerolog.Nop())
}

func TestSignupAndLogin(t *testing.T) {
	st := memory.NewStore()
	svc := newAuthService(st)

	user, err := svc.Signup(context.Background(), "Alice@Example.com", "s3cret", "Alice")
	require.NoError(t, err)
	// Emails are normalized to lowercase.
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret", user.HashedPassword)

	token, loggedIn, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	st := memory.NewStore()
	svc := newAuthService(st)

	_, err := svc.Signup(context.Background(), "bob@example.com", "pw", "Bob")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "bob@example.com", "other", "Bobby")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestSignupDisplayNameFallsBackToMailbox(t *testing.T) {
	st := memory.NewStore()
	svc := newAuthService(st)

	user, err := svc.Signup(context.Background(), "carol@example.com", "pw", "   ")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.DisplayName)
}

func TestSignupRejectsEmptyInput(t *testing.T) {
	svc := newAuthService(memory.NewStore())

	_, err := svc.Signup(context.Background(), "", "pw", "X")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Signup(context.Background(), "x@example.com", "", "X")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginWrongPassword(t *testing.T) {
	st := memory.NewStore()
	svc := newAuthService(st)

	_, err := svc.Signup(context.Background(), "dan@example.com", "right", "Dan")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "dan@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(memory.NewStore())

	// Unknown user and bad password are indistinguishable to the caller.
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
