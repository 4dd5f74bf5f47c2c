package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret", "not-a-hash"))
}

func TestNewAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	tokenString, err := NewAccessToken(userID, "Alice", secret, time.Hour)
	require.NoError(t, err)

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Alice", claims.DisplayName)
	assert.Equal(t, "studybuddy-backend", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := NewAccessToken(uuid.New(), "Alice", "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestAccessTokenExpiry(t *testing.T) {
	tokenString, err := NewAccessToken(uuid.New(), "Alice", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
