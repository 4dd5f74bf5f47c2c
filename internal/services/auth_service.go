package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studybuddy-backend/internal/auth"
	"studybuddy-backend/internal/config"
	"studybuddy-backend/internal/models"
	"studybuddy-backend/internal/store"
)

// Custom errors for auth service
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
	ErrValidation         = errors.New("input validation failed")
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
	log   zerolog.Logger
}

func NewAuthService(s store.Store, cfg *config.Config, log zerolog.Logger) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
		log:   log,
	}
}

// Signup creates a new user account.
func (s *AuthService) Signup(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password cannot be empty", ErrValidation)
	}
	if displayName == "" {
		// Fall back to the mailbox part of the address.
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	// Check if user already exists
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.log.Error().Err(err).Str("email", email).Msg("checking user existence failed")
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("hashing password failed")
		return nil, ErrHashingPassword
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		DisplayName:    displayName,
		HashedPassword: hashedPassword,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("creating user failed")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("email", email).Str("user_id", user.ID.String()).Msg("user signed up")
	return user, nil
}

// Login verifies user credentials and returns an access token and user info.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't reveal whether the user exists or the password is wrong.
			return "", nil, ErrInvalidCredentials
		}
		s.log.Error().Err(err).Str("email", email).Msg("fetching user for login failed")
		return "", nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.DisplayName, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("creating access token failed")
		return "", nil, ErrCreatingToken
	}

	return token, user, nil
}
