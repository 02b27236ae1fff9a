package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator"
	"golang.org/x/crypto/bcrypt"

	"github.com/jo-hoe/cozymind/internal/backend/database"
	"github.com/jo-hoe/cozymind/internal/backend/session"
)

const minPasswordLength = 6

var credentialsValidator = validator.New()

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// SignUp registers a new user and starts a session for them.
func (service *CoreService) SignUp(ctx context.Context, credentials Credentials) (*AuthResult, error) {
	email := normalizeEmail(credentials.Email)
	if err := credentialsValidator.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(credentials.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := service.databaseService.CreateUser(email, hash)
	if errors.Is(err, database.ErrAlreadyExists) {
		return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("user signed up", "user_id", user.ID)
	return service.startSession(ctx, user.ID)
}

// SignIn checks the credentials and starts a session.
func (service *CoreService) SignIn(ctx context.Context, credentials Credentials) (*AuthResult, error) {
	if credentials.Email == "" || credentials.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	user, err := service.databaseService.GetUserByEmail(normalizeEmail(credentials.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
		return nil, ErrUnauthorized
	}
	return service.startSession(ctx, user.ID)
}

func (service *CoreService) SignOut(ctx context.Context, token string) error {
	return service.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user id.
func (service *CoreService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := service.sessions.UserID(ctx, token)
	if errors.Is(err, session.ErrSessionNotFound) {
		return "", ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

// SessionTTLSeconds is the lifetime of session cookies.
func (service *CoreService) SessionTTLSeconds() int {
	return int(service.sessions.TTL().Seconds())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (service *CoreService) startSession(ctx context.Context, userID string) (*AuthResult, error) {
	token, err := service.sessions.Create(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{UserID: userID, Token: token}, nil
}
