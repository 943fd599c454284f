// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/iyunix/go-sqlchat/internal/auth"
	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/repository/user"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey []byte
	tokenTTL     time.Duration
	lockout      *LockoutService
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, tokenTTL time.Duration, lockout *LockoutService, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		tokenTTL:     tokenTTL,
		lockout:      lockout,
		logger:       logger,
	}
}

// Register creates an account. Username and email must both be unused.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateRegistrationInput(username, email, password); err != nil {
		s.logger.Warn("registration validation failed", "username", mask(username), "error", err.Error())
		return nil, err
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, username, email)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - user exists", "username", mask(username), "existing_user_id", existing.ID)
		return nil, ErrUserExists
	}
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	u := &domain.User{Username: username, Email: email}
	if err := u.HashPassword(password); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		s.logger.Error("user creation failed", "error", err, "username", mask(username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully", "username", mask(username), "user_id", created.ID)
	return created, nil
}

// Login authenticates by username or email and returns a signed token.
func (s *AuthService) Login(ctx context.Context, identifier, password, sourceIP string) (*domain.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, "", &ValidationError{Msg: "username and password are required"}
	}

	if locked, remaining := s.lockout.IsLocked(identifier); locked {
		s.logger.Warn("login attempt on locked account", "identifier", mask(identifier), "remaining", remaining.String())
		return nil, "", ErrAccountLocked
	}

	u, err := s.userRepo.FindByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, "", fmt.Errorf("failed to load user: %w", err)
		}
		s.lockout.RecordFailedAttempt(identifier, sourceIP)
		s.logger.Warn("login failed - user not found", "identifier", mask(identifier))
		return nil, "", ErrInvalidCredentials
	}

	if err := u.ValidatePassword(password); err != nil {
		s.lockout.RecordFailedAttempt(identifier, sourceIP)
		s.logger.Warn("login failed - invalid password", "identifier", mask(identifier), "user_id", u.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, u.Username, s.jwtSecretKey, s.tokenTTL)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", u.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.lockout.Clear(identifier)
	s.logger.Info("login successful", "identifier", mask(identifier), "user_id", u.ID)
	return u, token, nil
}

// ValidateJWTToken validates a JWT token and returns the user ID
func (s *AuthService) ValidateJWTToken(tokenString string) (uint, error) {
	id, err := auth.ValidateToken(tokenString, s.jwtSecretKey)
	if err != nil {
		s.logger.Debug("JWT token validation failed", "error", err)
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	return id, nil
}

// GetUser returns the profile for an authenticated user.
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func validateRegistrationInput(username, email, password string) error {
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Msg: "username must be 3-50 characters, alphanumeric or underscore"}
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return &ValidationError{Msg: "a valid email is required"}
	}
	if len(password) < 8 {
		return &ValidationError{Msg: "password must be at least 8 characters"}
	}
	return nil
}
