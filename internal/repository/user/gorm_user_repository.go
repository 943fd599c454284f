// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.validateUserInput(user); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", strings.TrimSpace(username), normalizeEmail(email)).
		First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) validateUserInput(user *domain.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.IsValid(); err != nil {
		return err
	}
	if user.Password == "" {
		return errors.New("password hash is required")
	}
	return nil
}

func (r *gormUserRepository) handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error finding user: %v", err)
		return nil, errors.New("database error finding user")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
