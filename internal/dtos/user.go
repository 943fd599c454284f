// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
type UserResponseDTO struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// RegisterRequestDTO represents the expected payload to create a new user.
type RegisterRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequestDTO accepts either an email or a username.
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required_without=Username,omitempty,max=255"`
	Username string `json:"username" validate:"required_without=Email,omitempty,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// Identifier is the email when given, else the username.
func (d LoginRequestDTO) Identifier() string {
	if d.Email != "" {
		return d.Email
	}
	return d.Username
}

// LoginResponseDTO represents the login response.
type LoginResponseDTO struct {
	Success bool            `json:"success"`
	User    UserResponseDTO `json:"user"`
	Token   string          `json:"token"`
}

func ToUserResponse(u *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
