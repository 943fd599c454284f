package dtos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	assert.NoError(t, Validate(RegisterRequestDTO{Username: "ana", Email: "ana@example.com", Password: "password123"}))

	err := Validate(RegisterRequestDTO{Username: "an", Email: "nope", Password: "short"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "Username must be at least 3 characters")
		assert.Contains(t, err.Error(), "Email must be a valid email")
		assert.Contains(t, err.Error(), "Password must be at least 8 characters")
	}
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, Validate(LoginRequestDTO{Email: "a@b.co", Password: "x"}))
	assert.NoError(t, Validate(LoginRequestDTO{Username: "ana", Password: "x"}))
	assert.Error(t, Validate(LoginRequestDTO{Password: "x"}))
	assert.Equal(t, "a@b.co", LoginRequestDTO{Email: "a@b.co", Username: "ana"}.Identifier())
}

func TestValidateChatRequests(t *testing.T) {
	assert.NoError(t, Validate(NewChatRequestDTO{}))
	assert.Error(t, Validate(NewChatRequestDTO{ChatTitle: strings.Repeat("t", 256)}))
	assert.Error(t, Validate(RenameChatRequestDTO{}))
	assert.Error(t, Validate(SendMessageRequestDTO{Message: "hi"}))
	assert.NoError(t, Validate(SendMessageRequestDTO{Message: "hi", SessionID: "abc"}))
}
