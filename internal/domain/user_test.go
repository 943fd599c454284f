package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPasswordRoundTrip(t *testing.T) {
	u := &User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, u.HashPassword("correct horse"))
	assert.NotEqual(t, "correct horse", u.Password)
	assert.NoError(t, u.ValidatePassword("correct horse"))
	assert.Error(t, u.ValidatePassword("wrong horse"))
}

func TestUserHashPasswordTooShort(t *testing.T) {
	u := &User{}
	assert.Error(t, u.HashPassword("short"))
}

func TestUserIsValid(t *testing.T) {
	assert.NoError(t, (&User{Username: "bob", Email: "b@x.io"}).IsValid())
	assert.Error(t, (&User{Username: "b", Email: "b@x.io"}).IsValid())
	assert.Error(t, (&User{Username: "bob", Email: "nope"}).IsValid())
}

func TestMessageRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.True(t, RoleSystem.Valid())
	assert.False(t, MessageRole("tool").Valid())
}
