package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-key-with-enough-length")

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateJWT(42, "ana", secret, time.Hour)
	require.NoError(t, err)

	id, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestGenerateRejectsBadInput(t *testing.T) {
	_, err := GenerateJWT(0, "ana", secret, time.Hour)
	assert.Error(t, err)
	_, err = GenerateJWT(1, "ana", nil, time.Hour)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, "ana", secret, time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(token, []byte("another-secret"))
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ValidateToken(token, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsMissingExpiry(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ValidateToken(token, secret)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = ValidateToken("not.a.token", secret)
	assert.Error(t, err)
}
