// File: internal/auth/jwt.go
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated user on top of the registered claims.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token whose subject is userID.
func GenerateJWT(userID uint, username string, secretKey []byte, ttl time.Duration) (string, error) {
	if userID == 0 {
		return "", errors.New("user ID cannot be zero")
	}
	if len(secretKey) == 0 {
		return "", errors.New("secret key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ValidateToken checks the signature and expiry and returns the user ID.
func ValidateToken(tokenString string, secretKey []byte) (uint, error) {
	if tokenString == "" {
		return 0, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
