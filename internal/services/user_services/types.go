package user_services

import "errors"

// Logger interface for all user services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("too many failed attempts, try again later")
	ErrUserExists         = errors.New("username or email already registered")
)

// ValidationError wraps input problems that should be shown to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// mask keeps the first few characters of an identifier for logs.
func mask(s string) string {
	return s[:min(4, len(s))] + "****"
}
