package user_services

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

// LockoutService tracks failed logins per identifier in memory and locks the
// identifier once MaxFailedAttempts is reached.
type LockoutService struct {
	attempts    *cache.Cache
	maxAttempts int
	duration    time.Duration
	logger      Logger
}

type lockoutEntry struct {
	failures    int
	lockedUntil time.Time
}

func NewLockoutService(maxAttempts int, duration time.Duration, logger Logger) *LockoutService {
	if maxAttempts < 1 {
		maxAttempts = MaxFailedAttempts
	}
	if duration <= 0 {
		duration = LockoutDuration
	}
	return &LockoutService{
		attempts:    cache.New(duration, 2*duration),
		maxAttempts: maxAttempts,
		duration:    duration,
		logger:      logger,
	}
}

// RecordFailedAttempt counts a failure and reports whether the identifier is
// now locked.
func (s *LockoutService) RecordFailedAttempt(identifier, sourceIP string) bool {
	key := lockoutKey(identifier)
	entry := lockoutEntry{}
	if v, ok := s.attempts.Get(key); ok {
		entry = v.(lockoutEntry)
	}
	entry.failures++

	locked := false
	if entry.failures >= s.maxAttempts {
		entry.lockedUntil = time.Now().Add(s.duration)
		locked = true
		s.logger.Warn("account locked due to excessive failed attempts",
			"identifier", mask(identifier),
			"attempts", entry.failures,
			"locked_until", entry.lockedUntil.Format(time.RFC3339),
			"source_ip", sourceIP)
	} else {
		s.logger.Warn("failed login attempt recorded",
			"identifier", mask(identifier),
			"attempts", entry.failures,
			"max_attempts", s.maxAttempts,
			"source_ip", sourceIP)
	}

	s.attempts.Set(key, entry, s.duration)
	return locked
}

// IsLocked reports whether identifier is locked and for how long.
func (s *LockoutService) IsLocked(identifier string) (bool, time.Duration) {
	v, ok := s.attempts.Get(lockoutKey(identifier))
	if !ok {
		return false, 0
	}
	entry := v.(lockoutEntry)
	remaining := time.Until(entry.lockedUntil)
	if entry.lockedUntil.IsZero() || remaining <= 0 {
		return false, 0
	}
	return true, remaining
}

// Clear forgets failures after a successful login.
func (s *LockoutService) Clear(identifier string) {
	s.attempts.Delete(lockoutKey(identifier))
}

func lockoutKey(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
