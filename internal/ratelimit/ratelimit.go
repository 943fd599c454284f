// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often expired entries are purged
	BanDuration   time.Duration // How long to block after exceeding limit; zero blocks until the window ends
}

// DefaultAuthConfig returns defaults for the login and register endpoints.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   10,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// DefaultMessageConfig returns defaults for model-backed chat messages.
func DefaultMessageConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   20,
		CleanupPeriod: 5 * time.Minute,
	}
}

// attemptRecord tracks attempts for an IP/identifier
type attemptRecord struct {
	Count     int
	FirstSeen time.Time
	BannedAt  *time.Time
}

// MemoryRateLimiter is a fixed-window limiter whose records expire out of a
// go-cache store.
type MemoryRateLimiter struct {
	config   *Config
	attempts *cache.Cache
	mu       sync.Mutex
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		config:   config,
		attempts: cache.New(config.WindowSize, config.CleanupPeriod),
	}
}

// Allow counts a hit for identifier and reports whether it is within limits.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *RateLimitInfo) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	var record *attemptRecord
	if v, ok := rl.attempts.Get(identifier); ok {
		record = v.(*attemptRecord)
	}

	if record != nil && record.BannedAt != nil {
		remainingBan := rl.config.BanDuration - now.Sub(*record.BannedAt)
		if remainingBan > 0 {
			return false, &RateLimitInfo{
				Allowed:    false,
				Limit:      rl.config.MaxAttempts,
				ResetTime:  record.BannedAt.Add(rl.config.BanDuration),
				RetryAfter: remainingBan,
				Banned:     true,
			}
		}
		record = nil
	}

	if record == nil || now.Sub(record.FirstSeen) > rl.config.WindowSize {
		record = &attemptRecord{FirstSeen: now}
	}
	record.Count++

	if record.Count > rl.config.MaxAttempts {
		info := &RateLimitInfo{Allowed: false, Limit: rl.config.MaxAttempts}
		if rl.config.BanDuration > 0 {
			banTime := now
			record.BannedAt = &banTime
			info.Banned = true
			info.ResetTime = now.Add(rl.config.BanDuration)
			info.RetryAfter = rl.config.BanDuration
			rl.attempts.Set(identifier, record, rl.config.BanDuration)
		} else {
			info.ResetTime = record.FirstSeen.Add(rl.config.WindowSize)
			info.RetryAfter = info.ResetTime.Sub(now)
			rl.attempts.Set(identifier, record, info.RetryAfter)
		}
		return false, info
	}

	resetTime := record.FirstSeen.Add(rl.config.WindowSize)
	rl.attempts.Set(identifier, record, resetTime.Sub(now))
	return true, &RateLimitInfo{
		Allowed:   true,
		Limit:     rl.config.MaxAttempts,
		Remaining: rl.config.MaxAttempts - record.Count,
		ResetTime: resetTime,
	}
}

// RecordSuccess records a successful authentication (resets attempts)
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
	rl.attempts.Delete(identifier)
}

// RateLimitInfo contains information about rate limit status
type RateLimitInfo struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// parseFirstIP extracts the first IP from a comma-separated list
func parseFirstIP(forwarded string) string {
	first, _, _ := strings.Cut(forwarded, ",")
	return strings.TrimSpace(first)
}
