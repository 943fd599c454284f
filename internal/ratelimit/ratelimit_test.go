package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowDeniesAfterLimit(t *testing.T) {
	rl := NewMemoryRateLimiter(&Config{WindowSize: time.Minute, MaxAttempts: 3, CleanupPeriod: time.Minute})

	for i := 0; i < 3; i++ {
		ok, info := rl.Allow("1.2.3.4")
		assert.True(t, ok)
		assert.Equal(t, 2-i, info.Remaining)
		assert.Equal(t, 3, info.Limit)
	}

	ok, info := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.False(t, info.Banned)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok)
}

func TestAllowBans(t *testing.T) {
	rl := NewMemoryRateLimiter(&Config{WindowSize: time.Minute, MaxAttempts: 1, CleanupPeriod: time.Minute, BanDuration: time.Hour})

	ok, _ := rl.Allow("x")
	assert.True(t, ok)
	ok, info := rl.Allow("x")
	assert.False(t, ok)
	assert.True(t, info.Banned)

	ok, info = rl.Allow("x")
	assert.False(t, ok)
	assert.True(t, info.Banned)
	assert.LessOrEqual(t, info.RetryAfter, time.Hour)
}

func TestWindowResets(t *testing.T) {
	rl := NewMemoryRateLimiter(&Config{WindowSize: 30 * time.Millisecond, MaxAttempts: 1, CleanupPeriod: time.Minute})

	ok, _ := rl.Allow("x")
	assert.True(t, ok)
	ok, _ = rl.Allow("x")
	assert.False(t, ok)

	time.Sleep(60 * time.Millisecond)
	ok, _ = rl.Allow("x")
	assert.True(t, ok)
}

func TestRecordSuccessResets(t *testing.T) {
	rl := NewMemoryRateLimiter(&Config{WindowSize: time.Minute, MaxAttempts: 1, CleanupPeriod: time.Minute})
	rl.Allow("x")
	rl.RecordSuccess("x")
	ok, _ := rl.Allow("x")
	assert.True(t, ok)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", GetClientIP(r))

	r.Header.Set("X-Real-IP", "9.9.9.9")
	assert.Equal(t, "9.9.9.9", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", " 1.1.1.1 , 2.2.2.2")
	assert.Equal(t, "1.1.1.1", GetClientIP(r))
}
