// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/iyunix/go-sqlchat/internal/ratelimit"
)

// KeyFunc picks the identifier a request is counted under.
type KeyFunc func(r *http.Request) string

// KeyByIP counts requests per client IP.
func KeyByIP(r *http.Request) string {
	return ratelimit.GetClientIP(r)
}

// KeyByUser counts requests per authenticated user, falling back to the IP.
// It must run after the JWT middleware.
func KeyByUser(r *http.Request) string {
	if id, ok := UserIDFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", id)
	}
	return ratelimit.GetClientIP(r)
}

// RateLimitMiddleware creates a rate limiting middleware
func RateLimitMiddleware(limiter *ratelimit.MemoryRateLimiter, name string, key KeyFunc, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := name + ":" + key(r)
			allowed, info := limiter.Allow(identifier)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

			if !allowed {
				logger.Warn("rate limited", "limiter", name, "identifier", identifier, "banned", info.Banned)

				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success":    false,
					"message":    "Too many requests. Please try again later.",
					"retryAfter": int(info.RetryAfter.Seconds()),
					"banned":     info.Banned,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthSuccessMiddleware clears the IP's counter after a 2xx auth response.
func AuthSuccessMiddleware(limiter *ratelimit.MemoryRateLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			if wrapper.statusCode >= 200 && wrapper.statusCode < 300 {
				limiter.RecordSuccess(name + ":" + KeyByIP(r))
			}
		})
	}
}
