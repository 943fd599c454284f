// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

// Config holds the chat retention policy and reply thresholds.
type Config struct {
	RecentQueryLimit   int // queries folded into the prompt
	RecentMessageLimit int // messages replayed as history

	MinSchemaSQLLength int // schema SQL must be longer than this to be stored
	MinQuerySQLLength  int // query SQL must be longer than this to be stored

	TitleMaxLength   int // auto-title length before "..." is appended
	MaxMessageLength int

	// Timeout bounds one SendMessage call. Zero leaves it to the gateway.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.RecentQueryLimit < 1 {
		return fmt.Errorf("recent_query_limit must be positive")
	}
	if c.RecentMessageLimit < 1 {
		return fmt.Errorf("recent_message_limit must be positive")
	}
	if c.MinSchemaSQLLength < 0 || c.MinQuerySQLLength < 0 {
		return fmt.Errorf("minimum SQL lengths cannot be negative")
	}
	if c.TitleMaxLength < 1 {
		return fmt.Errorf("title_max_length must be positive")
	}
	if c.MaxMessageLength < 1 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		RecentQueryLimit:   5,
		RecentMessageLimit: 10,
		MinSchemaSQLLength: 10,
		MinQuerySQLLength:  5,
		TitleMaxLength:     50,
		MaxMessageLength:   10000,
	}
}
