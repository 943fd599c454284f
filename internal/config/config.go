// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	ServerPort  string `yaml:"server_port"`

	JWTSecretKey string        `yaml:"-"`
	TokenTTL     time.Duration `yaml:"token_ttl"`

	Database  DatabaseConfig  `yaml:"database"`
	AI        AIConfig        `yaml:"ai"`
	Chat      ChatConfig      `yaml:"chat"`
	Sandbox   SandboxConfig   `yaml:"sandbox"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Login     LoginConfig     `yaml:"login"`
	Log       LogConfig       `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

type AIConfig struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"-"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	MaxConcurrency int64         `yaml:"max_concurrency"`
	Temperature    float32       `yaml:"temperature"`
}

type ChatConfig struct {
	RecentQueries      int           `yaml:"recent_queries"`
	RecentMessages     int           `yaml:"recent_messages"`
	MinSchemaSQLLength int           `yaml:"min_schema_sql"`
	MinQuerySQLLength  int           `yaml:"min_query_sql"`
	TitleMaxLength     int           `yaml:"title_max"`
	MaxMessageLength   int           `yaml:"max_message_length"`
	Timeout            time.Duration `yaml:"timeout"`
}

// SandboxConfig points at the scratch databases generated SQL may run
// against. For sqlite the DSN is a directory (one file per chat) or
// ":memory:"; for postgres every chat gets its own schema. An empty DSN
// disables execution.
type SandboxConfig struct {
	Driver  string        `yaml:"driver"`
	DSN     string        `yaml:"dsn"`
	MaxRows int           `yaml:"max_rows"`
	Timeout time.Duration `yaml:"timeout"`
}

type RateLimitConfig struct {
	AuthRequests    int           `yaml:"auth_requests"`
	AuthWindow      time.Duration `yaml:"auth_window"`
	MessageRequests int           `yaml:"message_requests"`
	MessageWindow   time.Duration `yaml:"message_window"`
}

type LoginConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	LockoutDuration time.Duration `yaml:"lockout_duration"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		ServerPort: "8080",
		TokenTTL:   24 * time.Hour,
		Database:   DatabaseConfig{Driver: "sqlite", DSN: "sqlchat.db"},
		AI: AIConfig{
			Provider:       "gemini",
			Model:          "gemini-2.5-flash",
			Timeout:        60 * time.Second,
			MaxRetries:     0,
			MaxConcurrency: 8,
			Temperature:    0.2,
		},
		Chat: ChatConfig{
			RecentQueries:      5,
			RecentMessages:     10,
			MinSchemaSQLLength: 10,
			MinQuerySQLLength:  5,
			TitleMaxLength:     50,
			MaxMessageLength:   10000,
			Timeout:            90 * time.Second,
		},
		Sandbox: SandboxConfig{Driver: "sqlite", MaxRows: 100, Timeout: 10 * time.Second},
		RateLimit: RateLimitConfig{
			AuthRequests:    10,
			AuthWindow:      time.Minute,
			MessageRequests: 20,
			MessageWindow:   time.Minute,
		},
		Login: LoginConfig{MaxAttempts: 5, LockoutDuration: 15 * time.Minute},
		Log:   LogConfig{Level: "INFO"},
	}
}

// Load reads configuration from environment variables or .env file. Values
// come from Defaults, then the YAML file named by CONFIG_FILE, then the
// environment.
func Load() (*Config, error) {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENV", c.Environment)
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.JWTSecretKey = getEnv("JWT_SECRET_KEY", c.JWTSecretKey)
	c.TokenTTL = getEnvAsDuration("JWT_TTL", c.TokenTTL)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_DSN", c.Database.DSN)
	c.Database.Debug = getEnvAsBool("DB_DEBUG", c.Database.Debug)

	c.AI.Provider = getEnv("AI_PROVIDER", c.AI.Provider)
	c.AI.APIKey = getEnv("AI_API_KEY", c.AI.APIKey)
	c.AI.BaseURL = getEnv("AI_BASE_URL", c.AI.BaseURL)
	c.AI.Model = getEnv("AI_MODEL", c.AI.Model)
	c.AI.Timeout = getEnvAsDuration("AI_TIMEOUT", c.AI.Timeout)
	c.AI.MaxRetries = getEnvAsInt("AI_MAX_RETRIES", c.AI.MaxRetries)
	c.AI.MaxConcurrency = int64(getEnvAsInt("AI_MAX_CONCURRENCY", int(c.AI.MaxConcurrency)))

	c.Chat.RecentQueries = getEnvAsInt("CHAT_RECENT_QUERIES", c.Chat.RecentQueries)
	c.Chat.RecentMessages = getEnvAsInt("CHAT_RECENT_MESSAGES", c.Chat.RecentMessages)
	c.Chat.MinSchemaSQLLength = getEnvAsInt("CHAT_MIN_SCHEMA_SQL", c.Chat.MinSchemaSQLLength)
	c.Chat.MinQuerySQLLength = getEnvAsInt("CHAT_MIN_QUERY_SQL", c.Chat.MinQuerySQLLength)
	c.Chat.TitleMaxLength = getEnvAsInt("CHAT_TITLE_MAX", c.Chat.TitleMaxLength)
	c.Chat.MaxMessageLength = getEnvAsInt("CHAT_MAX_MESSAGE_LENGTH", c.Chat.MaxMessageLength)
	c.Chat.Timeout = getEnvAsDuration("CHAT_TIMEOUT", c.Chat.Timeout)

	c.Sandbox.Driver = getEnv("SANDBOX_DRIVER", c.Sandbox.Driver)
	c.Sandbox.DSN = getEnv("SANDBOX_DSN", c.Sandbox.DSN)
	c.Sandbox.MaxRows = getEnvAsInt("SANDBOX_MAX_ROWS", c.Sandbox.MaxRows)
	c.Sandbox.Timeout = getEnvAsDuration("SANDBOX_TIMEOUT", c.Sandbox.Timeout)

	c.RateLimit.AuthRequests = getEnvAsInt("RATE_LIMIT_AUTH_REQUESTS", c.RateLimit.AuthRequests)
	c.RateLimit.AuthWindow = getEnvAsDuration("RATE_LIMIT_AUTH_WINDOW", c.RateLimit.AuthWindow)
	c.RateLimit.MessageRequests = getEnvAsInt("RATE_LIMIT_MESSAGE_REQUESTS", c.RateLimit.MessageRequests)
	c.RateLimit.MessageWindow = getEnvAsDuration("RATE_LIMIT_MESSAGE_WINDOW", c.RateLimit.MessageWindow)

	c.Login.MaxAttempts = getEnvAsInt("LOGIN_MAX_ATTEMPTS", c.Login.MaxAttempts)
	c.Login.LockoutDuration = getEnvAsDuration("LOGIN_LOCKOUT_DURATION", c.Login.LockoutDuration)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks ranges everywhere and required secrets in production.
func (c *Config) Validate() error {
	if c.IsProduction() {
		missing := []string{}
		if c.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if c.AI.APIKey == "" {
			missing = append(missing, "AI_API_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required production environment variables: %v", missing)
		}
	}

	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Chat.RecentQueries < 1 || c.Chat.RecentMessages < 1 {
		return fmt.Errorf("chat retention limits must be positive")
	}
	if c.Sandbox.MaxRows < 1 {
		return fmt.Errorf("SANDBOX_MAX_ROWS must be positive")
	}
	if c.RateLimit.AuthRequests < 1 || c.RateLimit.MessageRequests < 1 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.Login.MaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return d
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return b
}
