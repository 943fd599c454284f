// File: cmd/server/app.go
package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/config"
	"github.com/iyunix/go-sqlchat/internal/handlers"
	"github.com/iyunix/go-sqlchat/internal/middleware"
	"github.com/iyunix/go-sqlchat/internal/ratelimit"
	"github.com/iyunix/go-sqlchat/internal/repository"
	"github.com/iyunix/go-sqlchat/internal/repository/user"
	"github.com/iyunix/go-sqlchat/internal/services"
	"github.com/iyunix/go-sqlchat/internal/services/ai"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
	"github.com/iyunix/go-sqlchat/internal/services/sandbox"
	"github.com/iyunix/go-sqlchat/internal/services/user_services"
)

// Application aggregates all services and handlers
type Application struct {
	Config      *config.Config
	Logger      *services.ProductionLogger
	DB          *gorm.DB
	ChatService *chat.Service
	Sandbox     *sandbox.Service
	AuthService *user_services.AuthService
	AuthHandler *handlers.AuthHandler
	ChatHandler *handlers.ChatHandler
}

func ProvideLogger(cfg *config.Config) *services.ProductionLogger {
	return services.NewProductionLogger(services.LoggerOptions{
		Service:     "go_sqlchat",
		Level:       cfg.Log.Level,
		Environment: cfg.Environment,
		FilePath:    cfg.Log.File,
	})
}

func ProvideDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Debug)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ProvideAIConfig(cfg *config.Config) *ai.Config {
	aiConfig := ai.DefaultConfig()
	aiConfig.Provider = cfg.AI.Provider
	aiConfig.APIKey = cfg.AI.APIKey
	aiConfig.BaseURL = cfg.AI.BaseURL
	aiConfig.Model = cfg.AI.Model
	aiConfig.Timeout = cfg.AI.Timeout
	aiConfig.MaxRetries = cfg.AI.MaxRetries
	aiConfig.MaxConcurrency = cfg.AI.MaxConcurrency
	aiConfig.Temperature = cfg.AI.Temperature
	return aiConfig
}

func ProvideChatConfig(cfg *config.Config) *chat.Config {
	chatConfig := chat.DefaultConfig()
	chatConfig.RecentQueryLimit = cfg.Chat.RecentQueries
	chatConfig.RecentMessageLimit = cfg.Chat.RecentMessages
	chatConfig.MinSchemaSQLLength = cfg.Chat.MinSchemaSQLLength
	chatConfig.MinQuerySQLLength = cfg.Chat.MinQuerySQLLength
	chatConfig.TitleMaxLength = cfg.Chat.TitleMaxLength
	chatConfig.MaxMessageLength = cfg.Chat.MaxMessageLength
	chatConfig.Timeout = cfg.Chat.Timeout
	return chatConfig
}

// InitializeApplication builds every dependency explicitly, in order.
func InitializeApplication(ctx context.Context, cfg *config.Config, logger *services.ProductionLogger) (*Application, error) {
	db, err := ProvideDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	store := repository.NewGormStore(db)

	gateway, err := ai.NewGateway(ctx, ProvideAIConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("AI gateway: %w", err)
	}

	chatService, err := chat.NewService(store, gateway, chat.NewMarkdownRenderer(), ProvideChatConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("chat service: %w", err)
	}

	sandboxService, err := sandbox.Open(sandbox.Config{
		Driver:  cfg.Sandbox.Driver,
		DSN:     cfg.Sandbox.DSN,
		MaxRows: cfg.Sandbox.MaxRows,
		Timeout: cfg.Sandbox.Timeout,
	}, store, logger)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}

	lockout := user_services.NewLockoutService(cfg.Login.MaxAttempts, cfg.Login.LockoutDuration, logger)
	authService := user_services.NewAuthService(user.NewGormUserRepository(db), cfg.JWTSecretKey, cfg.TokenTTL, lockout, logger)

	return &Application{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		ChatService: chatService,
		Sandbox:     sandboxService,
		AuthService: authService,
		AuthHandler: handlers.NewAuthHandler(authService, cfg.TokenTTL, logger),
		ChatHandler: handlers.NewChatHandler(chatService, sandboxService, logger),
	}, nil
}

// Router mounts every route with its middleware.
func (app *Application) Router() *mux.Router {
	cfg := app.Config

	authLimiter := ratelimit.NewMemoryRateLimiter(&ratelimit.Config{
		WindowSize:    cfg.RateLimit.AuthWindow,
		MaxAttempts:   cfg.RateLimit.AuthRequests,
		CleanupPeriod: 2 * cfg.RateLimit.AuthWindow,
		BanDuration:   ratelimit.DefaultAuthConfig().BanDuration,
	})
	messageLimiter := ratelimit.NewMemoryRateLimiter(&ratelimit.Config{
		WindowSize:    cfg.RateLimit.MessageWindow,
		MaxAttempts:   cfg.RateLimit.MessageRequests,
		CleanupPeriod: 2 * cfg.RateLimit.MessageWindow,
	})

	authLimit := func(next http.Handler) http.Handler {
		limited := middleware.RateLimitMiddleware(authLimiter, "auth", middleware.KeyByIP, app.Logger)
		return limited(middleware.AuthSuccessMiddleware(authLimiter, "auth")(next))
	}
	messageLimit := middleware.RateLimitMiddleware(messageLimiter, "message", middleware.KeyByUser, app.Logger)

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(app.Logger))
	r.Use(middleware.LoggingMiddleware(app.Logger))

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	handlers.RegisterAuthRoutes(api, app.AuthHandler, authLimit)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.NewJWTMiddleware(app.AuthService, app.Logger))
	handlers.RegisterChatRoutes(protected, app.ChatHandler, messageLimit)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
