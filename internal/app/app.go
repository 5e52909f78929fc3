package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"credmatrix_backend/internal/ai"
	"credmatrix_backend/internal/auth"
	"credmatrix_backend/internal/config"
	"credmatrix_backend/internal/email"
	"credmatrix_backend/internal/handlers"
	"credmatrix_backend/internal/logger"
	"credmatrix_backend/internal/middleware"
	"credmatrix_backend/internal/models"
	"credmatrix_backend/internal/routes"
	"credmatrix_backend/internal/services"
	"credmatrix_backend/internal/storage"
	"credmatrix_backend/internal/validator"
	"credmatrix_backend/internal/workers"
	"credmatrix_backend/internal/ws"
	"credmatrix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// App holds the wired application. New builds it; Start launches the
// background loops.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Router   *gin.Engine
	Hub      *ws.Hub
	Repos    *services.Repositories
	Services *services.ServiceContainer

	memLimiter *middleware.MemoryLimiter
	redis      *redis.Client
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	db, err := OpenDatabase(cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	application, err := New(cfg, db)
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Services.Auth.EnsureAdmin(ctx, db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logger.Fatal("Failed to seed admin user", "error", err)
	}
	application.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

// OpenDatabase connects to postgres and migrates the schema when enabled.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Database migrated", "models", len(models.All()))
	}
	return db, nil
}

// New wires storage, mail, AI, services, handlers and routes.
func New(cfg *config.Config, db *gorm.DB) (*App, error) {
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.NewStorage(storage.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	mailer, err := newMailer(cfg)
	if err != nil {
		return nil, fmt.Errorf("email: %w", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Hub:    ws.NewHub(),
		Repos:  services.NewRepositories(),
	}

	a.Services = services.NewServiceContainer(a.Repos, services.Deps{
		Tokens:     tokens,
		RefreshTTL: cfg.RefreshTokenTTL(),
		Storage:    store,
		Mailer:     mailer,
		Pusher:     a.Hub,
		SkillAI:    newSkillAI(cfg),
		Upload: services.UploadPolicy{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
		Portfolio: services.PortfolioOptions{
			PublicURL:        cfg.Portfolio.PublicURL,
			ViewHistoryLimit: cfg.Portfolio.ViewHistoryLimit,
		},
		UseSkillOracle: cfg.AI.UseSkillOracle,
	})

	a.Router = a.newRouter(tokens)
	return a, nil
}

func (a *App) newRouter(tokens *auth.TokenManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(a.Config.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(a.DB))

	router.GET("/health", a.health)

	deps := routes.Deps{
		Tokens:  tokens,
		Limiter: a.newLimiter(),
		WS:      handlers.NewWSHandler(a.Hub, tokens, a.Config.Server.CORSOrigins),
	}
	if a.Config.Storage.Type == "local" {
		deps.FilesURL = a.Config.Storage.BaseURL
		deps.FilesDir = a.Config.Storage.BasePath
	}

	routes.RegisterRoutes(router, handlers.NewAppHandlers(validator.New(), a.Services), deps)
	return router
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_clients": a.Hub.ClientCount()})
}

// newLimiter returns nil when rate limiting is off. A Redis backend that
// cannot be reached degrades to the in-memory limiter.
func (a *App) newLimiter() middleware.Limiter {
	cfg := a.Config
	if !cfg.RateLimit.Enabled {
		return nil
	}

	if cfg.RateLimit.Backend == "redis" && cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := client.Ping(ctx).Err()
		if err == nil {
			a.redis = client
			logger.Info("Rate limiter initialized", "backend", "redis", "per_minute", cfg.RateLimit.AuthPerMinute)
			return middleware.NewRedisLimiter(client, cfg.RateLimit.AuthPerMinute, time.Minute)
		}
		logger.Warn("Redis unavailable, using in-memory rate limiter", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
	}

	a.memLimiter = middleware.NewMemoryLimiter(cfg.RateLimit.RequestsPerS, cfg.RateLimit.Burst)
	logger.Info("Rate limiter initialized", "backend", "memory", "rps", cfg.RateLimit.RequestsPerS)
	return a.memLimiter
}

// Start runs the hub and the workers until ctx is done.
func (a *App) Start(ctx context.Context) {
	go a.Hub.Run(ctx)

	workers.NewJobWorker(a.DB, a.Repos.Job, time.Hour).Start(ctx)

	opts := workers.MaintenanceOptions{}
	if a.memLimiter != nil {
		opts.Limiter = a.memLimiter
	}
	workers.NewMaintenanceWorker(a.DB, a.Repos.RefreshToken, a.Repos.Notification, opts).Start(ctx)
	logger.Info("Background workers started")
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newMailer(cfg *config.Config) (email.Provider, error) {
	if !cfg.Email.Enabled {
		logger.Warn("Email disabled, messages are dropped")
		return email.NoopProvider{}, nil
	}
	provider, err := email.NewSMTPProvider(email.ConfigFrom(cfg), email.NewTemplateManager())
	if err != nil {
		return nil, err
	}
	return provider, nil
}

// newSkillAI builds the adapter. Without an API key every call uses the
// deterministic fallback.
func newSkillAI(cfg *config.Config) *ai.Adapter {
	if cfg.AI.APIKey == "" {
		logger.Warn("AI API key not set, using fallbacks only")
		return ai.NewAdapter(nil, cfg.AITimeout())
	}

	client := ai.NewHTTPClient(ai.ClientConfig{
		BaseURL:         cfg.AI.BaseURL,
		APIKey:          cfg.AI.APIKey,
		Model:           cfg.AI.Model,
		ClassifierModel: cfg.AI.ClassifierModel,
		ChatModel:       cfg.AI.ChatModel,
		Params: ai.GenerationParams{
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			TopP:        cfg.AI.TopP,
		},
	}, &http.Client{Timeout: cfg.AITimeout()})
	return ai.NewAdapter(client, cfg.AITimeout())
}
