package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/handler"
	"portal/internal/middleware"
	"portal/internal/repository/postgres"
	"portal/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"schema", cfg.DBSchema,
		"password_scheme", cfg.PasswordScheme,
	)

	// Token codec for issuing and verifying session tokens
	codec, err := auth.NewTokenCodec([]byte(cfg.JWTSecret), logger)
	if err != nil {
		log.Fatalf("Failed to create token codec: %v", err)
	}

	hasher, err := auth.NewPasswordHasher(cfg.PasswordScheme)
	if err != nil {
		log.Fatalf("Failed to create password hasher: %v", err)
	}
	if cfg.PasswordScheme == config.PasswordSchemeLegacySHA256 {
		logger.Warn("legacy password scheme enabled: new hashes are unsalted SHA-256")
	}
	if cfg.SignupAllowRole {
		logger.Warn("signup may request elevated roles (SIGNUP_ALLOW_ROLE=true)")
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, cfg.DBSchema)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, cfg.DatabaseURL, cfg.DBSchema, logger); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(),
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	portalRepo := postgres.NewPortalRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	permRepo := postgres.NewFolderPermissionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Create services
	authService := service.NewAuthService(userRepo, txManager, hasher, codec,
		service.AuthPolicy{AllowSignupRole: cfg.SignupAllowRole}, logger)
	portalService := service.NewPortalService(portalRepo, cfg.PortalCacheSize, cfg.PortalCacheTTL, logger)
	resolver := service.NewPermissionResolver(folderRepo, permRepo, portalRepo, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewAuthHandler(authService, logger),
		handler.NewPortalHandler(portalService, resolver, logger),
		handler.NewHealthHandler(pool, logger),
	)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Logging → Auth → Metrics → Routes
	// Metrics sits next to the mux so it sees the matched route pattern.
	h = middleware.Metrics()(h)
	h = middleware.Authenticate(codec, logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Client-Info", "Apikey"},
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
