// Package server provides the HTTP server for the Shopfront API.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server package follows a structured initialization approach with dependency injection
// and proper lifecycle management: the database is migrated and seeded, optional Redis
// and queue connections are opened, and every service is wired before the router is built.
// Shutdown drains in-flight requests and pending email deliveries before closing connections.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/cache"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/handlers"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/jobs"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/repository"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/service"
	"github.com/yasinhessnawi1/Shopfront_Backend/migrations"
	"github.com/yasinhessnawi1/Shopfront_Backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// Auth manages signup, signin, refresh and the current user
	Auth *handlers.AuthHandler

	// PasswordReset manages the forgot/reset password flow
	PasswordReset *handlers.PasswordResetHandler

	// Product manages the admin catalog and the public product routes
	Product *handlers.ProductHandler

	// Cart manages the shopping cart of the current user
	Cart *handlers.CartHandler

	// Order manages checkout and the order lifecycle
	Order *handlers.OrderHandler

	// Generic serves health and version
	Generic *handlers.GenericHandler
}

// AuthProviders contains all authentication providers for the application.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// Hasher derives and verifies password hashes
	Hasher *auth.PasswordHasher
}

// Server represents the Shopfront API server.
// It encapsulates all server components and handles server lifecycle management,
// including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	authProviders *AuthProviders
	authenticator *auth.Authenticator

	// redis is nil when no Redis address is configured or it was unreachable
	redis *redis.Client
	queue *jobs.Client

	emailService *service.EmailService

	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// It connects to the database, applies migrations, seeds initial data, wires the
// services and handlers, then sets up the HTTP routes.
//
// Parameters:
//   - ctx: Context for the startup work (connections, migrations, seeding)
//   - cfg: Application configuration
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupComponents(ctx); err != nil {
		s.closeConnections()
		return nil, err
	}

	return s, nil
}

// setupComponents wires everything above the database and builds the router.
// It expects Config, Db and, optionally, authProviders to be set.
func (s *Server) setupComponents(ctx context.Context) error {
	if s.authProviders == nil {
		if err := s.setupAuthProviders(); err != nil {
			return fmt.Errorf("failed to set up auth providers: %w", err)
		}
	}

	s.setupRedis(ctx)
	s.setupQueue()

	if err := s.setupServices(ctx); err != nil {
		return fmt.Errorf("failed to set up services: %w", err)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.Config.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  s.Config.Server.ReadTimeout,
		WriteTimeout: s.Config.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return nil
}

// setupAuthProviders initializes the JWT service and the password hasher.
func (s *Server) setupAuthProviders() error {
	jwtService, err := auth.NewJWTService(&s.Config.JWT)
	if err != nil {
		return err
	}

	hasher, err := auth.NewPasswordHasher(auth.ConfigFromAppConfig(s.Config))
	if err != nil {
		return fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	s.authProviders = &AuthProviders{
		JWTService: jwtService,
		Hasher:     hasher,
	}

	return nil
}

// setupDatabase initializes the database connection, runs migrations and seeds
// the initial data.
func (s *Server) setupDatabase(ctx context.Context) error {
	db, err := database.Connect(ctx, s.Config)
	if err != nil {
		return err
	}
	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	seeder := scripts.NewSeeder(db, s.Config, s.authProviders.Hasher)
	if err := seeder.SeedDatabase(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupRedis connects the catalog cache. An unreachable Redis is not fatal:
// catalog reads then go straight to the database.
func (s *Server) setupRedis(ctx context.Context) {
	if !s.Config.Redis.CacheEnabled() {
		log.Info().Msg("Redis not configured, catalog cache disabled")
		return
	}

	client, err := cache.NewRedisClient(ctx, &s.Config.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, catalog cache disabled")
		return
	}

	s.redis = client
	log.Info().Str("addr", s.Config.Redis.Addr).Msg("Catalog cache enabled")
}

// setupQueue opens the asynq client when queued email delivery is enabled.
func (s *Server) setupQueue() {
	if !s.Config.Queue.Enabled {
		return
	}
	s.queue = jobs.NewClient(&s.Config.Redis)
	log.Info().Msg("Queued email delivery enabled")
}

// setupServices creates the repositories, services and handlers.
func (s *Server) setupServices(ctx context.Context) error {
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return fmt.Errorf("JWT service not initialized")
	}

	sender, err := mail.NewSender(ctx, &s.Config.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	store := repository.NewStore(s.Db)

	// Interfaces stay nil, not typed-nil pointers, when the optional backends are off.
	var catalogCache service.CatalogCache
	if s.redis != nil {
		catalogCache = cache.NewCatalogCache(s.redis, s.Config.Redis.CatalogTTL)
	}
	var queue service.EmailQueue
	if s.queue != nil {
		queue = s.queue
	}

	s.emailService = service.NewEmailService(sender, queue, service.EmailServiceConfig{
		ResetURL:    s.Config.PasswordReset.URL,
		ResetTTL:    s.Config.PasswordReset.TTL,
		FromName:    s.Config.Email.FromName,
		SendTimeout: s.Config.Email.SendTimeout,
	})

	jwtService := s.authProviders.JWTService
	hasher := s.authProviders.Hasher

	authService := service.NewAuthService(store, store.Users, hasher, jwtService, &s.Config.Auth)
	resetService := service.NewPasswordResetService(store, store.ResetTokens, hasher, s.emailService,
		service.PasswordResetConfig{
			TTL:               s.Config.PasswordReset.TTL,
			SingleActiveToken: s.Config.PasswordReset.SingleActiveToken,
		})
	catalogService := service.NewCatalogService(store, store.Products, catalogCache)
	cartService := service.NewCartService(store, store.Carts)
	orderService := service.NewOrderService(store, store.Orders, catalogCache)

	s.authenticator = auth.NewAuthenticator(jwtService, store.Users)

	generic := handlers.NewGenericHandler(&s.Config.App, s.Db.HealthCheck)
	if s.redis != nil {
		generic.AddCheck("redis", func(ctx context.Context) error {
			return s.redis.Ping(ctx).Err()
		})
	}

	s.Handlers = &Handlers{
		Auth:          handlers.NewAuthHandler(authService),
		PasswordReset: handlers.NewPasswordResetHandler(resetService),
		Product:       handlers.NewProductHandler(catalogService),
		Cart:          handlers.NewCartHandler(cartService),
		Order:         handlers.NewOrderHandler(orderService),
		Generic:       generic,
	}

	return nil
}

// Start starts the HTTP server and sets up signal handling for graceful shutdown.
// It blocks until the server fails or a shutdown signal is received.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		s.closeConnections()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server. In-flight requests complete and
// detached email sends finish before the queue, Redis and database connections close.
//
// Parameters:
//   - ctx: Context with timeout for the shutdown operation
//
// Returns:
//   - An error if the HTTP server does not stop within the context timeout
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	if s.emailService != nil {
		s.emailService.Wait()
	}

	s.closeConnections()
	return nil
}

// closeConnections releases the queue, Redis and database connections.
func (s *Server) closeConnections() {
	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
		s.queue = nil
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
		s.redis = nil
	}

	if s.Db != nil {
		s.Db.Close()
		s.Db = nil
		log.Info().Msg("Database connection closed")
	}
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}
