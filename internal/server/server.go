// Package server wires the application together: database, services,
// handlers, middleware, and routes, plus graceful startup and shutdown.
//
// This is the composition root — every dependency is assembled here and
// nowhere else. Each layer receives only what it needs: services get
// repository interfaces, handlers get services, and nothing below the
// handler layer knows HTTP exists.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/video-catalog/internal/auth"
	"github.com/sakif/video-catalog/internal/handler"
	"github.com/sakif/video-catalog/internal/middleware"
	sqliteRepo "github.com/sakif/video-catalog/internal/repository/sqlite"
	"github.com/sakif/video-catalog/internal/service"
	"github.com/sakif/video-catalog/internal/youtube"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port   int
	DBPath string

	JWTSecret string

	YouTubeAPIKey string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route tree.
//
// ROUTE STRUCTURE:
//
//	POST   /auth/register               → create a password account
//	POST   /auth/login                  → email+password login
//	POST   /auth/logout                 → clear the session cookie
//	GET    /auth/google/login           → start the Google OAuth flow
//	GET    /auth/google/callback        → finish the Google OAuth flow
//
//	GET    /api/me                      → current user          (auth)
//	CRUD   /api/categories[/{id}]       → keyword categories    (auth)
//	CRUD   /api/videos[/{id}]           → cataloged videos      (auth)
//	POST   /api/videos/import           → import one video      (auth)
//	POST   /api/videos/import/channel   → import a channel      (auth)
func (s *Server) setupRoutes() error {
	// Global middleware, in execution order: request IDs for tracing,
	// real client IPs behind proxies, request logging, panic recovery.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	google := auth.NewGoogleProvider(
		s.config.GoogleClientID,
		s.config.GoogleClientSecret,
		s.config.GoogleCallbackURL,
	)

	platform := youtube.New(s.config.YouTubeAPIKey, "")

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	categoryService := service.NewCategoryService(s.db.Categories(), s.logger)
	videoService := service.NewVideoService(s.db.Videos(), s.db.Categories(), s.logger)
	importService := service.NewImportService(platform, videoService, s.logger)

	authHandler := handler.NewAuthHandler(authService, google, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger)
	videoHandler := handler.NewVideoHandler(videoService, s.logger)
	importHandler := handler.NewImportHandler(importService, s.logger)

	// Public auth routes
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/google/login", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
	})

	// Everything under /api requires a valid session
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)

		r.Get("/categories", categoryHandler.HandleList)
		r.Post("/categories", categoryHandler.HandleCreate)
		r.Get("/categories/{id}", categoryHandler.HandleGet)
		r.Put("/categories/{id}", categoryHandler.HandleUpdate)
		r.Delete("/categories/{id}", categoryHandler.HandleDelete)

		r.Get("/videos", videoHandler.HandleList)
		r.Post("/videos", videoHandler.HandleCreate)
		// Import routes must be registered before /videos/{id} would
		// otherwise swallow "import" as an id — chi routes static
		// segments ahead of parameters, but being explicit here keeps
		// the intent visible.
		r.Post("/videos/import", importHandler.HandleImportVideo)
		r.Post("/videos/import/channel", importHandler.HandleImportChannel)
		r.Get("/videos/{id}", videoHandler.HandleGet)
		r.Put("/videos/{id}", videoHandler.HandleUpdate)
		r.Delete("/videos/{id}", videoHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s
// cap), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // channel imports can take a while
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
