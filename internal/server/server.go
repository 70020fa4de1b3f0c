// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the wiring layer — the composition root where the
// dependency chain is assembled:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces, handlers get services. Nothing below this package knows
// how anything else is constructed.
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

	"github.com/sakif/rewear/internal/auth"
	"github.com/sakif/rewear/internal/handler"
	"github.com/sakif/rewear/internal/middleware"
	sqliteRepo "github.com/sakif/rewear/internal/repository/sqlite"
	"github.com/sakif/rewear/internal/service"
	"github.com/sakif/rewear/internal/storage"
)

// Config holds server configuration, loaded from the environment in
// main.go.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string

	// Object storage for item images.
	S3 storage.Config

	// Optional GitHub signin; the OAuth routes are only registered when
	// the client credentials are present.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that must be released on
// shutdown (the database connection).
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

// setupRoutes configures middleware and route handlers.
//
// ROUTE MAP:
//
//	POST   /api/auth/signup          → register
//	POST   /api/auth/signin          → password signin
//	POST   /api/auth/logout          → clear token cookie
//	GET    /api/auth/profile         → own record            (auth)
//	PUT    /api/auth/profile         → update own record     (auth)
//	GET    /auth/github/login        → OAuth redirect        (if configured)
//	GET    /auth/github/callback     → OAuth completion      (if configured)
//	GET    /api/items                → list with filters
//	GET    /api/items/{id}           → single item
//	POST   /api/items                → create listing        (auth)
//	POST   /api/items/upload         → image upload          (auth)
//	PUT    /api/items/{id}           → update listing        (auth, uploader)
//	DELETE /api/items/{id}           → delete listing        (auth, uploader)
//	POST   /api/swaps                → request a swap        (auth)
//	GET    /api/swaps                → own swaps             (auth)
//	PUT    /api/swaps/{id}           → decide a swap         (auth, owner)
//	GET    /api/admin/pending-items  → moderation queue      (auth, admin)
//	PUT    /api/admin/item/{id}      → moderate listing      (auth, admin)
//	DELETE /api/admin/item/{id}      → remove listing        (auth, admin)
//	DELETE /api/admin/user/{id}      → remove account        (auth, admin)
//
// Middleware order: RequestID → RealIP → Recoverer → request logger,
// then per-group RequireAuth / RequireAdmin.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	imageStore, err := storage.NewS3Store(context.Background(), s.config.S3)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}

	authService := service.NewAuthService(s.db.Users, tokens, passwords, s.logger)
	itemService := service.NewItemService(s.db.Items, s.logger)
	swapService := service.NewSwapService(s.db.Swaps, s.db.Items, s.logger)
	adminService := service.NewAdminService(s.db.Users, s.db.Items, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	itemHandler := handler.NewItemHandler(itemService, s.logger)
	swapHandler := handler.NewSwapHandler(swapService, s.logger)
	adminHandler := handler.NewAdminHandler(adminService, s.logger)
	uploadHandler := handler.NewUploadHandler(imageStore, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		// Public routes.
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/signin", authHandler.HandleSignin)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/items", itemHandler.HandleList)
		r.Get("/items/{id}", itemHandler.HandleGet)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/profile", authHandler.HandleGetProfile)
			r.Put("/auth/profile", authHandler.HandleUpdateProfile)

			r.Post("/items", itemHandler.HandleCreate)
			r.Post("/items/upload", uploadHandler.HandleUpload)
			r.Put("/items/{id}", itemHandler.HandleUpdate)
			r.Delete("/items/{id}", itemHandler.HandleDelete)

			r.Post("/swaps", swapHandler.HandleCreate)
			r.Get("/swaps", swapHandler.HandleList)
			r.Put("/swaps/{id}", swapHandler.HandleUpdateStatus)
		})

		// Admin routes: the role comes from the verified token claim.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(auth.RequireAdmin)

			r.Get("/admin/pending-items", adminHandler.HandlePendingItems)
			r.Put("/admin/item/{id}", adminHandler.HandleModerateItem)
			r.Delete("/admin/item/{id}", adminHandler.HandleRemoveItem)
			r.Delete("/admin/user/{id}", adminHandler.HandleRemoveUser)
		})
	})

	// The OAuth browser flow lives outside /api — GitHub redirects here.
	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	} else {
		s.logger.Info("GitHub signin not configured; OAuth routes disabled")
	}

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
