// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. Think of it as the control centre that decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points — server, seeder — share the wiring)
// - Clean (main.go stays minimal: load config, start the server)
//
// DEPENDENCY INJECTION FLOW:
// main.go creates: config.Config → passed to Server
// Server.New() creates:
//
//	sqlite.DB → AuthService + PokemonService → AuthHandler + PokemonHandler
//
// This is the "composition root" pattern — all dependencies are wired in one
// place rather than scattered across the codebase.
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
	"github.com/go-chi/cors"

	"github.com/sakif/pokedex/internal/auth"
	"github.com/sakif/pokedex/internal/config"
	"github.com/sakif/pokedex/internal/handler"
	"github.com/sakif/pokedex/internal/middleware"
	sqliteRepo "github.com/sakif/pokedex/internal/repository/sqlite"
	"github.com/sakif/pokedex/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database connection. When the server shuts down, the
// connection must be closed to flush pending writes and release the file
// lock — Start() handles this during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the given config.
//
// The entire dependency chain is assembled here:
//  1. Open the database (sqlite.New runs migrations)
//  2. Build the auth plumbing (token + password services)
//  3. Build the service layer on the repository interfaces
//  4. Build the handlers on the services
//  5. Wire handlers to routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite.DB), handlers get services (not
// repositories), and nothing below the handler ever sees HTTP.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register  → create account, returns token
//	POST   /api/auth/login     → authenticate, returns token
//	GET    /api/pokemon        → list caller's records        [auth]
//	POST   /api/pokemon        → create record                [auth]
//	GET    /api/pokemon/{id}   → get one record               [auth]
//	PUT    /api/pokemon/{id}   → merge-update record          [auth]
//	DELETE /api/pokemon/{id}   → delete record                [auth]
//	*                          → 404 {"error": "Not found."}
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
//  1. RequestID — assigns a unique ID to each request (for tracing)
//  2. RealIP — extracts the real client IP from proxy headers
//  3. CORS — answers preflights before anything heavier runs
//  4. Logger — logs each request with timing info
//  5. Recoverer — catches panics and returns 500 instead of crashing
//
// RequireAuth is NOT global: it's scoped to the /api/pokemon group, so the
// register and login routes stay reachable without a token.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)

	// CORS lets the browser-based client call the API from a different
	// origin. Authorization must be in AllowedHeaders or the browser strips
	// the bearer token from cross-origin requests.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// === AUTH PLUMBING ===
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// === SERVICES AND HANDLERS ===
	// s.db.Users() and s.db.Pokemon() are the two repository views over the
	// shared connection.
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	pokemonService := service.NewPokemonService(s.db.Pokemon(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	pokemonHandler := handler.NewPokemonHandler(pokemonService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Route("/pokemon", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/", pokemonHandler.HandleList)
			r.Post("/", pokemonHandler.HandleCreate)
			r.Get("/{id}", pokemonHandler.HandleGet)
			r.Put("/{id}", pokemonHandler.HandleUpdate)
			r.Delete("/{id}", pokemonHandler.HandleDelete)
		})
	})

	// Anything that matched no route gets the JSON fallback, not chi's
	// default text/plain 404.
	s.router.NotFound(handler.NotFound)

	return nil
}

// Handler exposes the router so tests can drive the full stack through
// httptest without opening a real listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Tests use this; production goes through Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database connection (flushes WAL, releases the file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
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
