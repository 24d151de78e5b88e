// Package main is the entry point for the pokedex API server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main"
// package. The main package should be kept minimal — its job is to:
// 1. Read configuration
// 2. Create dependencies (logger, etc.)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, ...). This separation keeps the app testable.
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points. This
// project has three: cmd/server (the API), cmd/seed (demo data), and
// cmd/cli (the terminal client). Each gets its own directory and main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/pokedex/internal/config"
	"github.com/sakif/pokedex/internal/server"
)

func main() {
	// Log levels (least to most severe): Debug → Info → Warn → Error.
	// In production you'd raise this to Info or Warn to reduce noise.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the database directory exists (like `mkdir -p`). ":memory:" has
	// no directory to create.
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.DBPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
