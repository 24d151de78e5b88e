// Package main seeds the database with a demo trainer and a starter
// collection, so the app has something to show on first run.
//
// Run it once after setup:
//
//	JWT_SECRET=... go run ./cmd/seed
//
// It is idempotent — running it again reuses the existing demo account and
// resets its collection to the starter set.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/pokedex/internal/apperror"
	"github.com/sakif/pokedex/internal/auth"
	"github.com/sakif/pokedex/internal/config"
	sqliteRepo "github.com/sakif/pokedex/internal/repository/sqlite"
	"github.com/sakif/pokedex/internal/service"
)

const (
	demoEmail    = "trainer@pokedex.com"
	demoPassword = "password123"
)

// seedPokemon is the starter collection. Sprite URLs point at the public
// PokeAPI sprite repository, keyed by national dex number.
var seedPokemon = []struct {
	name  string
	dex   int
	types []string
}{
	{"Bulbasaur", 1, []string{"Grass", "Poison"}},
	{"Charmander", 4, []string{"Fire"}},
	{"Squirtle", 7, []string{"Water"}},
	{"Pikachu", 25, []string{"Electric"}},
	{"Jigglypuff", 39, []string{"Normal", "Fairy"}},
	{"Meowth", 52, []string{"Normal"}},
	{"Psyduck", 54, []string{"Water"}},
	{"Machop", 66, []string{"Fighting"}},
	{"Geodude", 74, []string{"Rock", "Ground"}},
	{"Gastly", 92, []string{"Ghost", "Poison"}},
	{"Eevee", 133, []string{"Normal"}},
	{"Snorlax", 143, []string{"Normal"}},
}

func spriteURL(dex int) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png", dex)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			logger.Error("failed to create database directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(context.Background(), db, cfg, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func seed(ctx context.Context, db *sqliteRepo.DB, cfg *config.Config, logger *slog.Logger) error {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	authService := service.NewAuthService(db.Users(), tokens, auth.NewPasswordService(), logger)
	pokemonService := service.NewPokemonService(db.Pokemon(), logger)

	// Reuse the demo account if it already exists, otherwise register it.
	trainer, err := db.Users().GetByEmail(ctx, demoEmail)
	switch {
	case err == nil:
		logger.Info("demo trainer already exists", slog.String("email", demoEmail))
	case errors.Is(err, apperror.ErrNotFound):
		result, regErr := authService.Register(ctx, demoEmail, demoPassword)
		if regErr != nil {
			return fmt.Errorf("registering demo trainer: %w", regErr)
		}
		trainer = result.User
		logger.Info("demo trainer created",
			slog.String("email", demoEmail),
			slog.String("password", demoPassword),
		)
	default:
		return fmt.Errorf("looking up demo trainer: %w", err)
	}

	// Reset the demo collection so repeated runs don't accumulate duplicates.
	existing, err := pokemonService.List(ctx, trainer.ID)
	if err != nil {
		return fmt.Errorf("listing existing collection: %w", err)
	}
	for _, p := range existing {
		if err := pokemonService.Delete(ctx, trainer.ID, p.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", p.Name, err)
		}
	}

	for _, p := range seedPokemon {
		sprites := map[string]string{"front_default": spriteURL(p.dex)}
		if _, err := pokemonService.Create(ctx, trainer.ID, p.name, p.types, sprites); err != nil {
			return fmt.Errorf("seeding %s: %w", p.name, err)
		}
	}

	logger.Info("seeding complete",
		slog.Int("cleared", len(existing)),
		slog.Int("inserted", len(seedPokemon)),
	)
	return nil
}
