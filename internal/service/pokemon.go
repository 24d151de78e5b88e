package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/pokedex/internal/apperror"
	"github.com/sakif/pokedex/internal/model"
	"github.com/sakif/pokedex/internal/repository"
)

// Validation constants. Named constants instead of magic numbers — easy to
// find, self-documenting, referenceable in error messages.
const (
	MaxPokemonNameLength = 100
	MaxTypeTagLength     = 50
)

// PokemonService handles business logic for collection records.
//
// Every method takes the caller's trainerID as its first domain argument —
// the identity the auth middleware decoded from the bearer token. Ownership
// is not an afterthought bolted onto queries; it's part of every method's
// contract, and the repository enforces it in the WHERE clause.
type PokemonService struct {
	repo   repository.PokemonRepository
	logger *slog.Logger
}

// NewPokemonService creates a new PokemonService.
func NewPokemonService(repo repository.PokemonRepository, logger *slog.Logger) *PokemonService {
	return &PokemonService{
		repo:   repo,
		logger: logger,
	}
}

// PokemonUpdate carries the caller's requested changes for Update.
//
// WHY POINTERS AND NIL-ABLE FIELDS?
// The update contract is a best-effort merge: a field the caller omitted — or
// sent with the wrong type — keeps its stored value. Go structs can't
// distinguish "absent" from "zero" without either pointers (Name) or nil-able
// reference types (Types, Sprites), so nil here always means "leave it alone".
type PokemonUpdate struct {
	Name    *string
	Types   []string
	Sprites map[string]string
}

// List returns every record the caller owns, in insertion order.
// A trainer with no records gets an empty list, not an error.
func (s *PokemonService) List(ctx context.Context, trainerID string) ([]model.Pokemon, error) {
	pokemon, err := s.repo.ListByTrainer(ctx, trainerID)
	if err != nil {
		s.logger.Error("failed to list pokemon",
			slog.String("trainerID", trainerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing pokemon: %w", err)
	}
	return pokemon, nil
}

// Create validates and saves a new record owned by the caller.
//
// Rules enforced here (not in the handler — every caller needs them):
//   - name must be non-empty after trimming
//   - at least one type tag, each non-empty and bounded
//   - sprites must be present as a mapping (the handler rejects non-object
//     JSON before it ever gets here; nil means the field was absent or null)
func (s *PokemonService) Create(ctx context.Context, trainerID, name string, types []string, sprites map[string]string) (*model.Pokemon, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "pokemon name is required")
	}
	if len(name) > MaxPokemonNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("pokemon name must be %d characters or less", MaxPokemonNameLength))
	}
	if len(types) == 0 {
		return nil, apperror.ValidationFailed("types", "at least one type is required")
	}
	for _, tag := range types {
		if strings.TrimSpace(tag) == "" {
			return nil, apperror.ValidationFailed("types", "type tags must not be empty")
		}
		if len(tag) > MaxTypeTagLength {
			return nil, apperror.ValidationFailed("types",
				fmt.Sprintf("type tags must be %d characters or less", MaxTypeTagLength))
		}
	}
	if sprites == nil {
		return nil, apperror.ValidationFailed("sprites", "sprites object is required")
	}

	pokemon := &model.Pokemon{
		Name:      name,
		Types:     types,
		Sprites:   sprites,
		TrainerID: trainerID,
	}

	// The repo fills in ID and timestamps.
	if err := s.repo.Create(ctx, pokemon); err != nil {
		s.logger.Error("failed to create pokemon",
			slog.String("trainerID", trainerID),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating pokemon: %w", err)
	}

	s.logger.Info("pokemon created",
		slog.String("id", pokemon.ID),
		slog.String("name", pokemon.Name),
		slog.String("trainerID", trainerID),
	)

	return pokemon, nil
}

// Get retrieves one record owned by the caller.
// Returns apperror.ErrNotFound whether the record is absent or owned by
// someone else — the two cases are deliberately indistinguishable.
func (s *PokemonService) Get(ctx context.Context, trainerID, id string) (*model.Pokemon, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "pokemon ID is required")
	}

	return s.repo.GetByID(ctx, id, trainerID)
}

// Update merges the requested changes into an existing record.
//
// STRATEGY: fetch, merge, write back.
//  1. Fetch the existing record (ownership-scoped — NotFound covers both
//     "absent" and "not yours")
//  2. Overlay only the fields the caller actually provided
//  3. Save and return the post-merge record
//
// The merge is tolerant on purpose: a nil field in upd means "keep the stored
// value", and the handler maps omitted or type-mismatched JSON fields to nil.
// Tightening this into strict rejection would change behavior clients rely on.
func (s *PokemonService) Update(ctx context.Context, trainerID, id string, upd PokemonUpdate) (*model.Pokemon, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "pokemon ID is required")
	}

	pokemon, err := s.repo.GetByID(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name != "" {
			if len(name) > MaxPokemonNameLength {
				return nil, apperror.ValidationFailed("name",
					fmt.Sprintf("pokemon name must be %d characters or less", MaxPokemonNameLength))
			}
			pokemon.Name = name
		}
	}
	if upd.Types != nil {
		pokemon.Types = upd.Types
	}
	if upd.Sprites != nil {
		pokemon.Sprites = upd.Sprites
	}

	if err := s.repo.Update(ctx, pokemon); err != nil {
		s.logger.Error("failed to update pokemon",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating pokemon: %w", err)
	}

	s.logger.Info("pokemon updated",
		slog.String("id", pokemon.ID),
		slog.String("name", pokemon.Name),
	)

	return pokemon, nil
}

// Delete removes a record owned by the caller.
// Same ownership rule as Get: foreign-owned is NotFound, never success.
func (s *PokemonService) Delete(ctx context.Context, trainerID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "pokemon ID is required")
	}

	if err := s.repo.Delete(ctx, id, trainerID); err != nil {
		return err
	}

	s.logger.Info("pokemon deleted",
		slog.String("id", id),
		slog.String("trainerID", trainerID),
	)
	return nil
}
