// Package repository declares the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/pokedex/internal/model"
)

// UserRepository persists trainer accounts.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict (wrapped) if
	// the email is already taken — the email column is UNIQUE.
	Create(ctx context.Context, user *model.User) error
	// GetByEmail looks a user up by exact email match (case-sensitive).
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// PokemonRepository persists collection records.
//
// Every read and mutation is scoped by the owning trainer's ID. A record
// that exists but belongs to someone else is reported as not found — callers
// can never learn about other trainers' records through this interface.
type PokemonRepository interface {
	Create(ctx context.Context, p *model.Pokemon) error
	GetByID(ctx context.Context, id, trainerID string) (*model.Pokemon, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]model.Pokemon, error)
	Update(ctx context.Context, p *model.Pokemon) error
	Delete(ctx context.Context, id, trainerID string) error
}
