package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/pokedex/internal/apperror"
	"github.com/sakif/pokedex/internal/model"
	"github.com/sakif/pokedex/internal/repository"
)

// compile-time check, same pattern as UserStore
var _ repository.PokemonRepository = (*PokemonStore)(nil)

// PokemonStore implements repository.PokemonRepository on the shared
// connection. See UserStore for why each repository gets its own type.
type PokemonStore struct {
	db *DB
}

// Pokemon returns the pokemon repository backed by this connection.
func (db *DB) Pokemon() *PokemonStore {
	return &PokemonStore{db: db}
}

// SERIALIZATION CONTRACT:
// types and sprites live in TEXT columns as JSON ("["Electric"]",
// "{"front_default":"https://..."}"). Encoding happens on every write,
// decoding on every read. Decoding is DEFENSIVE: a malformed stored value
// decodes to an empty slice/map instead of failing the whole read — one bad
// row must not make a trainer's entire collection unreadable.

func encodeTypes(types []string) (string, error) {
	if types == nil {
		types = []string{}
	}
	b, err := json.Marshal(types)
	if err != nil {
		return "", fmt.Errorf("encoding types: %w", err)
	}
	return string(b), nil
}

func encodeSprites(sprites map[string]string) (string, error) {
	if sprites == nil {
		sprites = map[string]string{}
	}
	b, err := json.Marshal(sprites)
	if err != nil {
		return "", fmt.Errorf("encoding sprites: %w", err)
	}
	return string(b), nil
}

func decodeTypes(raw string) []string {
	var types []string
	if err := json.Unmarshal([]byte(raw), &types); err != nil || types == nil {
		return []string{}
	}
	return types
}

func decodeSprites(raw string) map[string]string {
	var sprites map[string]string
	if err := json.Unmarshal([]byte(raw), &sprites); err != nil || sprites == nil {
		return map[string]string{}
	}
	return sprites
}

// Create inserts a new pokemon owned by p.TrainerID.
//
// ID GENERATION WITH xid:
// xid generates 20-char, URL-safe, creation-time-sortable IDs
// (e.g. "cv37rs3pp9olc6atsptg"). Because they sort by creation time, the
// primary key order matches insertion order.
//
// POINTER RECEIVER (*model.Pokemon):
// We take a pointer so we can MODIFY the original struct — after Create()
// the caller's value has the generated ID and timestamps filled in.
func (s *PokemonStore) Create(ctx context.Context, p *model.Pokemon) error {
	typesJSON, err := encodeTypes(p.Types)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	spritesJSON, err := encodeSprites(p.Sprites)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	p.ID = xid.New().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	// PARAMETERIZED QUERIES (the ? placeholders):
	// Never build SQL with string concatenation — that's how SQL injection
	// happens. The driver escapes each bound value safely.
	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO pokemon (id, name, types, sprites, trainer_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		typesJSON,
		spritesJSON,
		p.TrainerID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating pokemon: %w", err)
	}

	return nil
}

// GetByID retrieves one pokemon, scoped to its owner.
//
// OWNERSHIP ISOLATION:
// The WHERE clause matches BOTH id and trainer_id. A record owned by another
// trainer produces sql.ErrNoRows — indistinguishable from a record that
// doesn't exist at all. That's the contract: existence of other trainers'
// records must never leak, so "not yours" and "not there" are the same 404.
func (s *PokemonStore) GetByID(ctx context.Context, id, trainerID string) (*model.Pokemon, error) {
	var (
		p           model.Pokemon
		typesJSON   string
		spritesJSON string
	)

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, types, sprites, trainer_id, created_at, updated_at
		 FROM pokemon
		 WHERE id = ? AND trainer_id = ?`,
		id, trainerID,
	).Scan(
		&p.ID,
		&p.Name,
		&typesJSON,
		&spritesJSON,
		&p.TrainerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("pokemon", id)
		}
		return nil, fmt.Errorf("sqlite: getting pokemon %s: %w", id, err)
	}

	p.Types = decodeTypes(typesJSON)
	p.Sprites = decodeSprites(spritesJSON)

	return &p, nil
}

// ListByTrainer retrieves every pokemon owned by the trainer, in insertion
// order (created_at ascending — with xid primary keys the two orders agree).
// Returns an empty, non-nil slice when the trainer owns nothing, so the
// handler encodes [] rather than null.
func (s *PokemonStore) ListByTrainer(ctx context.Context, trainerID string) ([]model.Pokemon, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, name, types, sprites, trainer_id, created_at, updated_at
		 FROM pokemon
		 WHERE trainer_id = ?
		 ORDER BY created_at`,
		trainerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing pokemon: %w", err)
	}
	// CRITICAL: sql.Rows holds a pool connection until closed. A forgotten
	// Close() leaks the connection; enough leaks and the app hangs forever.
	defer rows.Close()

	pokemon := make([]model.Pokemon, 0)

	for rows.Next() {
		var (
			p           model.Pokemon
			typesJSON   string
			spritesJSON string
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &typesJSON, &spritesJSON,
			&p.TrainerID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning pokemon row: %w", err)
		}
		p.Types = decodeTypes(typesJSON)
		p.Sprites = decodeSprites(spritesJSON)
		pokemon = append(pokemon, p)
	}

	// rows.Err() catches errors that happened DURING iteration — e.g. the
	// connection dropping mid-scan.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pokemon: %w", err)
	}

	return pokemon, nil
}

// Update writes back a (merged) pokemon. The WHERE clause is scoped by owner
// just like GetByID; RowsAffected == 0 means "not found or not yours" and is
// reported as NotFound either way.
//
// id, trainer_id, and created_at are immutable — only name, types, sprites,
// and updated_at change.
func (s *PokemonStore) Update(ctx context.Context, p *model.Pokemon) error {
	typesJSON, err := encodeTypes(p.Types)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	spritesJSON, err := encodeSprites(p.Sprites)
	if err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}

	p.UpdatedAt = time.Now()

	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE pokemon
		 SET name = ?, types = ?, sprites = ?, updated_at = ?
		 WHERE id = ? AND trainer_id = ?`,
		p.Name,
		typesJSON,
		spritesJSON,
		p.UpdatedAt,
		p.ID,
		p.TrainerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating pokemon %s: %w", p.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("pokemon", p.ID)
	}

	return nil
}

// Delete removes a pokemon, scoped by owner. Same RowsAffected pattern as
// Update — deleting someone else's record reports NotFound, never success.
func (s *PokemonStore) Delete(ctx context.Context, id, trainerID string) error {
	result, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM pokemon WHERE id = ? AND trainer_id = ?`,
		id, trainerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting pokemon %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("pokemon", id)
	}

	return nil
}
