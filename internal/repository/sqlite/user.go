package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/pokedex/internal/apperror"
	"github.com/sakif/pokedex/internal/model"
	"github.com/sakif/pokedex/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a nil *Y to a variable of interface type X.
// If *Y doesn't implement X, the compiler errors immediately instead of at
// some distant call site. A Go best practice for any interface implementation.
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore implements repository.UserRepository on the shared connection.
//
// WHY A SEPARATE TYPE PER REPOSITORY?
// Both repositories have a Create method with different signatures, so they
// can't share a receiver. Each store is a thin view over the same *DB —
// db.Users() and db.Pokemon() hand out the right one.
type UserStore struct {
	db *DB
}

// Users returns the user repository backed by this connection.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user row.
//
// DUPLICATE EMAILS:
// The email column is UNIQUE, so the database is the final arbiter — but we
// pre-check with a SELECT first to return a clean Conflict error with a
// friendly message instead of a driver-specific constraint error. The match
// is exact and case-sensitive: "Ash@x.com" and "ash@x.com" are two accounts.
// There is still a tiny race window between the SELECT and the INSERT; if two
// registrations for the same email land in it, the UNIQUE constraint catches
// the second one and we translate that too.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	var existingID string
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, user.Email,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: checking email %s: %w", user.Email, err)
	}
	if existingID != "" {
		return apperror.Conflict("email", "email already in use")
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = s.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// Lost the race above — the UNIQUE constraint fired.
		if isUniqueViolation(err) {
			return apperror.Conflict("email", "email already in use")
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by exact email match.
// Returns apperror.ErrNotFound if no account exists for that email; the
// service layer folds that into the generic invalid-credentials error so
// login never reveals which emails are registered.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel — it just means "no matching row".
		// We translate it to our domain's NotFound error.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return &u, nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}
