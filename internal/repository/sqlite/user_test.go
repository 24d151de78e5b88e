package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/pokedex/internal/apperror"
	"github.com/sakif/pokedex/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only during the test —
// fast (no disk I/O), isolated (each test gets its own), and automatically
// destroyed when the connection closes.
//
// newTestDB is a test helper. The t.Helper() call makes failures report at
// the CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup is like defer, but scoped to the test — works in subtests too.
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "$2a$04$fakehashfortesting0000000000000000000000000000000000"}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Email:        "trainer@pokedex.com",
		PasswordHash: "$2a$04$somehash",
	}

	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The struct is modified in-place (pointer receiver)
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "trainer@pokedex.com")

	dup := &model.User{Email: "trainer@pokedex.com", PasswordHash: "$2a$04$otherhash"}
	err := db.Users().Create(context.Background(), dup)

	if err == nil {
		t.Fatal("Create() should reject a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_EmailIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "trainer@pokedex.com")

	// Emails are compared exactly as stored — different case is a new account.
	other := &model.User{Email: "Trainer@pokedex.com", PasswordHash: "$2a$04$otherhash"}
	if err := db.Users().Create(context.Background(), other); err != nil {
		t.Errorf("Create() rejected a differently-cased email: %v", err)
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "trainer@pokedex.com")

	found, err := db.Users().GetByEmail(context.Background(), "trainer@pokedex.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("GetByEmail() did not return the stored password hash")
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByEmail(context.Background(), "nobody@pokedex.com")

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "trainer@pokedex.com")

	found, err := db.Users().GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Email != "trainer@pokedex.com" {
		t.Errorf("Email = %q, want trainer@pokedex.com", found.Email)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), "nonexistent-id")

	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}
