package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/pokedex/internal/apperror"
	"github.com/sakif/pokedex/internal/auth"
	"github.com/sakif/pokedex/internal/handler"
	"github.com/sakif/pokedex/internal/model"
	"github.com/sakif/pokedex/internal/service"
)

const testSecret = "handler-test-secret-0123456789"

// memUserRepo is an in-memory repository.UserRepository for handler tests.
type memUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return apperror.Conflict("email", "email already in use")
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	copied := *user
	m.byID[user.ID] = &copied
	m.byEmail[user.Email] = &copied
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func newAuthHandler(t *testing.T) *handler.AuthHandler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	svc := service.NewAuthService(newMemUserRepo(), tokens, passwords, logger)
	return handler.NewAuthHandler(svc, logger)
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestAuthHandler_HandleRegister(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		h := newAuthHandler(t)

		rr := postJSON(t, h.HandleRegister, `{"email":"trainer@pokedex.com","password":"password123"}`)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var res map[string]string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "User registered successfully.", res["message"])
		assert.NotEmpty(t, res["token"])

		// The token must verify against the same secret the server signs with.
		tokens, _ := auth.NewTokenService(testSecret)
		identity, err := tokens.Validate(res["token"])
		assert.NoError(t, err)
		assert.Equal(t, "trainer@pokedex.com", identity.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := newAuthHandler(t)

		first := postJSON(t, h.HandleRegister, `{"email":"trainer@pokedex.com","password":"password123"}`)
		assert.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, h.HandleRegister, `{"email":"trainer@pokedex.com","password":"other"}`)
		assert.Equal(t, http.StatusBadRequest, second.Code)

		var res handler.ErrorResponse
		assert.NoError(t, json.NewDecoder(second.Body).Decode(&res))
		assert.Equal(t, "conflict", res.Error)
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newAuthHandler(t)

		rr := postJSON(t, h.HandleRegister, `{"email":"","password":""}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		h := newAuthHandler(t)

		rr := postJSON(t, h.HandleRegister, `{"email":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_HandleLogin(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		h := newAuthHandler(t)

		postJSON(t, h.HandleRegister, `{"email":"trainer@pokedex.com","password":"password123"}`)

		rr := postJSON(t, h.HandleLogin, `{"email":"trainer@pokedex.com","password":"password123"}`)
		assert.Equal(t, http.StatusOK, rr.Code)

		var res map[string]string
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.NotEmpty(t, res["token"])
	})

	t.Run("wrong password and unknown email return the same response", func(t *testing.T) {
		h := newAuthHandler(t)

		postJSON(t, h.HandleRegister, `{"email":"trainer@pokedex.com","password":"password123"}`)

		wrongPass := postJSON(t, h.HandleLogin, `{"email":"trainer@pokedex.com","password":"nope"}`)
		unknown := postJSON(t, h.HandleLogin, `{"email":"nobody@pokedex.com","password":"password123"}`)

		assert.Equal(t, http.StatusBadRequest, wrongPass.Code)
		assert.Equal(t, http.StatusBadRequest, unknown.Code)
		// Identical bodies: the response must not reveal whether the account exists.
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newAuthHandler(t)

		rr := postJSON(t, h.HandleLogin, `{}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
