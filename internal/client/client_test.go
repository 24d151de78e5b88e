package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sakif/pokedex/internal/model"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	return NewTokenStoreAt(filepath.Join(t.TempDir(), "token"))
}

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "trainer@pokedex.com" {
			t.Errorf("email = %q", creds.Email)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer srv.Close()

	store := newTestStore(t)
	c := New(srv.URL, store)

	if err := c.Login(context.Background(), "trainer@pokedex.com", "password123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	token, _ := store.Load()
	if token != "issued-token" {
		t.Errorf("stored token = %q, want issued-token", token)
	}
}

func TestClient_ListAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Pokemon{{ID: "p1", Name: "Pikachu"}})
	}))
	defer srv.Close()

	store := newTestStore(t)
	store.Save("my-token")
	c := New(srv.URL, store)

	list, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotAuth != "Bearer my-token" {
		t.Errorf("Authorization = %q, want Bearer my-token", gotAuth)
	}
	if len(list) != 1 || list[0].Name != "Pikachu" {
		t.Errorf("List() = %v", list)
	}
}

func TestClient_UnauthorizedClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer srv.Close()

	store := newTestStore(t)
	store.Save("expired-token")
	c := New(srv.URL, store)

	_, err := c.List(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("List() error = %v, want ErrSessionExpired", err)
	}

	// The dead token must not be retried on the next call.
	token, _ := store.Load()
	if token != "" {
		t.Errorf("token still stored after 401: %q", token)
	}
}

func TestClient_NoTokenMeansNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(srv.URL, newTestStore(t))

	_, err := c.List(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("List() error = %v, want ErrSessionExpired", err)
	}
	if called {
		t.Error("request was sent without a token")
	}
}

func TestClient_DecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "not_found",
			"message": "pokemon not found with id p999",
		})
	}))
	defer srv.Close()

	store := newTestStore(t)
	store.Save("token")
	c := New(srv.URL, store)

	_, err := c.Get(context.Background(), "p999")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Get() error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Kind != "not_found" {
		t.Errorf("Kind = %q, want not_found", apiErr.Kind)
	}
	if apiErr.Message != "pokemon not found with id p999" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestClient_UpdateSendsOnlyGivenFields(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.Pokemon{ID: "p1", Name: "Raichu"})
	}))
	defer srv.Close()

	store := newTestStore(t)
	store.Save("token")
	c := New(srv.URL, store)

	_, err := c.Update(context.Background(), "p1", map[string]any{"name": "Raichu"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, ok := gotBody["name"]; !ok {
		t.Error("body is missing the name field")
	}
	// Fields the caller didn't set must be absent, not sent as zero values —
	// the server keeps stored values only for fields it never sees.
	if _, ok := gotBody["types"]; ok {
		t.Error("body contains types, which the caller never set")
	}
}
