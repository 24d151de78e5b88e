package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/pokedex/internal/model"
)

// ErrSessionExpired means the server rejected our token. The stored token
// has already been cleared when this is returned — the fix is to log in
// again.
var ErrSessionExpired = errors.New("client: session expired, please log in again")

// APIError is a non-2xx response from the server, decoded from its standard
// error body.
type APIError struct {
	StatusCode int
	Kind       string // machine-readable kind, e.g. "not_found"
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// Client talks to the pokedex API.
//
// It owns the session lifecycle: Register and Login persist the issued
// token, every authenticated call attaches it, and any 401 clears it so the
// next command starts from a clean logged-out state — the same discipline a
// browser client applies with an auth interceptor.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  *TokenStore
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:5000").
func New(baseURL string, tokens *TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
	}
}

// credentials is the request body shared by register and login.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse covers both auth endpoints — register additionally carries a
// message field we don't need.
type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and stores the issued token, leaving the
// caller logged in.
func (c *Client) Register(ctx context.Context, email, password string) error {
	var res tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{email, password}, &res, false)
	if err != nil {
		return err
	}
	return c.tokens.Save(res.Token)
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var res tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{email, password}, &res, false)
	if err != nil {
		return err
	}
	return c.tokens.Save(res.Token)
}

// Logout forgets the stored token. Purely local — the token itself stays
// valid until it expires, since the server keeps no session state.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// List fetches the caller's whole collection.
func (c *Client) List(ctx context.Context) ([]model.Pokemon, error) {
	var pokemon []model.Pokemon
	if err := c.do(ctx, http.MethodGet, "/api/pokemon", nil, &pokemon, true); err != nil {
		return nil, err
	}
	return pokemon, nil
}

// Get fetches a single record by ID.
func (c *Client) Get(ctx context.Context, id string) (*model.Pokemon, error) {
	var pokemon model.Pokemon
	if err := c.do(ctx, http.MethodGet, "/api/pokemon/"+url.PathEscape(id), nil, &pokemon, true); err != nil {
		return nil, err
	}
	return &pokemon, nil
}

// Create saves a new record and returns it with its server-assigned ID.
func (c *Client) Create(ctx context.Context, name string, types []string, sprites map[string]string) (*model.Pokemon, error) {
	body := map[string]any{"name": name, "types": types, "sprites": sprites}
	var pokemon model.Pokemon
	if err := c.do(ctx, http.MethodPost, "/api/pokemon", body, &pokemon, true); err != nil {
		return nil, err
	}
	return &pokemon, nil
}

// Update sends the given fields for a merge-update and returns the record as
// stored afterwards. Only the keys present in fields are sent — anything
// omitted keeps its stored value on the server.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) (*model.Pokemon, error) {
	var pokemon model.Pokemon
	if err := c.do(ctx, http.MethodPut, "/api/pokemon/"+url.PathEscape(id), fields, &pokemon, true); err != nil {
		return nil, err
	}
	return &pokemon, nil
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/pokemon/"+url.PathEscape(id), nil, nil, true)
}

// do performs one API call: marshal body, attach the bearer token when the
// route needs one, and decode either the result or the error body.
//
// A 401 on an authenticated call clears the stored token before returning
// ErrSessionExpired, so a stale token never gets retried.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, err := c.tokens.Load()
		if err != nil {
			return err
		}
		if token == "" {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("client: calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		// Best effort: a failed clear still leaves the caller knowing the
		// session is dead.
		c.tokens.Clear()
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decoding response: %w", err)
		}
	}
	return nil
}

// decodeAPIError turns a non-2xx response into an *APIError, tolerating
// bodies that aren't the standard error shape.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Kind = body.Error
		apiErr.Message = body.Message
		// The fallback route sends {"error": "Not found."} with no message.
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
