package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// errNoToken means the request presented no bearer credential at all —
// as opposed to presenting one that failed validation.
var errNoToken = errors.New("auth: no bearer token presented")

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// "identity" can read or shadow your value. Using a package-private type
// prevents collisions: only THIS package can create a key of type contextKey,
// so only this package can read or write identity values in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the Authorization header ("Bearer <token>"), validates
// it, and stores the caller's Identity in the request context. If the token is
// missing, malformed, expired, or carries a bad signature, it returns
// 401 Unauthorized and stops the request chain — the handler never runs.
//
// MIDDLEWARE PATTERN IN GO:
// A middleware is a function that takes an http.Handler and returns a new
// http.Handler. The new handler "wraps" the original:
//
//	func Middleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // ... do stuff before the handler ...
//	        next.ServeHTTP(w, r)
//	    })
//	}
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
//
// WHY A HEADER AND NOT A COOKIE?
// The API is consumed by non-browser clients (the CLI) as well as the SPA,
// and both already manage their own token storage. A bearer header keeps the
// server completely agnostic about where the client keeps the token.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			// Store the identity in context so handlers can read it
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request context.
//
// Returns (nil, false) if the request carries no valid identity.
// On a RequireAuth-protected route it always returns (identity, true).
//
// Usage in handlers:
//
//	identity, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // not authenticated
//	}
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok && id != nil && id.UserID != ""
}

// extractIdentity reads and validates the bearer token from the
// Authorization header.
//
// Header format: "Authorization: Bearer eyJhbGciOi..."
// Anything else — missing header, wrong scheme, empty token — is rejected.
func extractIdentity(r *http.Request, tokens *TokenService) (*Identity, error) {
	header := r.Header.Get("Authorization")

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, errNoToken
	}

	return tokens.Validate(tokenStr)
}
