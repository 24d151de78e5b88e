package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pokedex/internal/auth"
	"github.com/sakif/pokedex/internal/service"
)

// PokemonHandler manages CRUD operations for collection records.
//
// Every route it serves sits behind auth.RequireAuth, so the caller's
// identity is always in the request context. The handler's only jobs are
// JSON translation and pulling that identity out — ownership enforcement
// happens in the service/repository below.
type PokemonHandler struct {
	pokemon *service.PokemonService
	logger  *slog.Logger
}

// NewPokemonHandler creates a new PokemonHandler.
func NewPokemonHandler(pokemon *service.PokemonService, logger *slog.Logger) *PokemonHandler {
	return &PokemonHandler{pokemon: pokemon, logger: logger}
}

// callerID extracts the authenticated trainer's ID from the context.
// On a RequireAuth-protected route the identity is always present; the
// defensive branch exists so a future wiring mistake fails closed.
func (h *PokemonHandler) callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return "", false
	}
	return identity.UserID, true
}

// HandleList returns all records owned by the caller.
//
// HTTP: GET /api/pokemon
// RESPONSES: 200 [Record...] | 401 | 500
// An empty collection is 200 with [] — not an error, not null.
func (h *PokemonHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	pokemon, err := h.pokemon.List(r.Context(), trainerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pokemon)
}

// createPokemonRequest is the body for HandleCreate.
//
// Typed fields double as the boundary's shape check: a request where types
// isn't an array or sprites isn't an object fails JSON decoding outright and
// is rejected as a validation error — creation, unlike update, is strict.
type createPokemonRequest struct {
	Name    string            `json:"name"`
	Types   []string          `json:"types"`
	Sprites map[string]string `json:"sprites"`
}

// HandleCreate saves a new record owned by the caller.
//
// HTTP: POST /api/pokemon
// REQUEST BODY: {"name":"Pikachu","types":["Electric"],"sprites":{"front_default":"url"}}
// RESPONSES: 201 Record (with server-assigned id) | 400 | 401 | 500
func (h *PokemonHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	var req createPokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid pokemon JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "name, types array, and sprites object are required",
		})
		return
	}

	pokemon, err := h.pokemon.Create(r.Context(), trainerID, req.Name, req.Types, req.Sprites)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, pokemon)
}

// HandleGet returns a single record by ID.
//
// HTTP: GET /api/pokemon/{id}
// RESPONSES: 200 Record | 404 | 401 | 500
// A record owned by another trainer is a 404, same as one that doesn't exist.
func (h *PokemonHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	pokemon, err := h.pokemon.Get(r.Context(), trainerID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pokemon)
}

// updatePokemonRequest holds each updatable field as raw JSON.
//
// WHY json.RawMessage INSTEAD OF TYPED FIELDS?
// Update is a best-effort merge: a field that is omitted — or present with
// the wrong type ("types": "Electric" instead of an array) — must silently
// keep its stored value, not fail the whole request. Typed decoding would
// reject the entire body on the first mismatched field. RawMessage defers
// decoding so each field can be tried independently and dropped from the
// merge when it doesn't parse.
type updatePokemonRequest struct {
	Name    json.RawMessage `json:"name"`
	Types   json.RawMessage `json:"types"`
	Sprites json.RawMessage `json:"sprites"`
}

// merge converts the raw fields into a service.PokemonUpdate, keeping only
// the fields that decoded cleanly into their expected type. JSON null is
// treated the same as absent.
func (req *updatePokemonRequest) merge() service.PokemonUpdate {
	var upd service.PokemonUpdate

	if len(req.Name) > 0 {
		var name string
		if err := json.Unmarshal(req.Name, &name); err == nil {
			upd.Name = &name
		}
	}
	if len(req.Types) > 0 {
		var types []string
		if err := json.Unmarshal(req.Types, &types); err == nil && types != nil {
			upd.Types = types
		}
	}
	if len(req.Sprites) > 0 {
		var sprites map[string]string
		if err := json.Unmarshal(req.Sprites, &sprites); err == nil && sprites != nil {
			upd.Sprites = sprites
		}
	}

	return upd
}

// HandleUpdate merges changes into an existing record.
//
// HTTP: PUT /api/pokemon/{id}
// REQUEST BODY: any subset of {"name", "types", "sprites"}
// RESPONSES: 200 post-merge Record | 404 | 401 | 500
func (h *PokemonHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var req updatePokemonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid pokemon update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	pokemon, err := h.pokemon.Update(r.Context(), trainerID, id, req.merge())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pokemon)
}

// HandleDelete removes a record.
//
// HTTP: DELETE /api/pokemon/{id}
// RESPONSES: 200 {message} | 404 | 401 | 500
func (h *PokemonHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := h.callerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.pokemon.Delete(r.Context(), trainerID, id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Pokemon deleted successfully."})
}
