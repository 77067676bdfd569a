package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/matchpair/server/game/config"
	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
	"github.com/matchpair/server/game/session"
	"github.com/matchpair/server/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Game lifecycle
	api.HandleFunc("/games", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods("DELETE")

	// Gameplay
	api.HandleFunc("/games/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/games/{id}/flip", s.handleFlip).Methods("POST")
	api.HandleFunc("/games/{id}/flip-back", s.handleFlipBack).Methods("POST")
	api.HandleFunc("/games/{id}/undo", s.handleUndo).Methods("POST")

	// Reads
	api.HandleFunc("/games/{id}/hint", s.handleHint).Methods("GET")
	api.HandleFunc("/games/{id}/scores", s.handleHighScores).Methods("GET")
	api.HandleFunc("/games/{id}/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/games/{id}/analysis", s.handleAnalysis).Methods("GET")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets", s.handleCreatePreset).Methods("POST")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps service and engine failures to HTTP status codes.
// Engine failures are recoverable state conflicts or bad input, never 500s.
func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrGameNotFound),
		errors.Is(err, config.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrInvalidPreset):
		return http.StatusBadRequest
	}

	if kind, ok := engine.KindOf(err); ok {
		switch kind {
		case engine.InvalidDimensions, engine.OutOfBounds:
			return http.StatusBadRequest
		case engine.CardNotFound:
			return http.StatusNotFound
		default:
			// already_matched, already_flipped, no_pending_pair, no_move_to_undo
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	body := map[string]string{"error": err.Error()}
	if kind, ok := engine.KindOf(err); ok {
		body["kind"] = string(kind)
	}
	respondJSON(w, status, body)
}

// Game Lifecycle Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGameRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateGame(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	log.Info().
		Str("game_id", info.ID).
		Str("preset", info.Preset).
		Int("rows", info.Rows).
		Int("cols", info.Cols).
		Msg("game created")

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.service.ListGames(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default: "desc")
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(games, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = games[i].CreatedAt, games[j].CreatedAt
		} else {
			ti, tj = games[i].LastAccessedAt, games[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	limit := len(games)
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(games) {
			limit = l
		}
	}
	games = games[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
		"sort":  sortBy,
		"order": order,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	info, err := s.service.GetGame(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	if err := s.service.DeleteGame(r.Context(), gameID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(gameID, "game_deleted", map[string]string{"game_id": gameID})
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("game %s deleted", gameID),
	})
}

// Gameplay Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	snap, err := s.service.GetState(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var req struct {
		Row int `json:"row"`
		Col int `json:"col"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.Flip(r.Context(), gameID, req.Row, req.Col)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastState(gameID, result.Outcome.Snapshot, result.Events)
	}

	log.Info().
		Str("game_id", gameID).
		Int("row", req.Row).
		Int("col", req.Col).
		Str("symbol", result.Outcome.Card.Symbol).
		Bool("matched", result.Outcome.Matched).
		Bool("won", result.Outcome.Won).
		Int("moves", result.Outcome.Snapshot.Moves).
		Int("score", result.Outcome.Snapshot.Score).
		Msg("flip")

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFlipBack(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.FlipBack(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastState(gameID, result.Snapshot, result.Events)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	result, err := s.service.Undo(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastState(gameID, result.Snapshot, result.Events)
	}

	respondJSON(w, http.StatusOK, result)
}

// Read Handlers

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	hint, err := s.service.Hint(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, hint)
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	scores, err := s.service.HighScores(r.Context(), gameID, limit)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"scores":  scores,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	records, err := s.service.History(r.Context(), gameID, limit)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"count":   len(records),
		"moves":   records,
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	report, err := s.service.Analysis(r.Context(), gameID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	preset, err := s.service.LoadPreset(r.Context(), name)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var preset service.Preset
	if err := json.NewDecoder(r.Body).Decode(&preset); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if preset.Name == "" {
		respondError(w, http.StatusBadRequest, "preset name is required")
		return
	}

	if err := s.service.SavePreset(r.Context(), preset.Name, &preset); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "preset saved",
		"preset_id": preset.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}

	// Verify the game exists before upgrading
	if _, err := s.service.GetGame(context.Background(), gameID); err != nil {
		http.Error(w, "unknown game", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, gameID)
}

// Health check

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
