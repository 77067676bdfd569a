package service

import (
	"time"

	"github.com/matchpair/server/game/engine"
)

// Preset is a named board configuration.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
}

// PresetInfo summarizes an available preset for listings.
type PresetInfo struct {
	PresetID    string `json:"preset_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Builtin     bool   `json:"builtin"`
}

// CreateGameRequest selects a board either by preset name or by explicit
// dimensions; explicit dimensions win when both are present.
type CreateGameRequest struct {
	Preset string `json:"preset,omitempty"`
	Rows   int    `json:"rows,omitempty"`
	Cols   int    `json:"cols,omitempty"`
	Label  string `json:"label,omitempty"`
}

// GameInfo describes a live game instance.
type GameInfo struct {
	ID             string           `json:"id"`
	Preset         string           `json:"preset,omitempty"`
	Rows           int              `json:"rows"`
	Cols           int              `json:"cols"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	State          *engine.Snapshot `json:"state"`
}

// GameEvent is one notable occurrence during an operation, consumed by the
// websocket hub and API clients.
type GameEvent struct {
	Type      string           `json:"type"` // "flip", "match", "mismatch", "won", "flip_back", "undo"
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// FlipResult is the service-level outcome of a flip.
type FlipResult struct {
	GameID  string              `json:"game_id"`
	Outcome *engine.FlipOutcome `json:"outcome"`
	Events  []GameEvent         `json:"events,omitempty"`
}

// StateResult wraps a snapshot together with the events the operation
// produced.
type StateResult struct {
	GameID   string           `json:"game_id"`
	Snapshot *engine.Snapshot `json:"snapshot"`
	Events   []GameEvent      `json:"events,omitempty"`
}
