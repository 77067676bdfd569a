package service

import (
	"context"
	"time"

	"github.com/matchpair/server/game/engine"
)

// GameService defines all game-related operations offered to hosting shells.
// Implementations serialize operations per game instance; the engine itself
// provides no locking.
type GameService interface {
	// Game lifecycle
	CreateGame(ctx context.Context, req CreateGameRequest) (*GameInfo, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	DeleteGame(ctx context.Context, gameID string) error

	// Gameplay
	Flip(ctx context.Context, gameID string, row, col int) (*FlipResult, error)
	FlipBack(ctx context.Context, gameID string) (*StateResult, error)
	Undo(ctx context.Context, gameID string) (*StateResult, error)

	// Reads
	GetState(ctx context.Context, gameID string) (*engine.Snapshot, error)
	Hint(ctx context.Context, gameID string) (*engine.Hint, error)
	HighScores(ctx context.Context, gameID string, limit int) ([]engine.ScoreEntry, error)
	History(ctx context.Context, gameID string, limit int) ([]engine.MoveRecord, error)
	Analysis(ctx context.Context, gameID string) (*engine.AnalysisReport, error)

	// Presets
	ListPresets(ctx context.Context) ([]*PresetInfo, error)
	LoadPreset(ctx context.Context, name string) (*Preset, error)
	SavePreset(ctx context.Context, name string, preset *Preset) error
}

// GameManager defines the registry of live game instances.
type GameManager interface {
	Create(preset string, rows, cols int) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Count() int
}

// PresetManager handles board preset loading.
type PresetManager interface {
	LoadPreset(name string) (*Preset, error)
	ListPresets() ([]*PresetInfo, error)
	GetDefault() *Preset
	SavePreset(name string, preset *Preset) error
}

// Session is one live game instance held by the registry.
type Session struct {
	ID             string
	Engine         *engine.Game
	Preset         string
	Rows           int
	Cols           int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
