package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchpair/server/game/engine"
)

// gameServiceImpl implements the GameService interface. Its mutex is what
// serializes operations per engine instance; the engine itself is
// lock-free by contract.
type gameServiceImpl struct {
	games   GameManager
	presets PresetManager
	mu      sync.RWMutex
}

// NewGameService creates a new game service instance.
func NewGameService(games GameManager, presets PresetManager) GameService {
	return &gameServiceImpl{
		games:   games,
		presets: presets,
	}
}

// CreateGame starts a new game. Explicit dimensions take precedence over a
// preset name; with neither, the default preset applies.
func (s *gameServiceImpl) CreateGame(ctx context.Context, req CreateGameRequest) (*GameInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, cols := req.Rows, req.Cols
	presetName := req.Preset
	if rows == 0 && cols == 0 {
		var preset *Preset
		if presetName != "" {
			loaded, err := s.presets.LoadPreset(presetName)
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", presetName, err)
			}
			preset = loaded
		} else {
			preset = s.presets.GetDefault()
			presetName = preset.Name
		}
		rows, cols = preset.Rows, preset.Cols
	}

	sess, err := s.games.Create(presetName, rows, cols)
	if err != nil {
		return nil, err
	}
	if req.Label != "" {
		sess.Engine.SetLabel(req.Label)
	}

	return gameInfo(sess), nil
}

// GetGame retrieves information about a live game.
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.UpdateLastAccessed(gameID)
	return gameInfo(sess), nil
}

// ListGames returns all live games.
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.games.List()
	result := make([]*GameInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, gameInfo(sess))
	}
	return result, nil
}

// DeleteGame evicts a game from the registry.
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.games.Delete(gameID)
}

// Flip executes a flip on the identified game.
func (s *gameServiceImpl) Flip(ctx context.Context, gameID string, row, col int) (*FlipResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.UpdateLastAccessed(gameID)

	outcome, err := sess.Engine.Flip(row, col)
	if err != nil {
		return nil, err
	}

	result := &FlipResult{
		GameID:  gameID,
		Outcome: outcome,
		Events:  flipEvents(outcome),
	}
	return result, nil
}

// FlipBack turns an unresolved mismatched pair face down.
func (s *gameServiceImpl) FlipBack(ctx context.Context, gameID string) (*StateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.UpdateLastAccessed(gameID)

	snap, err := sess.Engine.FlipBack()
	if err != nil {
		return nil, err
	}

	return &StateResult{
		GameID:   gameID,
		Snapshot: snap,
		Events: []GameEvent{{
			Type:      "flip_back",
			Message:   "mismatched pair flipped back",
			Timestamp: time.Now(),
		}},
	}, nil
}

// Undo reverses the most recent flip.
func (s *gameServiceImpl) Undo(ctx context.Context, gameID string) (*StateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.UpdateLastAccessed(gameID)

	snap, err := sess.Engine.Undo()
	if err != nil {
		return nil, err
	}

	return &StateResult{
		GameID:   gameID,
		Snapshot: snap,
		Events: []GameEvent{{
			Type:      "undo",
			Message:   "last flip undone",
			Timestamp: time.Now(),
		}},
	}, nil
}

// GetState returns the current snapshot.
func (s *gameServiceImpl) GetState(ctx context.Context, gameID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.UpdateLastAccessed(gameID)
	return sess.Engine.State(), nil
}

// Hint returns a matchable pair suggestion.
func (s *gameServiceImpl) Hint(ctx context.Context, gameID string) (*engine.Hint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	hint := sess.Engine.Hint()
	return &hint, nil
}

// HighScores returns the game's ledger, best first.
func (s *gameServiceImpl) HighScores(ctx context.Context, gameID string, limit int) ([]engine.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.HighScores(limit), nil
}

// History returns the game's not-yet-undone flips, most recent first.
func (s *gameServiceImpl) History(ctx context.Context, gameID string, limit int) ([]engine.MoveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	records := sess.Engine.History()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Analysis returns diagnostic counts over the game's structures.
func (s *gameServiceImpl) Analysis(ctx context.Context, gameID string) (*engine.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	report := sess.Engine.Analysis()
	return &report, nil
}

// ListPresets returns available board presets.
func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.presets.ListPresets()
}

// LoadPreset loads a specific board preset.
func (s *gameServiceImpl) LoadPreset(ctx context.Context, name string) (*Preset, error) {
	return s.presets.LoadPreset(name)
}

// SavePreset stores a board preset.
func (s *gameServiceImpl) SavePreset(ctx context.Context, name string, preset *Preset) error {
	return s.presets.SavePreset(name, preset)
}

func gameInfo(sess *Session) *GameInfo {
	return &GameInfo{
		ID:             sess.ID,
		Preset:         sess.Preset,
		Rows:           sess.Rows,
		Cols:           sess.Cols,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Engine.State(),
	}
}

// flipEvents derives the event stream for a flip outcome.
func flipEvents(outcome *engine.FlipOutcome) []GameEvent {
	now := time.Now()
	pos := outcome.Card.Position
	events := []GameEvent{{
		Type:      "flip",
		Message:   fmt.Sprintf("flipped card at (%d,%d)", pos.Row, pos.Col),
		Timestamp: now,
		Position:  &pos,
	}}

	switch {
	case outcome.Matched:
		events = append(events, GameEvent{
			Type:      "match",
			Message:   fmt.Sprintf("matched pair %s, score %d", outcome.Card.Symbol, outcome.Snapshot.Score),
			Timestamp: now,
			Position:  &pos,
		})
	case outcome.Mismatch:
		events = append(events, GameEvent{
			Type:      "mismatch",
			Message:   "no match, flip the pair back",
			Timestamp: now,
		})
	}

	if outcome.Won {
		events = append(events, GameEvent{
			Type:      "won",
			Message:   fmt.Sprintf("all pairs matched, final score %d", outcome.Snapshot.Score),
			Timestamp: now,
		})
	}
	return events
}
