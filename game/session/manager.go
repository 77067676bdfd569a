package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

// IDSource produces identifiers for new games. Injecting it keeps tests
// deterministic instead of deriving ids from timestamps.
type IDSource interface {
	NewID() string
}

// UUIDSource issues random UUID identifiers.
type UUIDSource struct{}

// NewID returns a fresh UUID string.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// SequenceSource issues "game-<n>" identifiers from a monotonic counter.
type SequenceSource struct {
	mu sync.Mutex
	n  int
}

// NewID returns the next sequential identifier.
func (s *SequenceSource) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("game-%d", s.n)
}

// Manager is the registry of live game instances. It owns the id → engine
// mapping and its lifecycle; eviction happens through Delete and the
// CleanupExpired reaper, so the registry never grows without bound.
type Manager struct {
	games map[string]*service.Session
	ids   IDSource
	mu    sync.RWMutex
}

// NewManager creates a registry with UUID identifiers.
func NewManager() *Manager {
	return NewManagerWithIDSource(UUIDSource{})
}

// NewManagerWithIDSource creates a registry with a custom identifier source.
func NewManagerWithIDSource(ids IDSource) *Manager {
	return &Manager{
		games: make(map[string]*service.Session),
		ids:   ids,
	}
}

// Create builds a new engine instance on a rows x cols board and registers
// it under a fresh id.
func (m *Manager) Create(preset string, rows, cols int) (*service.Session, error) {
	eng, err := engine.NewGame(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.ids.NewID()
	for m.games[id] != nil {
		id = m.ids.NewID()
	}
	eng.SetLabel(id)

	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Preset:         preset,
		Rows:           rows,
		Cols:           cols,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.games[id] = sess
	return sess, nil
}

// Get retrieves a game by id.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return sess, nil
}

// List returns all live games.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.games))
	for _, sess := range m.games {
		result = append(result, sess)
	}
	return result
}

// Delete evicts a game.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

// UpdateLastAccessed refreshes a game's access time for the reaper.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.games[id]
	if !ok {
		return ErrGameNotFound
	}
	sess.LastAccessedAt = time.Now()
	return nil
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// CleanupExpired removes games not accessed within maxAge and returns how
// many were evicted.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, sess := range m.games {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.games, id)
			removed++
		}
	}
	return removed
}
