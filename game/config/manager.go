package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidPreset  = errors.New("invalid preset")
)

// builtinPresets are always available, whether or not a preset directory is
// configured. "classic" is the default.
var builtinPresets = []*service.Preset{
	{Name: "mini", Description: "Two cards, one pair", Rows: 1, Cols: 2},
	{Name: "quick", Description: "Small warm-up board", Rows: 2, Cols: 2},
	{Name: "classic", Description: "The standard 4x4 board", Rows: 4, Cols: 4},
	{Name: "challenge", Description: "Largest supported board", Rows: 6, Cols: 6},
}

// Manager handles board preset loading and caching. Builtin presets are
// served from memory and take precedence; a preset directory, when present,
// adds user-defined JSON presets under their own names.
type Manager struct {
	presetDir  string
	defaultOne *service.Preset
	presets    map[string]*service.Preset
	mu         sync.RWMutex
}

// NewManager creates a new preset manager. presetDir may be empty or point
// at a nonexistent directory, in which case only builtins are available.
func NewManager(presetDir string) (*Manager, error) {
	m := &Manager{
		presetDir: presetDir,
		presets:   make(map[string]*service.Preset),
	}

	for _, p := range builtinPresets {
		m.presets[p.Name] = p
		if p.Name == "classic" {
			m.defaultOne = p
		}
	}

	if presetDir != "" {
		if _, err := os.Stat(presetDir); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat preset directory: %w", err)
		}
	}

	return m, nil
}

// LoadPreset loads a preset by name, checking the cache of builtins and
// previously loaded files before going to disk.
func (m *Manager) LoadPreset(name string) (*service.Preset, error) {
	m.mu.RLock()
	if preset, exists := m.presets[name]; exists {
		m.mu.RUnlock()
		return preset, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock
	if preset, exists := m.presets[name]; exists {
		return preset, nil
	}

	if m.presetDir == "" {
		return nil, ErrPresetNotFound
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := os.ReadFile(filepath.Join(m.presetDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPresetNotFound
		}
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}

	var preset service.Preset
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}
	if preset.Name == "" {
		preset.Name = name
	}
	if err := engine.ValidateDimensions(preset.Rows, preset.Cols); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	m.presets[name] = &preset
	return &preset, nil
}

// ListPresets returns information about all available presets, builtins
// first, then the contents of the preset directory.
func (m *Manager) ListPresets() ([]*service.PresetInfo, error) {
	var infos []*service.PresetInfo
	for _, p := range builtinPresets {
		infos = append(infos, &service.PresetInfo{
			PresetID:    p.Name,
			Name:        p.Name,
			Description: p.Description,
			Rows:        p.Rows,
			Cols:        p.Cols,
			Builtin:     true,
		})
	}

	if m.presetDir == "" {
		return infos, nil
	}
	entries, err := os.ReadDir(m.presetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return infos, nil
		}
		return nil, fmt.Errorf("failed to read preset directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		preset, err := m.LoadPreset(name)
		if err != nil {
			// Skip unreadable or invalid presets
			continue
		}
		infos = append(infos, &service.PresetInfo{
			PresetID:    name,
			Name:        preset.Name,
			Description: preset.Description,
			Rows:        preset.Rows,
			Cols:        preset.Cols,
		})
	}

	return infos, nil
}

// GetDefault returns the default preset.
func (m *Manager) GetDefault() *service.Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultOne
}

// SetDefault sets the default preset by name.
func (m *Manager) SetDefault(name string) error {
	preset, err := m.LoadPreset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultOne = preset
	return nil
}

// SavePreset validates and writes a preset to the preset directory.
func (m *Manager) SavePreset(name string, preset *service.Preset) error {
	if err := engine.ValidateDimensions(preset.Rows, preset.Cols); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	if m.presetDir == "" {
		return errors.New("no preset directory configured")
	}
	if err := os.MkdirAll(m.presetDir, 0755); err != nil {
		return fmt.Errorf("failed to create preset directory: %w", err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	data, err := json.MarshalIndent(preset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preset: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.presetDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write preset file: %w", err)
	}

	m.mu.Lock()
	m.presets[name] = preset
	m.mu.Unlock()

	return nil
}

// RefreshCache drops file-backed presets from the cache so subsequent loads
// reread them from disk. Builtins are restored.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.presets = make(map[string]*service.Preset)
	for _, p := range builtinPresets {
		m.presets[p.Name] = p
	}
}
