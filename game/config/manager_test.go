package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchpair/server/game/service"
)

func TestBuiltinsAvailableWithoutDirectory(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	preset, err := m.LoadPreset("classic")
	require.NoError(t, err)
	assert.Equal(t, 4, preset.Rows)
	assert.Equal(t, 4, preset.Cols)

	def := m.GetDefault()
	require.NotNil(t, def)
	assert.Equal(t, "classic", def.Name)

	_, err = m.LoadPreset("nope")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestLoadPresetFromFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"name":"wide","description":"wide board","rows":2,"cols":6}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wide.json"), data, 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	preset, err := m.LoadPreset("wide")
	require.NoError(t, err)
	assert.Equal(t, "wide", preset.Name)
	assert.Equal(t, 2, preset.Rows)
	assert.Equal(t, 6, preset.Cols)
}

func TestLoadPresetRejectsBadDimensions(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"name":"odd","rows":3,"cols":3}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.json"), data, 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	_, err = m.LoadPreset("odd")
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestLoadPresetRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	_, err = m.LoadPreset("broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPresetNotFound)
}

func TestListPresetsMergesFiles(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"name":"wide","rows":2,"cols":6}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wide.json"), data, 0644))
	// Invalid presets are skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.json"), []byte(`{"rows":3,"cols":3}`), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	infos, err := m.ListPresets()
	require.NoError(t, err)

	byName := map[string]*service.PresetInfo{}
	for _, info := range infos {
		byName[info.PresetID] = info
	}
	assert.Contains(t, byName, "classic")
	assert.Contains(t, byName, "wide")
	assert.NotContains(t, byName, "odd")
	assert.True(t, byName["classic"].Builtin)
	assert.False(t, byName["wide"].Builtin)
}

func TestSavePresetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	preset := &service.Preset{Name: "custom", Rows: 4, Cols: 6}
	require.NoError(t, m.SavePreset("custom", preset))

	// A fresh manager must read it back from disk.
	m2, err := NewManager(dir)
	require.NoError(t, err)
	loaded, err := m2.LoadPreset("custom")
	require.NoError(t, err)
	assert.Equal(t, preset.Rows, loaded.Rows)
	assert.Equal(t, preset.Cols, loaded.Cols)
}

func TestSavePresetValidates(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	err = m.SavePreset("bad", &service.Preset{Name: "bad", Rows: 7, Cols: 7})
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestSetDefault(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	require.NoError(t, m.SetDefault("challenge"))
	assert.Equal(t, "challenge", m.GetDefault().Name)

	assert.ErrorIs(t, m.SetDefault("nope"), ErrPresetNotFound)
}

func TestRefreshCacheDropsFileEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"wide","rows":2,"cols":6}`), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)
	_, err = m.LoadPreset("wide")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	m.RefreshCache()

	_, err = m.LoadPreset("wide")
	assert.ErrorIs(t, err, ErrPresetNotFound)
	_, err = m.LoadPreset("classic")
	assert.NoError(t, err)
}
