// Package config provides board preset management for the pair-matching game.
//
// The config package handles:
//   - Builtin presets served from memory
//   - Loading user presets from JSON files
//   - Preset validation against board dimension rules
//   - Default preset management
//
// Preset Format:
//
// A preset is a named board configuration with rows, cols, and an optional
// description. User presets are stored as JSON files in the preset directory
// and must satisfy the engine's dimension rules (positive, at most 6x6,
// even number of cells).
//
// Builtin Presets:
//
//   - mini: 1x2 board with a single pair
//   - quick: 2x2 warm-up board
//   - classic: the standard 4x4 board (default)
//   - challenge: the largest supported 6x6 board
//
// Usage:
//
//	manager, err := config.NewManager("presets")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadPreset("classic")
//	infos, err := manager.ListPresets()
//	def := manager.GetDefault()
package config
