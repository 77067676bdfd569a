// Package service provides the business logic layer for the pair-matching game.
//
// The service package implements:
//   - Multi-game instance management
//   - Board preset selection and loading
//   - Flip, flip-back, and undo orchestration
//   - Event derivation for transport layers
//   - High score and board analysis reads
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// GameManager handles game instance creation, retrieval, and lifecycle.
// PresetManager manages board preset loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing instance isolation, preset management, and
// business logic orchestration. Each game instance maintains its own engine
// with independent state, and the service mutex serializes operations so the
// engine itself never needs to lock.
//
// Usage:
//
//	games := session.NewManager()
//	presets, _ := config.NewManager("presets")
//	svc := service.NewGameService(games, presets)
//
//	// Create a new game
//	info, err := svc.CreateGame(ctx, service.CreateGameRequest{Preset: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Flip cards
//	result, err := svc.Flip(ctx, info.ID, 0, 0)
//
// Events:
//
// Mutating operations return the events they produced ("flip", "match",
// "mismatch", "won", "flip_back", "undo") so transports can broadcast them
// to watching clients without re-deriving state transitions.
package service
