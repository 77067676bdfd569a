// Package websocket provides real-time state broadcasting for the
// pair-matching game.
//
// The websocket package implements:
//   - Game-aware WebSocket connections
//   - Automatic snapshot broadcasting after mutations
//   - Connection lifecycle management with ping/pong keepalive
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a pair of
// goroutines pumping reads and writes.
//
// Message Protocol:
//
// Outgoing messages are JSON-encoded Message values: a state_update carries
// the board snapshot after a mutation plus the events the operation produced
// ("flip", "match", "mismatch", "won", "flip_back", "undo"). Incoming client
// messages are ignored; gameplay mutations go through the REST API.
//
// Game Integration:
//
// Connections are game-aware. Clients specify the game they watch via query
// parameter (?game=<id>) when establishing the connection, and updates are
// broadcast only to clients watching that game.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after a successful flip
//	hub.BroadcastState(gameID, result.Outcome.Snapshot, result.Events)
//
// Concurrency:
//
// All registry mutations and fan-out happen on the hub's event loop, so the
// watcher maps need no locking. BroadcastState and BroadcastEvent may be
// called from any goroutine once Run is started.
package websocket
