// Package api provides the REST transport for the pair-matching game.
//
// Routes:
//
//	POST   /api/games              create a game (preset or explicit dimensions)
//	GET    /api/games              list games (sort/order/limit query params)
//	GET    /api/games/{id}         game info
//	DELETE /api/games/{id}         delete a game
//	GET    /api/games/{id}/state   board snapshot
//	POST   /api/games/{id}/flip    flip the card at {row, col}
//	POST   /api/games/{id}/flip-back  turn a mismatched pair face down
//	POST   /api/games/{id}/undo    undo the last flip
//	GET    /api/games/{id}/hint    matchable pair suggestion
//	GET    /api/games/{id}/scores  high scores (limit query param)
//	GET    /api/games/{id}/history  recorded flips, most recent first
//	GET    /api/games/{id}/analysis  board diagnostics
//	GET    /api/presets            list board presets
//	POST   /api/presets            save a board preset
//	GET    /api/presets/{name}     load a board preset
//	GET    /api/health             health check
//	GET    /ws?game={id}           WebSocket state stream
//
// Error Mapping:
//
// Engine failures carry a machine-readable kind in the JSON error body.
// Bad input (invalid dimensions, out of bounds) maps to 400, missing
// games and cards to 404, and state conflicts (already matched, already
// flipped, no pending pair, nothing to undo) to 409. Engine failures are
// never 500s: every one leaves the game unchanged.
//
// After each successful mutation the server broadcasts the new snapshot and
// the operation's events to WebSocket clients watching the game.
package api
