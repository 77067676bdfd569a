// Package engine implements the memory pair-matching game as a pure,
// synchronous state machine.
//
// A Game owns its card set plus the auxiliary structures backing it: a
// fixed-capacity hashed position index, an undirected adjacency graph over
// the grid, a LIFO move history for undo, and an ordered score ledger. All
// operations complete immediately and return tagged, recoverable failures;
// the engine never sleeps, schedules work, or locks. Hosts serialize calls
// per instance and own any wait-before-flip-back pacing.
package engine
