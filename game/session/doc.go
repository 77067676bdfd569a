// Package session provides the registry of live game instances.
//
// The session package implements:
//   - Thread-safe game storage and retrieval
//   - Unique game ID generation
//   - Game lifecycle management
//   - Concurrent access control
//   - Expired game cleanup
//
// Core Types:
//
// Manager is the registry that handles all game instance operations.
// IDSource abstracts identifier generation: UUIDSource for production,
// SequenceSource for deterministic test ids.
//
// Concurrency:
//
// The manager is thread-safe and supports concurrent operations. Multiple
// goroutines can safely create, retrieve, and delete different games
// simultaneously. Internal locking ensures registry consistency; per-game
// operation ordering is the service layer's responsibility.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new game on a 4x4 board
//	sess, err := manager.Create("classic", 4, 4)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve it later
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// Games can be explicitly deleted or evicted by the CleanupExpired reaper
// based on last access time, so an unattended server does not accumulate
// abandoned boards.
package session
