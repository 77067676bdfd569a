package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.games == nil {
		t.Error("Hub games map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		gameID: "test-game",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)

	if _, exists := hub.games["test-game"]; !exists {
		t.Error("Game watcher set was not created")
	}
	if !hub.games["test-game"][client] {
		t.Error("Client was not registered for game")
	}
	if len(hub.games["test-game"]) != 1 {
		t.Errorf("Expected 1 client watching game, got %d", len(hub.games["test-game"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		gameID: "test-game",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.games["test-game"]; exists {
		t.Error("Game watcher set should have been cleaned up after last client left")
	}
}

func TestHubMultipleClientsPerGame(t *testing.T) {
	hub := NewHub()
	gameID := "multi-client-game"

	client1 := &Client{hub: hub, gameID: gameID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, gameID: gameID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.games[gameID]) != 2 {
		t.Errorf("Expected 2 clients watching game, got %d", len(hub.games[gameID]))
	}

	hub.unregisterClient(client1)

	if len(hub.games[gameID]) != 1 {
		t.Errorf("Expected 1 client remaining, got %d", len(hub.games[gameID]))
	}
	if !hub.games[gameID][client2] {
		t.Error("Wrong client was removed")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	gameID := "broadcast-game"

	watcher := &Client{hub: hub, gameID: gameID, send: make(chan []byte, 256)}
	other := &Client{hub: hub, gameID: "other-game", send: make(chan []byte, 256)}
	hub.registerClient(watcher)
	hub.registerClient(other)

	snap := &engine.Snapshot{Rows: 2, Cols: 2, Phase: engine.PhasePlaying}
	hub.broadcastMessage(&Message{
		GameID:   gameID,
		Event:    "state_update",
		Snapshot: snap,
		Events:   []service.GameEvent{{Type: "flip", Message: "flipped card at (0,0)"}},
	})

	select {
	case data := <-watcher.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to decode broadcast: %v", err)
		}
		if msg.GameID != gameID {
			t.Errorf("Expected game id %q, got %q", gameID, msg.GameID)
		}
		if msg.Event != "state_update" {
			t.Errorf("Expected state_update event, got %q", msg.Event)
		}
		if msg.Snapshot == nil || msg.Snapshot.Rows != 2 {
			t.Error("Snapshot missing or wrong in broadcast")
		}
		if len(msg.Events) != 1 || msg.Events[0].Type != "flip" {
			t.Error("Events missing or wrong in broadcast")
		}
	default:
		t.Fatal("Watcher did not receive the broadcast")
	}

	select {
	case <-other.send:
		t.Error("Client watching another game received the broadcast")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	gameID := "slow-game"

	// Zero-capacity channel: the first send fails and evicts the client.
	slow := &Client{hub: hub, gameID: gameID, send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{GameID: gameID, Event: "state_update"})

	if _, exists := hub.games[gameID]; exists {
		t.Error("Slow client should have been evicted")
	}
}

func TestHubRunLoop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{hub: hub, gameID: "run-game", send: make(chan []byte, 256)}
	hub.register <- client

	hub.BroadcastEvent("run-game", "game_deleted", map[string]string{"game_id": "run-game"})

	select {
	case data := <-client.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		if msg.Event != "game_deleted" {
			t.Errorf("Expected game_deleted event, got %q", msg.Event)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event broadcast")
	}
}
