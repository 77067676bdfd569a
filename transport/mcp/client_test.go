package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.GetMCPServer() == nil {
		t.Error("MCP server was not initialized")
	}
}

func TestAPICallErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"no mismatched pair is pending","kind":"no_pending_pair"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.apiCall("POST", "/api/games/x/flip-back", nil, nil)
	if err == nil {
		t.Fatal("Expected error from 409 response")
	}
	if err.Error() != "no mismatched pair is pending" {
		t.Errorf("Expected error message from body, got %q", err.Error())
	}
}

func TestAPICallDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rows":2,"cols":2,"phase":"playing"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	var snap engine.Snapshot
	if err := client.apiCall("GET", "/api/games/x/state", nil, &snap); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if snap.Rows != 2 || snap.Phase != engine.PhasePlaying {
		t.Errorf("Snapshot not decoded: %+v", snap)
	}
}

func TestFormatSnapshot(t *testing.T) {
	snap := &engine.Snapshot{
		Rows: 1, Cols: 4,
		Moves: 3, Score: 10, MatchedPairs: 1,
		Phase:        engine.PhasePlaying,
		PendingCount: 0,
		Cards: []engine.CardSnapshot{
			{ID: 0, Symbol: "A", Matched: true, Position: engine.Position{Row: 0, Col: 0}},
			{ID: 1, Symbol: "A", Matched: true, Position: engine.Position{Row: 0, Col: 1}},
			{ID: 2, Symbol: "B", Flipped: true, Position: engine.Position{Row: 0, Col: 2}},
			{ID: 3, Symbol: "B", Position: engine.Position{Row: 0, Col: 3}},
		},
	}

	out := formatSnapshot(snap)

	if !strings.Contains(out, "a a B .") {
		t.Errorf("Board row not rendered as expected:\n%s", out)
	}
	if !strings.Contains(out, "Pairs: 1/2") {
		t.Errorf("Pair count missing:\n%s", out)
	}
}

func TestFormatSnapshotPendingWarning(t *testing.T) {
	snap := &engine.Snapshot{
		Rows: 1, Cols: 2, Phase: engine.PhasePlaying, PendingCount: 2,
		Cards: []engine.CardSnapshot{
			{Symbol: "A", Flipped: true, Position: engine.Position{Row: 0, Col: 0}},
			{Symbol: "B", Flipped: true, Position: engine.Position{Row: 0, Col: 1}},
		},
	}

	out := formatSnapshot(snap)
	if !strings.Contains(out, "flip_back") {
		t.Errorf("Expected pending pair warning:\n%s", out)
	}
}

func TestFormatFlipResult_Match(t *testing.T) {
	result := &service.FlipResult{
		GameID: "g1",
		Outcome: &engine.FlipOutcome{
			Card: engine.CardSnapshot{
				Symbol: "C", Flipped: true,
				Position: engine.Position{Row: 1, Col: 1},
			},
			Matched: true,
			MatchedWith: &engine.CardSnapshot{
				Symbol: "C", Flipped: true,
				Position: engine.Position{Row: 0, Col: 0},
			},
			Snapshot: &engine.Snapshot{Rows: 2, Cols: 2, Phase: engine.PhasePlaying},
		},
		Events: []service.GameEvent{{Type: "match", Message: "matched pair C, score 10"}},
	}

	out := formatFlipResult(result)
	if !strings.Contains(out, "MATCH with (0,0)") {
		t.Errorf("Match line missing:\n%s", out)
	}
	if !strings.Contains(out, "matched pair C") {
		t.Errorf("Event line missing:\n%s", out)
	}
}
