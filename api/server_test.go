package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchpair/server/game/config"
	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
	"github.com/matchpair/server/game/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	presets, err := config.NewManager("")
	require.NoError(t, err)
	games := session.NewManagerWithIDSource(&session.SequenceSource{})
	return NewServer(service.NewGameService(games, presets), nil)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(into))
}

func createGame(t *testing.T, srv *Server, rows, cols int) *service.GameInfo {
	t.Helper()
	rec := doJSON(t, srv, "POST", "/api/games", map[string]int{"rows": rows, "cols": cols})
	require.Equal(t, http.StatusCreated, rec.Code)
	var info service.GameInfo
	decode(t, rec, &info)
	return &info
}

func TestCreateGame(t *testing.T) {
	srv := newTestServer(t)

	info := createGame(t, srv, 2, 2)
	assert.Equal(t, "game-1", info.ID)
	assert.Len(t, info.State.Cards, 4)
	assert.Equal(t, engine.PhasePlaying, info.State.Phase)
}

func TestCreateGame_DefaultPreset(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/games", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var info service.GameInfo
	decode(t, rec, &info)
	assert.Equal(t, "classic", info.Preset)
	assert.Equal(t, 4, info.Rows)
}

func TestCreateGame_InvalidDimensions(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/games", map[string]int{"rows": 3, "cols": 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, string(engine.InvalidDimensions), body["kind"])
}

func TestGetGame_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/api/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteGame(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	rec := doJSON(t, srv, "DELETE", "/api/games/"+info.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "GET", "/api/games/"+info.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGames(t *testing.T) {
	srv := newTestServer(t)
	createGame(t, srv, 2, 2)
	createGame(t, srv, 2, 2)

	rec := doJSON(t, srv, "GET", "/api/games?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int                `json:"count"`
		Games []service.GameInfo `json:"games"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 1, body.Count)
	assert.Len(t, body.Games, 1)
}

func TestFlip_OutOfBounds(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip", info.ID), map[string]int{"row": 9, "col": 9})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, string(engine.OutOfBounds), body["kind"])
}

func TestFlip_MatchFlow(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	// Find two cards sharing a symbol.
	var first, second *engine.CardSnapshot
	for i := range info.State.Cards {
		for j := i + 1; j < len(info.State.Cards); j++ {
			if info.State.Cards[i].Symbol == info.State.Cards[j].Symbol {
				first, second = &info.State.Cards[i], &info.State.Cards[j]
			}
		}
	}
	require.NotNil(t, first)

	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip", info.ID),
		map[string]int{"row": first.Position.Row, "col": first.Position.Col})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip", info.ID),
		map[string]int{"row": second.Position.Row, "col": second.Position.Col})
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.FlipResult
	decode(t, rec, &result)
	assert.True(t, result.Outcome.Matched)
	assert.Equal(t, engine.MatchPoints, result.Outcome.Snapshot.Score)
}

func TestFlip_StateConflictIs409(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	pos := info.State.Cards[0].Position
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip", info.ID),
		map[string]int{"row": pos.Row, "col": pos.Col})
	require.Equal(t, http.StatusOK, rec.Code)

	// Same card again
	rec = doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip", info.ID),
		map[string]int{"row": pos.Row, "col": pos.Col})
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, string(engine.AlreadyFlipped), body["kind"])
}

func TestFlipBack_NoPendingPair(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip-back", info.ID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, string(engine.NoPendingPair), body["kind"])
}

func TestUndo_EmptyHistory(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/undo", info.ID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, string(engine.NoMoveToUndo), body["kind"])
}

func TestReadEndpoints(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	rec := doJSON(t, srv, "GET", fmt.Sprintf("/api/games/%s/state", info.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap engine.Snapshot
	decode(t, rec, &snap)
	assert.Len(t, snap.Cards, 4)

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/games/%s/hint", info.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hint engine.Hint
	decode(t, rec, &hint)
	assert.True(t, hint.Found)

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/games/%s/scores", info.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/games/%s/analysis", info.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report engine.AnalysisReport
	decode(t, rec, &report)
	assert.Equal(t, 1, report.ComponentCount)
}

func TestHistoryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	info := createGame(t, srv, 2, 2)

	pos := info.State.Cards[0].Position
	rec := doJSON(t, srv, "POST", fmt.Sprintf("/api/games/%s/flip", info.ID),
		map[string]int{"row": pos.Row, "col": pos.Col})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "GET", fmt.Sprintf("/api/games/%s/history", info.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int                 `json:"count"`
		Moves []engine.MoveRecord `json:"moves"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Moves, 1)
	assert.Equal(t, engine.ActionFlip, body.Moves[0].Action)
}

func TestPresetEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/api/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var infos []service.PresetInfo
	decode(t, rec, &infos)

	names := make([]string, 0, len(infos))
	for _, p := range infos {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "classic")

	rec = doJSON(t, srv, "GET", "/api/presets/classic", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var preset service.Preset
	decode(t, rec, &preset)
	assert.Equal(t, 4, preset.Rows)

	rec = doJSON(t, srv, "GET", "/api/presets/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
}
