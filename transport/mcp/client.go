package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Pair Match",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Pair Match - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Flip cards two at a time and match every symbol pair on the board to win.

AVAILABLE TOOLS:
- create_game: Start a new game (preset or explicit rows/cols)
- game_state: Get the current board state
- flip_card: Flip the card at a row/col position
- flip_back: Turn a mismatched pair face down again
- undo_move: Undo the most recent flip
- get_hint: Get a matchable pair suggestion
- high_scores: List recorded scores for a game
- board_analysis: Board connectivity and structure diagnostics
- list_games / get_game / delete_game: Manage live games
- list_presets: List available board presets
- game_instructions: Get comprehensive game instructions and rules

NOTE: After a mismatch the two cards stay face up until you call flip_back.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Game lifecycle
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game, either from a preset or with explicit dimensions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset name, e.g. classic or challenge (optional)",
				},
				"rows": map[string]interface{}{
					"type":        "integer",
					"description": "Board rows (optional, used with cols)",
				},
				"cols": map[string]interface{}{
					"type":        "integer",
					"description": "Board columns (optional, used with rows)",
				},
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Label recorded with the final score (optional)",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all live games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get details of a specific game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID to retrieve",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_game",
		Description: "Delete a live game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID to delete",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleDeleteGame)

	// Gameplay
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "flip_card",
		Description: "Flip the card at a position. A second flip resolves the pair: matching cards stay up, a mismatched pair must be flipped back with flip_back before other cards can be flipped.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the card (0-based)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the card (0-based)",
				},
			},
			Required: []string{"game_id", "row", "col"},
		},
	}, c.handleFlipCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "flip_back",
		Description: "Turn a mismatched pair face down again",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleFlipBack)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo_move",
		Description: "Undo the most recent flip. Resolved matches are permanent and cannot be undone.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_hint",
		Description: "Get a currently matchable pair suggestion without changing the game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "high_scores",
		Description: "List recorded scores for a game, best first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum entries to return (default 10)",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleHighScores)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_analysis",
		Description: "Board diagnostics: adjacency components, index load, history depth, ledger contents",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleAnalysis)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	body := map[string]interface{}{}
	if preset, _ := args["preset"].(string); preset != "" {
		body["preset"] = preset
	}
	if rows, ok := args["rows"].(float64); ok {
		body["rows"] = int(rows)
	}
	if cols, ok := args["cols"].(float64); ok {
		body["cols"] = int(cols)
	}
	if label, _ := args["label"].(string); label != "" {
		body["label"] = label
	}

	var info service.GameInfo
	if err := c.apiCall("POST", "/api/games", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nBoard: %dx%d\n\n%s",
		info.ID, info.Rows, info.Cols, formatSnapshot(info.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                `json:"count"`
		Games []service.GameInfo `json:"games"`
	}

	if err := c.apiCall("GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		result += fmt.Sprintf("- %s (%dx%d, phase: %s, moves: %d, created: %s)\n",
			g.ID, g.Rows, g.Cols, g.State.Phase, g.State.Moves,
			g.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var info service.GameInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s", gameID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game: %s\nPreset: %s\nCreated: %s\n\n%s",
		info.ID, info.Preset,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(info.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDeleteGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	if err := c.apiCall("DELETE", fmt.Sprintf("/api/games/%s", gameID), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted game %s", gameID)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var snap engine.Snapshot
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/state", gameID), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleFlipCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	row := int(args["row"].(float64))
	col := int(args["col"].(float64))

	body := map[string]int{"row": row, "col": col}

	var result service.FlipResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/flip", gameID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFlipResult(&result)), nil
}

func (c *Client) handleFlipBack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var result service.StateResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/flip-back", gameID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := "Pair flipped back\n\n" + formatSnapshot(result.Snapshot)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var result service.StateResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/undo", gameID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := "Last flip undone\n\n" + formatSnapshot(result.Snapshot)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var hint engine.Hint
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/hint", gameID), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !hint.Found {
		return mcp.NewToolResultText(hint.Message), nil
	}

	result := fmt.Sprintf("%s\nSymbol: %s\nPositions:", hint.Message, hint.Symbol)
	for _, pos := range hint.Positions {
		result += fmt.Sprintf(" (%d,%d)", pos.Row, pos.Col)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleHighScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	path := fmt.Sprintf("/api/games/%s/scores", gameID)
	if limit, ok := args["limit"].(float64); ok {
		path += fmt.Sprintf("?limit=%d", int(limit))
	}

	var response struct {
		GameID string              `json:"game_id"`
		Scores []engine.ScoreEntry `json:"scores"`
	}
	if err := c.apiCall("GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(response.Scores) == 0 {
		return mcp.NewToolResultText("No scores recorded yet."), nil
	}

	result := "High Scores:\n\n"
	for i, entry := range response.Scores {
		result += fmt.Sprintf("%d. %s: %d\n", i+1, entry.Label, entry.Score)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var report engine.AnalysisReport
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/analysis", gameID), nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Board Analysis:\n\n")
	b.WriteString(fmt.Sprintf("Adjacency components: %d %v\n", report.ComponentCount, report.ComponentSizes))
	b.WriteString(fmt.Sprintf("Position index entries: %d\n", report.IndexSize))
	b.WriteString(fmt.Sprintf("History depth: %d\n", report.HistoryDepth))
	b.WriteString(fmt.Sprintf("Ledger entries: %d\n", report.LedgerSize))
	if len(report.ScoresDescending) > 0 {
		b.WriteString(fmt.Sprintf("Scores (descending): %v\n", report.ScoresDescending))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []service.PresetInfo
	if err := c.apiCall("GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Presets:\n\n"
	for _, p := range presets {
		kind := "user"
		if p.Builtin {
			kind = "builtin"
		}
		result += fmt.Sprintf("- %s (%dx%d, %s) %s\n", p.Name, p.Rows, p.Cols, kind, p.Description)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Pair Match - Complete Instructions

GAME OBJECTIVE:
Match every symbol pair on the board. Each symbol appears on exactly two
cards; the board starts fully face down.

GAME MECHANICS:
- flip_card turns one card face up and counts one move
- The second face-up card resolves the pair:
  - Same symbol: both cards lock as matched, +10 points
  - Different symbols: both stay face up until you call flip_back
- While a mismatched pair is face up, no other card can be flipped
- undo_move reverses the most recent flip (moves go back down by one);
  resolved matches are permanent and cannot be undone
- Matching the final pair wins the game and freezes the clock

BOARD DISPLAY:
- "." face-down card
- Uppercase letter: face-up unmatched card showing its symbol
- Lowercase letter: matched card (locked)

SCORING (on win):
- 10 points per matched pair
- Time bonus: 1000 minus elapsed seconds, floored at zero
- Move bonus: 50 minus moves taken, floored at zero
Fewer moves and faster play both raise the final score.

STRATEGY FOR AGENTS:
- Track every symbol you have seen and where it was
- Use get_hint sparingly: it reveals a matchable pair but does not flip
- Prefer flipping unseen cards with your first flip of a pair, then
  matching a known card with the second
- The move bonus means blind double-flips are expensive on small boards

FAILURE MODES (the game state never changes on a failed call):
- out_of_bounds: position outside the board
- already_flipped / already_matched: card cannot be flipped again
- no_pending_pair: flip_back without a mismatched pair face up
- no_move_to_undo: undo with an empty history

GAME MANAGEMENT:
- Multiple games can run simultaneously, each with independent state
- Boards go up to 6x6; presets cover common sizes (classic is 4x4)
- Games idle too long are evicted by the server`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

// formatSnapshot renders the board as a compact character grid: '.' for face
// down, the symbol for face up, lowercase for matched.
func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil {
		return "No game state available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Board: %dx%d | Moves: %d | Score: %d | Pairs: %d/%d | Phase: %s\n\n",
		snap.Rows, snap.Cols, snap.Moves, snap.Score,
		snap.MatchedPairs, len(snap.Cards)/2, snap.Phase))

	grid := make([][]string, snap.Rows)
	for r := range grid {
		grid[r] = make([]string, snap.Cols)
		for c := range grid[r] {
			grid[r][c] = "."
		}
	}
	for _, card := range snap.Cards {
		switch {
		case card.Matched:
			grid[card.Position.Row][card.Position.Col] = strings.ToLower(card.Symbol)
		case card.Flipped:
			grid[card.Position.Row][card.Position.Col] = card.Symbol
		}
	}
	for _, row := range grid {
		result.WriteString(strings.Join(row, " "))
		result.WriteString("\n")
	}

	if snap.PendingCount == 2 {
		result.WriteString("\nA mismatched pair is face up: call flip_back before flipping other cards.")
	}
	if snap.Phase == engine.PhaseWon {
		result.WriteString(fmt.Sprintf("\nGAME WON! Final score: %d", snap.Score))
	}

	return result.String()
}

func formatFlipResult(result *service.FlipResult) string {
	out := result.Outcome
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Flipped (%d,%d): %s\n",
		out.Card.Position.Row, out.Card.Position.Col, out.Card.Symbol))

	switch {
	case out.Matched && out.MatchedWith != nil:
		b.WriteString(fmt.Sprintf("MATCH with (%d,%d)\n",
			out.MatchedWith.Position.Row, out.MatchedWith.Position.Col))
	case out.Mismatch:
		b.WriteString("Mismatch: call flip_back to continue\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(out.Snapshot))
	return b.String()
}
