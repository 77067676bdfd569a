// Command play is an interactive terminal client for the pair-matching game
// server. It creates a game over the REST API and runs a small REPL; after a
// mismatch it waits briefly so the player sees both cards, then flips the
// pair back. The server never schedules that reversal itself.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/matchpair/server/game/engine"
	"github.com/matchpair/server/game/service"
)

func main() {
	cmd := &cli.Command{
		Name:  "play",
		Usage: "terminal client for the pair match server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "http://localhost:8080",
				Usage: "base URL of the game server",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "create a game and start the interactive loop",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "preset", Usage: "board preset name"},
					&cli.IntFlag{Name: "rows", Usage: "board rows (with --cols)"},
					&cli.IntFlag{Name: "cols", Usage: "board columns (with --rows)"},
					&cli.StringFlag{Name: "label", Usage: "label recorded with the final score"},
				},
				Action: runNew,
			},
			{
				Name:      "join",
				Usage:     "attach the interactive loop to an existing game",
				ArgsUsage: "GAME_ID",
				Action:    runJoin,
			},
			{
				Name:   "games",
				Usage:  "list live games on the server",
				Action: runGames,
			},
			{
				Name:   "presets",
				Usage:  "list available board presets",
				Action: runPresets,
			},
			{
				Name:      "scores",
				Usage:     "show recorded scores for a game",
				ArgsUsage: "GAME_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "maximum entries to show"},
				},
				Action: runScores,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runNew(ctx context.Context, cmd *cli.Command) error {
	client := newAPIClient(cmd.String("server"))

	body := map[string]interface{}{}
	if preset := cmd.String("preset"); preset != "" {
		body["preset"] = preset
	}
	if rows := cmd.Int("rows"); rows > 0 {
		body["rows"] = rows
	}
	if cols := cmd.Int("cols"); cols > 0 {
		body["cols"] = cols
	}
	if label := cmd.String("label"); label != "" {
		body["label"] = label
	}

	var info service.GameInfo
	if err := client.call("POST", "/api/games", body, &info); err != nil {
		return err
	}

	fmt.Printf("Created game %s (%dx%d)\n", info.ID, info.Rows, info.Cols)
	return repl(client, info.ID)
}

func runJoin(ctx context.Context, cmd *cli.Command) error {
	gameID := cmd.Args().First()
	if gameID == "" {
		return fmt.Errorf("usage: play join GAME_ID")
	}

	client := newAPIClient(cmd.String("server"))
	var info service.GameInfo
	if err := client.call("GET", "/api/games/"+gameID, nil, &info); err != nil {
		return err
	}

	return repl(client, gameID)
}

func runGames(ctx context.Context, cmd *cli.Command) error {
	client := newAPIClient(cmd.String("server"))

	var response struct {
		Count int                `json:"count"`
		Games []service.GameInfo `json:"games"`
	}
	if err := client.call("GET", "/api/games", nil, &response); err != nil {
		return err
	}

	fmt.Printf("Live games: %d\n", response.Count)
	for _, g := range response.Games {
		fmt.Printf("  %s  %dx%d  phase=%s moves=%d score=%d\n",
			g.ID, g.Rows, g.Cols, g.State.Phase, g.State.Moves, g.State.Score)
	}
	return nil
}

func runPresets(ctx context.Context, cmd *cli.Command) error {
	client := newAPIClient(cmd.String("server"))

	var presets []service.PresetInfo
	if err := client.call("GET", "/api/presets", nil, &presets); err != nil {
		return err
	}

	for _, p := range presets {
		kind := "user"
		if p.Builtin {
			kind = "builtin"
		}
		fmt.Printf("  %-10s %dx%d  (%s)  %s\n", p.Name, p.Rows, p.Cols, kind, p.Description)
	}
	return nil
}

func runScores(ctx context.Context, cmd *cli.Command) error {
	gameID := cmd.Args().First()
	if gameID == "" {
		return fmt.Errorf("usage: play scores GAME_ID")
	}

	client := newAPIClient(cmd.String("server"))
	path := "/api/games/" + gameID + "/scores"
	if limit := cmd.Int("limit"); limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var response struct {
		Scores []engine.ScoreEntry `json:"scores"`
	}
	if err := client.call("GET", path, nil, &response); err != nil {
		return err
	}

	if len(response.Scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}
	for i, entry := range response.Scores {
		fmt.Printf("%d. %s: %d\n", i+1, entry.Label, entry.Score)
	}
	return nil
}

// mismatchDelay is how long the client shows a mismatched pair before
// flipping it back.
const mismatchDelay = 1500 * time.Millisecond

// repl runs the interactive flip loop against one game.
func repl(client *apiClient, gameID string) error {
	var snap engine.Snapshot
	if err := client.call("GET", "/api/games/"+gameID+"/state", nil, &snap); err != nil {
		return err
	}
	printBoard(&snap)
	fmt.Println(`Commands: flip ROW COL | hint | undo | state | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return nil

		case "state":
			if err := client.call("GET", "/api/games/"+gameID+"/state", nil, &snap); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printBoard(&snap)

		case "hint":
			var hint engine.Hint
			if err := client.call("GET", "/api/games/"+gameID+"/hint", nil, &hint); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println(hint.Message)

		case "undo":
			var result service.StateResult
			if err := client.call("POST", "/api/games/"+gameID+"/undo", nil, &result); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printBoard(result.Snapshot)

		case "flip":
			if len(fields) != 3 {
				fmt.Println("usage: flip ROW COL")
				continue
			}
			row, err1 := strconv.Atoi(fields[1])
			col, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				fmt.Println("usage: flip ROW COL")
				continue
			}

			done, err := doFlip(client, gameID, row, col)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if done {
				return nil
			}

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

// doFlip executes one flip and handles the mismatch pause. It returns true
// when the game is won.
func doFlip(client *apiClient, gameID string, row, col int) (bool, error) {
	var result service.FlipResult
	body := map[string]int{"row": row, "col": col}
	if err := client.call("POST", "/api/games/"+gameID+"/flip", body, &result); err != nil {
		return false, err
	}

	out := result.Outcome
	printBoard(out.Snapshot)

	switch {
	case out.Won:
		fmt.Printf("You won! Final score: %d\n", out.Snapshot.Score)
		return true, nil

	case out.Matched:
		fmt.Printf("Match! %s pair locked in.\n", out.Card.Symbol)

	case out.Mismatch:
		fmt.Println("No match...")
		time.Sleep(mismatchDelay)

		var back service.StateResult
		if err := client.call("POST", "/api/games/"+gameID+"/flip-back", nil, &back); err != nil {
			return false, err
		}
		printBoard(back.Snapshot)
	}
	return false, nil
}

// printBoard renders the snapshot as a grid with coordinates: '.' face down,
// uppercase face up, lowercase matched.
func printBoard(snap *engine.Snapshot) {
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

	fmt.Print("\n   ")
	for c := 0; c < snap.Cols; c++ {
		fmt.Printf("%d ", c)
	}
	fmt.Println()
	for r, row := range grid {
		fmt.Printf("%2d %s\n", r, strings.Join(row, " "))
	}
	fmt.Printf("moves=%d score=%d pairs=%d/%d\n\n",
		snap.Moves, snap.Score, snap.MatchedPairs, len(snap.Cards)/2)
}

// apiClient is a minimal JSON client for the REST API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) call(method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
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
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}
