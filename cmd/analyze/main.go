// Command analyze prints quick, human-readable diagnostics for board
// presets. For each preset it builds a board and reports card layout,
// adjacency connectivity, and shortest-path spot checks against Manhattan
// distance, which catches any preset whose grid wiring is broken.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matchpair/server/game/config"
	"github.com/matchpair/server/game/engine"
)

func main() {
	presetDir := flag.String("presets", "", "directory of user preset JSON files to include")
	flag.Parse()

	manager, err := config.NewManager(*presetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating preset manager: %v\n", err)
		os.Exit(1)
	}

	infos, err := manager.ListPresets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing presets: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.PresetID)
		analyzePreset(info.Rows, info.Cols, info.Description)
	}
}

func analyzePreset(rows, cols int, description string) {
	game, err := engine.NewGame(rows, cols)
	if err != nil {
		fmt.Printf("Error building board: %v\n", err)
		return
	}

	snap := game.State()
	fmt.Printf("Board: %d x %d (%d cards, %d pairs)\n", rows, cols, len(snap.Cards), len(snap.Cards)/2)
	if description != "" {
		fmt.Printf("Description: %s\n", description)
	}

	// Symbol distribution: every symbol must appear exactly twice.
	counts := map[string]int{}
	for _, card := range snap.Cards {
		counts[card.Symbol]++
	}
	bad := 0
	for symbol, n := range counts {
		if n != 2 {
			fmt.Printf("  BAD PAIR: symbol %s appears %d times\n", symbol, n)
			bad++
		}
	}
	if bad == 0 {
		fmt.Printf("Symbols: %d distinct, all paired\n", len(counts))
	}

	// Connectivity: a grid board is one component.
	components := game.Components()
	fmt.Printf("Adjacency components: %d", len(components))
	if len(components) != 1 {
		fmt.Printf("  WARNING: grid should be fully connected")
	}
	fmt.Println()

	report := game.Analysis()
	fmt.Printf("Position index entries: %d\n", report.IndexSize)

	// Spot check: BFS distance between opposite corners must equal the
	// Manhattan distance on an unobstructed grid.
	var corner1, corner2 int
	for _, card := range snap.Cards {
		if card.Position.Row == 0 && card.Position.Col == 0 {
			corner1 = card.ID
		}
		if card.Position.Row == rows-1 && card.Position.Col == cols-1 {
			corner2 = card.ID
		}
	}
	path := game.PathBetween(corner1, corner2)
	manhattan := (rows - 1) + (cols - 1)
	status := "OK"
	if !path.Found || path.Steps != manhattan {
		status = fmt.Sprintf("MISMATCH (expected %d)", manhattan)
	}
	fmt.Printf("Corner-to-corner path: %d steps, manhattan %d: %s\n", path.Steps, manhattan, status)
}
