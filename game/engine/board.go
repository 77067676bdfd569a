package engine

import "math/rand"

// symbolForPair returns the token for a pair index. With boards capped at
// 6x6 there are at most 18 pairs, so single letters suffice.
func symbolForPair(pair int) string {
	return string(rune('A' + pair))
}

// ValidateDimensions checks the board size against the supported range.
// The cell count must be even so every symbol can label exactly two cards.
func ValidateDimensions(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return failf(InvalidDimensions, "board dimensions must be positive, got %dx%d", rows, cols)
	}
	if rows > MaxRows || cols > MaxCols {
		return failf(InvalidDimensions, "board dimensions must not exceed %dx%d, got %dx%d", MaxRows, MaxCols, rows, cols)
	}
	if (rows*cols)%2 != 0 {
		return failf(InvalidDimensions, "board must have an even number of cells, got %d", rows*cols)
	}
	return nil
}

// buildDeck creates the shuffled card set for a rows x cols board: two cards
// per symbol, positions assigned after the shuffle and fixed from then on.
// The shuffle is a permutation of the pair multiset, never a re-sample.
func buildDeck(rows, cols int) []*Card {
	total := rows * cols
	cards := make([]*Card, total)
	for pair := 0; pair < total/2; pair++ {
		cards[2*pair] = &Card{Symbol: symbolForPair(pair)}
		cards[2*pair+1] = &Card{Symbol: symbolForPair(pair)}
	}

	rand.Shuffle(total, func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	for i, card := range cards {
		card.ID = i
		card.Pos = Position{Row: i / cols, Col: i % cols}
	}
	return cards
}

// buildIndex fills a position index with every card keyed by its grid cell.
func buildIndex(cards []*Card) *PositionIndex {
	ix := NewPositionIndex()
	for _, card := range cards {
		ix.Set(positionKey(card.Pos.Row, card.Pos.Col), card)
	}
	return ix
}

// buildGraph links every cell to its in-bounds 4-directional neighbors.
// Edges get registered from both endpoints; AddEdge tolerates the double
// adds.
func buildGraph(rows, cols int) *Graph {
	g := NewGraph()
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := r*cols + c
			g.AddVertex(id)
			for _, off := range offsets {
				nr, nc := r+off[0], c+off[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				g.AddEdge(id, nr*cols+nc)
			}
		}
	}
	return g
}
