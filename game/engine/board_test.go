package engine

import "testing"

func TestBuildDeck_PairInvariant(t *testing.T) {
	dims := []struct{ rows, cols int }{
		{2, 2}, {2, 3}, {4, 4}, {5, 4}, {6, 6},
	}
	for _, d := range dims {
		cards := buildDeck(d.rows, d.cols)
		total := d.rows * d.cols
		if len(cards) != total {
			t.Fatalf("%dx%d: expected %d cards, got %d", d.rows, d.cols, total, len(cards))
		}

		counts := make(map[string]int)
		for i, card := range cards {
			if card.ID != i {
				t.Errorf("%dx%d: card %d has id %d", d.rows, d.cols, i, card.ID)
			}
			wantPos := Position{Row: i / d.cols, Col: i % d.cols}
			if card.Pos != wantPos {
				t.Errorf("%dx%d: card %d at %v, expected %v", d.rows, d.cols, i, card.Pos, wantPos)
			}
			if card.Flipped || card.Matched {
				t.Errorf("%dx%d: card %d must start face down and unmatched", d.rows, d.cols, i)
			}
			counts[card.Symbol]++
		}

		if len(counts) != total/2 {
			t.Errorf("%dx%d: expected %d distinct symbols, got %d", d.rows, d.cols, total/2, len(counts))
		}
		for symbol, n := range counts {
			if n != 2 {
				t.Errorf("%dx%d: symbol %q occurs %d times, expected 2", d.rows, d.cols, symbol, n)
			}
		}
	}
}

func TestBuildDeck_ShuffleIsPermutation(t *testing.T) {
	// The shuffled deck must carry the same symbol multiset as an
	// unshuffled one, never a re-sample.
	want := make(map[string]int)
	for pair := 0; pair < 8; pair++ {
		want[symbolForPair(pair)] = 2
	}

	for trial := 0; trial < 10; trial++ {
		got := make(map[string]int)
		for _, card := range buildDeck(4, 4) {
			got[card.Symbol]++
		}
		if len(got) != len(want) {
			t.Fatalf("trial %d: symbol set changed: %v", trial, got)
		}
		for symbol, n := range want {
			if got[symbol] != n {
				t.Errorf("trial %d: symbol %q count %d, expected %d", trial, symbol, got[symbol], n)
			}
		}
	}
}

func TestValidateDimensions(t *testing.T) {
	valid := []struct{ rows, cols int }{
		{1, 2}, {2, 2}, {3, 4}, {4, 4}, {6, 6},
	}
	for _, d := range valid {
		if err := ValidateDimensions(d.rows, d.cols); err != nil {
			t.Errorf("%dx%d: unexpected error %v", d.rows, d.cols, err)
		}
	}

	invalid := []struct{ rows, cols int }{
		{0, 4}, {4, 0}, {-1, 2}, {3, 3}, {5, 5}, {7, 4}, {4, 7},
	}
	for _, d := range invalid {
		err := ValidateDimensions(d.rows, d.cols)
		if err == nil {
			t.Errorf("%dx%d: expected error", d.rows, d.cols)
			continue
		}
		if kind, ok := KindOf(err); !ok || kind != InvalidDimensions {
			t.Errorf("%dx%d: expected InvalidDimensions, got %v", d.rows, d.cols, err)
		}
	}
}

func TestBuildGraph_GridAdjacency(t *testing.T) {
	g := buildGraph(3, 4)

	if g.Order() != 12 {
		t.Fatalf("expected 12 vertices, got %d", g.Order())
	}

	// Corner has 2 neighbors, edge cell 3, interior 4.
	if n := g.Neighbors(0); len(n) != 2 {
		t.Errorf("corner 0: expected 2 neighbors, got %v", n)
	}
	if n := g.Neighbors(1); len(n) != 3 {
		t.Errorf("edge 1: expected 3 neighbors, got %v", n)
	}
	if n := g.Neighbors(5); len(n) != 4 {
		t.Errorf("interior 5: expected 4 neighbors, got %v", n)
	}

	// No vertex links to itself.
	for id := 0; id < 12; id++ {
		for _, n := range g.Neighbors(id) {
			if n == id {
				t.Errorf("vertex %d linked to itself", id)
			}
		}
	}
}
