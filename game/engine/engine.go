package engine

import (
	"fmt"
	"time"
)

// Game is the turn-based card-matching state machine. It owns the card set
// and every auxiliary structure, runs synchronously, never sleeps, and
// provides no internal locking; the host serializes calls per instance.
type Game struct {
	rows, cols int
	cards      []*Card
	pending    []*Card

	index   *PositionIndex
	graph   *Graph
	history *MoveHistory
	ledger  *ScoreLedger

	moves int
	score int
	phase Phase
	label string

	startedAt time.Time
	elapsed   time.Duration
	clock     func() time.Time
}

// NewGame creates a game on a rows x cols board using the wall clock for
// elapsed-time scoring.
func NewGame(rows, cols int) (*Game, error) {
	return NewGameWithClock(rows, cols, time.Now)
}

// NewGameWithClock creates a game with an injected clock, letting tests pin
// the time bonus.
func NewGameWithClock(rows, cols int, clock func() time.Time) (*Game, error) {
	if err := ValidateDimensions(rows, cols); err != nil {
		return nil, err
	}

	cards := buildDeck(rows, cols)
	g := &Game{
		rows:      rows,
		cols:      cols,
		cards:     cards,
		index:     buildIndex(cards),
		graph:     buildGraph(rows, cols),
		history:   NewMoveHistory(),
		ledger:    NewScoreLedger(),
		phase:     PhasePlaying,
		label:     "player",
		startedAt: clock(),
		clock:     clock,
	}
	return g, nil
}

// SetLabel sets the label recorded in the score ledger when the game is won.
func (g *Game) SetLabel(label string) {
	if label != "" {
		g.label = label
	}
}

// Flip turns the card at (row, col) face up. When it is the second unresolved
// card, equal symbols resolve into a match worth MatchPoints and unequal
// symbols stay face up until FlipBack; the engine never reverses them on its
// own. Matching the final pair transitions the game to PhaseWon, computes the
// final score, and records it in the ledger.
func (g *Game) Flip(row, col int) (*FlipOutcome, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return nil, failf(OutOfBounds, "position (%d,%d) is outside the %dx%d board", row, col, g.rows, g.cols)
	}
	card, ok := g.index.Get(positionKey(row, col))
	if !ok {
		return nil, failf(CardNotFound, "no card at position (%d,%d)", row, col)
	}
	if card.Matched {
		return nil, failf(AlreadyMatched, "card at (%d,%d) is already matched", row, col)
	}
	if card.Flipped {
		return nil, failf(AlreadyFlipped, "card at (%d,%d) is already face up", row, col)
	}
	if len(g.pending) >= 2 {
		// An unresolved mismatched pair is still face up; the caller must
		// flip it back before flipping another card.
		return nil, failf(AlreadyFlipped, "two cards are already face up; flip them back first")
	}

	card.Flipped = true
	g.history.Push(MoveRecord{CardID: card.ID, Action: ActionFlip, At: g.clock()})
	g.moves++
	g.pending = append(g.pending, card)

	out := &FlipOutcome{}
	if len(g.pending) == 2 {
		first, second := g.pending[0], g.pending[1]
		if first.Symbol == second.Symbol {
			first.Matched = true
			second.Matched = true
			g.score += MatchPoints
			g.pending = nil

			partner := snapshotCard(first)
			out.Matched = true
			out.MatchedWith = &partner
			if g.allMatched() {
				g.finish()
				out.Won = true
			}
		} else {
			out.Mismatch = true
		}
	}

	out.Card = snapshotCard(card)
	out.Snapshot = g.State()
	return out, nil
}

// FlipBack turns an unresolved mismatched pair face down again. Moves and
// score are untouched.
func (g *Game) FlipBack() (*Snapshot, error) {
	if len(g.pending) != 2 {
		return nil, failf(NoPendingPair, "no unresolved pair to flip back")
	}
	for _, card := range g.pending {
		card.Flipped = false
	}
	g.pending = nil
	return g.State(), nil
}

// Undo reverses the most recent flip: the card's flipped flag goes back to
// face down and the move counter decrements. It deliberately does not
// reverse a match or refund score when the undone flip already resolved into
// a pair; that asymmetry is inherited behavior, kept rather than corrected.
func (g *Game) Undo() (*Snapshot, error) {
	rec, ok := g.history.Pop()
	if !ok {
		return nil, failf(NoMoveToUndo, "no move to undo")
	}

	card := g.cards[rec.CardID]
	card.Flipped = false
	g.moves--
	for i, c := range g.pending {
		if c == card {
			g.pending = append(g.pending[:i], g.pending[i+1:]...)
			break
		}
	}
	return g.State(), nil
}

// State returns a read-only snapshot of the full game.
func (g *Game) State() *Snapshot {
	snap := &Snapshot{
		Rows:         g.rows,
		Cols:         g.cols,
		Cards:        make([]CardSnapshot, len(g.cards)),
		Moves:        g.moves,
		Score:        g.score,
		Phase:        g.phase,
		PendingCount: len(g.pending),
		ElapsedMS:    g.elapsedNow().Milliseconds(),
	}
	for i, card := range g.cards {
		snap.Cards[i] = snapshotCard(card)
		if card.Matched {
			snap.MatchedPairs++
		}
	}
	snap.MatchedPairs /= 2
	return snap
}

// Hint suggests a currently matchable pair without mutating anything. When
// several symbols qualify, the first one encountered in card order wins; the
// contract does not pin the choice.
func (g *Game) Hint() Hint {
	counts := make(map[string]int)
	for _, card := range g.cards {
		if !card.Matched {
			counts[card.Symbol]++
		}
	}

	for _, card := range g.cards {
		if card.Matched || counts[card.Symbol] < 2 {
			continue
		}
		hint := Hint{Found: true, Symbol: card.Symbol}
		for _, c := range g.cards {
			if c.Symbol == card.Symbol && !c.Matched && len(hint.Positions) < 2 {
				hint.Positions = append(hint.Positions, c.Pos)
			}
		}
		if len(hint.Positions) == 2 {
			hint.Message = fmt.Sprintf("symbol %s can be matched at (%d,%d) and (%d,%d)",
				hint.Symbol,
				hint.Positions[0].Row, hint.Positions[0].Col,
				hint.Positions[1].Row, hint.Positions[1].Col)
		} else {
			hint.Message = fmt.Sprintf("look for symbol %s", hint.Symbol)
		}
		return hint
	}

	return Hint{Message: "no pair available"}
}

// HighScores returns up to limit ledger entries, best first.
func (g *Game) HighScores(limit int) []ScoreEntry {
	return g.ledger.TopN(limit)
}

// History returns the recorded flips that have not been undone, most recent
// first.
func (g *Game) History() []MoveRecord {
	return g.history.Records()
}

// Components enumerates the adjacency graph's connected components. A fully
// built board always yields a single component covering every card.
func (g *Game) Components() [][]int {
	return g.graph.Components()
}

// PathBetween reports the shortest 4-directional path between two card ids.
func (g *Game) PathBetween(from, to int) PathReport {
	path, ok := g.graph.ShortestPath(from, to)
	if !ok {
		return PathReport{}
	}
	return PathReport{Found: true, Path: path, Steps: len(path) - 1}
}

// Analysis collects diagnostic counts over the auxiliary structures.
func (g *Game) Analysis() AnalysisReport {
	components := g.graph.Components()
	report := AnalysisReport{
		HistoryDepth:   g.history.Size(),
		ComponentCount: len(components),
		ComponentSizes: make([]int, len(components)),
		IndexSize:      g.index.Len(),
		LedgerSize:     g.ledger.Len(),
	}
	for i, comp := range components {
		report.ComponentSizes[i] = len(comp)
	}
	for _, entry := range g.ledger.TopN(g.ledger.Len()) {
		report.ScoresDescending = append(report.ScoresDescending, entry.Score)
	}
	return report
}

func (g *Game) allMatched() bool {
	for _, card := range g.cards {
		if !card.Matched {
			return false
		}
	}
	return true
}

// finish freezes elapsed time, folds the bonuses into the final score, and
// records the result in the ledger. Called exactly once, on the winning
// match.
func (g *Game) finish() {
	g.phase = PhaseWon
	g.elapsed = g.clock().Sub(g.startedAt)

	timeBonus := TimeBonusCeiling - int(g.elapsed.Milliseconds()/1000)
	if timeBonus < 0 {
		timeBonus = 0
	}
	moveBonus := MoveBonusCeiling - g.moves
	if moveBonus < 0 {
		moveBonus = 0
	}

	g.score = MatchPoints*(len(g.cards)/2) + timeBonus + moveBonus
	g.ledger.Insert(g.label, g.score)
}

func (g *Game) elapsedNow() time.Duration {
	if g.phase == PhaseWon {
		return g.elapsed
	}
	return g.clock().Sub(g.startedAt)
}

func snapshotCard(card *Card) CardSnapshot {
	return CardSnapshot{
		ID:       card.ID,
		Symbol:   card.Symbol,
		Flipped:  card.Flipped,
		Matched:  card.Matched,
		Position: card.Pos,
	}
}
