package engine

import (
	"errors"
	"fmt"
)

// Board dimension and scoring constants.
const (
	// MaxRows and MaxCols bound the supported board sizes. The position
	// index bucket count is fixed, so boards larger than 6x6 are rejected.
	MaxRows = 6
	MaxCols = 6

	// MatchPoints is awarded for each resolved pair.
	MatchPoints = 10

	// TimeBonusCeiling is the maximum time bonus; one point is lost per
	// elapsed second, floored at zero.
	TimeBonusCeiling = 1000

	// MoveBonusCeiling is the maximum move bonus; one point is lost per
	// move taken, floored at zero.
	MoveBonusCeiling = 50

	// DefaultTopScores is the default limit for high score retrieval.
	DefaultTopScores = 10
)

// Phase represents the game lifecycle state.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
)

// Position is a card's grid coordinate. It is assigned at shuffle time and
// never changes afterwards.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Card is a single board card. ID and Symbol are fixed at construction;
// Flipped and Matched are the only mutable fields.
type Card struct {
	ID      int
	Symbol  string
	Flipped bool
	Matched bool
	Pos     Position
}

// FailureKind identifies a recoverable engine failure. Every failure leaves
// the game in the exact state it was in before the call.
type FailureKind string

const (
	InvalidDimensions FailureKind = "invalid_dimensions"
	OutOfBounds       FailureKind = "out_of_bounds"
	CardNotFound      FailureKind = "card_not_found"
	AlreadyMatched    FailureKind = "already_matched"
	AlreadyFlipped    FailureKind = "already_flipped"
	NoPendingPair     FailureKind = "no_pending_pair"
	NoMoveToUndo      FailureKind = "no_move_to_undo"
)

// Error is a tagged, recoverable engine failure.
type Error struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

func failf(kind FailureKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error returned by the engine.
// It returns false for nil errors and errors that did not originate here.
func KindOf(err error) (FailureKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// CardSnapshot is the read-only view of a card exposed to hosting shells.
type CardSnapshot struct {
	ID       int      `json:"id"`
	Symbol   string   `json:"symbol"`
	Flipped  bool     `json:"flipped"`
	Matched  bool     `json:"matched"`
	Position Position `json:"position"`
}

// Snapshot is a read-only copy of the full game state. Mutating a snapshot
// has no effect on the game.
type Snapshot struct {
	Rows         int            `json:"rows"`
	Cols         int            `json:"cols"`
	Cards        []CardSnapshot `json:"cards"`
	Moves        int            `json:"moves"`
	Score        int            `json:"score"`
	Phase        Phase          `json:"phase"`
	PendingCount int            `json:"pending_count"`
	MatchedPairs int            `json:"matched_pairs"`
	ElapsedMS    int64          `json:"elapsed_ms"`
}

// FlipOutcome describes the result of a successful flip.
type FlipOutcome struct {
	Card CardSnapshot `json:"card"`

	// Matched is true when this flip completed a pair. MatchedWith then
	// holds the partner card.
	Matched     bool          `json:"matched"`
	MatchedWith *CardSnapshot `json:"matched_with,omitempty"`

	// Mismatch is true when this flip produced a non-matching pair. The
	// two cards stay face up until the caller invokes FlipBack; the engine
	// never schedules the reversal itself.
	Mismatch bool `json:"mismatch"`

	// Won is true when this flip matched the final pair.
	Won bool `json:"won"`

	Snapshot *Snapshot `json:"snapshot"`
}

// Hint is a non-mutating suggestion of a currently matchable pair.
type Hint struct {
	Found     bool       `json:"found"`
	Symbol    string     `json:"symbol,omitempty"`
	Positions []Position `json:"positions,omitempty"`
	Message   string     `json:"message"`
}

// AnalysisReport aggregates diagnostic reads over the engine's auxiliary
// structures. It never affects gameplay state.
type AnalysisReport struct {
	HistoryDepth     int   `json:"history_depth"`
	ComponentCount   int   `json:"component_count"`
	ComponentSizes   []int `json:"component_sizes"`
	IndexSize        int   `json:"index_size"`
	LedgerSize       int   `json:"ledger_size"`
	ScoresDescending []int `json:"scores_descending"`
}

// PathReport is the result of a shortest-path query between two cards.
type PathReport struct {
	Found bool  `json:"found"`
	Path  []int `json:"path,omitempty"`
	Steps int   `json:"steps"`
}
