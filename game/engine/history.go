package engine

import "time"

// MoveAction identifies the kind of recorded move. Only flips are recorded;
// match and win events are not separately undoable.
type MoveAction string

// ActionFlip is the single recorded action.
const ActionFlip MoveAction = "flip"

// MoveRecord is one entry in the move history.
type MoveRecord struct {
	CardID int        `json:"card_id"`
	Action MoveAction `json:"action"`
	At     time.Time  `json:"at"`
}

// MoveHistory is a strict LIFO stack of flip records backing single-step
// undo. Entries are append-only until popped.
type MoveHistory struct {
	entries []MoveRecord
}

// NewMoveHistory creates an empty history.
func NewMoveHistory() *MoveHistory {
	return &MoveHistory{}
}

// Push appends a record.
func (h *MoveHistory) Push(rec MoveRecord) {
	h.entries = append(h.entries, rec)
}

// Pop removes and returns the most recent record.
func (h *MoveHistory) Pop() (MoveRecord, bool) {
	if len(h.entries) == 0 {
		return MoveRecord{}, false
	}
	rec := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return rec, true
}

// Peek returns the most recent record without removing it.
func (h *MoveHistory) Peek() (MoveRecord, bool) {
	if len(h.entries) == 0 {
		return MoveRecord{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Size returns the number of flips not yet undone.
func (h *MoveHistory) Size() int {
	return len(h.entries)
}

// Records returns a copy of the history, most recent first.
func (h *MoveHistory) Records() []MoveRecord {
	records := make([]MoveRecord, len(h.entries))
	for i, rec := range h.entries {
		records[len(h.entries)-1-i] = rec
	}
	return records
}
