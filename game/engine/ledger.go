package engine

import "sort"

// ScoreEntry is one completed-game score.
type ScoreEntry struct {
	Label string `json:"label"`
	Score int    `json:"score"`

	// seq is the insertion sequence number, used to keep ties in
	// insertion order during retrieval.
	seq int
}

type ledgerNode struct {
	entry ScoreEntry
	left  *ledgerNode
	right *ledgerNode
}

// ScoreLedger holds completed-game scores for the lifetime of an engine
// instance. Entries live in a binary insertion structure ordered ascending
// by score (strictly smaller goes left, otherwise right); the tree shape is
// not observable, retrieval always performs a full traversal followed by a
// stable descending sort.
type ScoreLedger struct {
	root *ledgerNode
	size int
	next int
}

// NewScoreLedger creates an empty ledger.
func NewScoreLedger() *ScoreLedger {
	return &ScoreLedger{}
}

// Insert adds an entry. The insert walk is iterative.
func (l *ScoreLedger) Insert(label string, score int) {
	node := &ledgerNode{entry: ScoreEntry{Label: label, Score: score, seq: l.next}}
	l.next++
	l.size++

	if l.root == nil {
		l.root = node
		return
	}
	cur := l.root
	for {
		if node.entry.Score < cur.entry.Score {
			if cur.left == nil {
				cur.left = node
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = node
				return
			}
			cur = cur.right
		}
	}
}

// Len returns the number of stored entries.
func (l *ScoreLedger) Len() int {
	return l.size
}

// TopN returns up to limit entries ordered by score descending, ties broken
// by original insertion order. A non-positive limit falls back to
// DefaultTopScores.
func (l *ScoreLedger) TopN(limit int) []ScoreEntry {
	if limit <= 0 {
		limit = DefaultTopScores
	}

	entries := l.traverse()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].seq < entries[j].seq
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// traverse collects every entry with an iterative in-order walk.
func (l *ScoreLedger) traverse() []ScoreEntry {
	entries := make([]ScoreEntry, 0, l.size)
	var stack []*ledgerNode
	cur := l.root
	for cur != nil || len(stack) > 0 {
		for cur != nil {
			stack = append(stack, cur)
			cur = cur.left
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entries = append(entries, cur.entry)
		cur = cur.right
	}
	return entries
}
