package engine

import "fmt"

const (
	// indexBuckets is the fixed bucket count. 53 keeps chains short for
	// every supported board (at most 36 keys on a 6x6 grid); the table
	// never resizes.
	indexBuckets = 53

	// hashKeyLimit caps how many key characters feed the hash. Position
	// keys are far shorter in practice.
	hashKeyLimit = 100
)

type indexEntry struct {
	key  string
	card *Card
}

// PositionIndex maps "row,col" keys to cards. It is a fixed-capacity hash
// table with chaining, built once per game and immutable in size.
type PositionIndex struct {
	buckets [indexBuckets][]indexEntry
	size    int
}

// NewPositionIndex creates an empty index.
func NewPositionIndex() *PositionIndex {
	return &PositionIndex{}
}

// positionKey renders a grid coordinate as an index key.
func positionKey(row, col int) string {
	return fmt.Sprintf("%d,%d", row, col)
}

// hash computes a polynomial rolling hash over at most hashKeyLimit
// characters of the key, reduced into the bucket range each step.
func (ix *PositionIndex) hash(key string) int {
	h := 0
	for i, ch := range key {
		if i >= hashKeyLimit {
			break
		}
		h = (h*31 + int(ch) - 96) % indexBuckets
		if h < 0 {
			h += indexBuckets
		}
	}
	return h
}

// Set stores a card under the given key, replacing any previous value.
func (ix *PositionIndex) Set(key string, card *Card) {
	b := ix.hash(key)
	for i, entry := range ix.buckets[b] {
		if entry.key == key {
			ix.buckets[b][i].card = card
			return
		}
	}
	ix.buckets[b] = append(ix.buckets[b], indexEntry{key: key, card: card})
	ix.size++
}

// Get returns the card stored under the key, scanning the bucket chain for
// an exact match.
func (ix *PositionIndex) Get(key string) (*Card, bool) {
	b := ix.hash(key)
	for _, entry := range ix.buckets[b] {
		if entry.key == key {
			return entry.card, true
		}
	}
	return nil, false
}

// Len returns the number of stored keys.
func (ix *PositionIndex) Len() int {
	return ix.size
}
