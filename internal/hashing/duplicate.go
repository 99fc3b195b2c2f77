package hashing

import (
	"github.com/cespare/xxhash/v2"

	"github.com/lgbarn/chessdb/internal/chess"
)

// DuplicateDetector tracks seen final positions for duplicate game detection.
type DuplicateDetector struct {
	hasher *Hasher
	// hashTable stores seen Zobrist keys
	hashTable map[uint64][]GameSignature
	// useExactMatch also requires equal ply counts
	useExactMatch bool
	// maxCapacity bounds the number of stored signatures, 0 for unlimited
	maxCapacity int
	size        int
	// duplicateCount tracks number of duplicates found
	duplicateCount int
}

// GameSignature stores identifying information about a game.
type GameSignature struct {
	// Hash is the Zobrist key of the final position
	Hash uint64
	// MoveCount is the number of half-moves in the game
	MoveCount int
	// Placement is an xxhash of the final piece placement, guarding
	// against Zobrist collisions
	Placement uint64
}

// NewDuplicateDetector creates a detector using the Polyglot hasher.
// maxCapacity of 0 means unlimited capacity.
func NewDuplicateDetector(exactMatch bool, maxCapacity int) *DuplicateDetector {
	return &DuplicateDetector{
		hasher:        Default(),
		hashTable:     make(map[uint64][]GameSignature),
		useExactMatch: exactMatch,
		maxCapacity:   maxCapacity,
	}
}

// Signature computes the signature of a game ending in pos.
func (d *DuplicateDetector) Signature(game *chess.Game, pos *chess.Position) GameSignature {
	return GameSignature{
		Hash:      d.hasher.Hash(pos),
		MoveCount: game.PlyCount(),
		Placement: xxhash.Sum64String(pos.BoardFEN()),
	}
}

// CheckAndAdd checks if a game is a duplicate and adds it to the hash table.
// Returns true if the game is a duplicate. Once full, new signatures are
// still checked but no longer stored.
func (d *DuplicateDetector) CheckAndAdd(game *chess.Game, pos *chess.Position) bool {
	if pos == nil {
		return false
	}
	sig := d.Signature(game, pos)

	for _, existing := range d.hashTable[sig.Hash] {
		if d.signaturesMatch(sig, existing) {
			d.duplicateCount++
			return true
		}
	}

	if d.IsFull() {
		return false
	}
	d.hashTable[sig.Hash] = append(d.hashTable[sig.Hash], sig)
	d.size++
	return false
}

// signaturesMatch checks if two game signatures match.
func (d *DuplicateDetector) signaturesMatch(a, b GameSignature) bool {
	if a.Hash != b.Hash || a.Placement != b.Placement {
		return false
	}
	if d.useExactMatch && a.MoveCount != b.MoveCount {
		return false
	}
	return true
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of unique games stored.
func (d *DuplicateDetector) UniqueCount() int {
	return d.size
}

// IsFull reports whether the capacity limit has been reached.
func (d *DuplicateDetector) IsFull() bool {
	return d.maxCapacity > 0 && d.size >= d.maxCapacity
}

// Reset clears the hash table.
func (d *DuplicateDetector) Reset() {
	d.hashTable = make(map[uint64][]GameSignature)
	d.size = 0
	d.duplicateCount = 0
}
