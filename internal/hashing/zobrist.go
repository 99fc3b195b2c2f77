// Package hashing provides Zobrist position hashing and duplicate detection
// for chess games.
package hashing

import (
	"math/rand/v2"

	"github.com/lgbarn/chessdb/internal/chess"
)

// Table layout, shared by the Polyglot table and random tables.
const (
	TableSize       = 781
	castleOffset    = 768
	enPassantOffset = 772
	turnOffset      = 780
)

// Hasher computes 64-bit Zobrist keys from a table of random numbers.
// A Hasher is read-only after construction and safe for concurrent use.
type Hasher struct {
	table [TableSize]uint64
}

var defaultHasher = &Hasher{table: polyglotRandom64}

// Default returns the shared hasher built on the Polyglot table.
func Default() *Hasher {
	return defaultHasher
}

// NewPolyglotHasher returns a hasher using the published Polyglot table,
// so keys agree with Polyglot opening books.
func NewPolyglotHasher() *Hasher {
	return &Hasher{table: polyglotRandom64}
}

// NewRandomHasher draws a fresh table. Keys are not reproducible across runs.
func NewRandomHasher() *Hasher {
	return NewSeededHasher(rand.Uint64())
}

// NewSeededHasher draws a table from a PCG generator seeded with seed.
func NewSeededHasher(seed uint64) *Hasher {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	h := &Hasher{}
	for i := range h.table {
		h.table[i] = rng.Uint64()
	}
	return h
}

// NewHasher wraps an explicit table.
func NewHasher(table [TableSize]uint64) *Hasher {
	return &Hasher{table: table}
}

// Table returns a copy of the random numbers behind the hasher.
func (h *Hasher) Table() [TableSize]uint64 {
	return h.table
}

// pieceIndex orders pieces black pawn, white pawn, black knight, ... white king.
func pieceIndex(p chess.Piece) int {
	return 2*(int(p.Kind())-1) + int(p.Colour())
}

// Hash returns the key of pos. It combines the pieces, the castling rights,
// the en passant file when a capture there is possible, and the side to move
// (the turn entry is mixed in when white is to move, as Polyglot does).
func (h *Hasher) Hash(pos *chess.Position) uint64 {
	var key uint64
	for _, sq := range chess.AllSquares() {
		piece := pos.Get(sq)
		if piece == chess.NoPiece {
			continue
		}
		key ^= h.table[64*pieceIndex(piece)+8*sq.Y()+sq.X()]
	}

	rights := pos.CastlingRights()
	for i, r := range [4]chess.CastlingRights{chess.WhiteKingside, chess.WhiteQueenside, chess.BlackKingside, chess.BlackQueenside} {
		if rights.Has(r) {
			key ^= h.table[castleOffset+i]
		}
	}

	if pos.EPCapturePossible() {
		key ^= h.table[enPassantOffset+pos.EPSquare().X()]
	}

	if pos.Turn() == chess.White {
		key ^= h.table[turnOffset]
	}
	return key
}

// HashFEN parses fen and hashes the resulting position.
func (h *Hasher) HashFEN(fen string) (uint64, error) {
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return 0, err
	}
	return h.Hash(pos), nil
}
