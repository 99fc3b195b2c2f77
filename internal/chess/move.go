package chess

import (
	"fmt"

	"github.com/lgbarn/chessdb/internal/errors"
)

// Move is a source and target square plus an optional promotion kind.
// Moves are values: equal UCI strings mean equal moves.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// NullMove is the canonical null move, a1a1, written "0000" in UCI.
var NullMove = Move{From: A1, To: A1}

// NewMove builds a move, rejecting off-board squares and non-promotion kinds.
func NewMove(from, to Square, promotion PieceKind) (Move, error) {
	if !from.Valid() || !to.Valid() {
		return Move{}, fmt.Errorf("move %v%v: %w", from, to, errors.ErrInvalidSquare)
	}
	if promotion != NoPieceKind && !promotion.IsPromotion() {
		return Move{}, fmt.Errorf("promotion to %s: %w", promotion, errors.ErrInvalidPiece)
	}
	return Move{From: from, To: to, Promotion: promotion}, nil
}

// IsNull reports whether source and target coincide.
func (m Move) IsNull() bool {
	return m.From == m.To
}

// UCI returns the coordinate encoding, e.g. "e2e4", "e7e8q" or "0000".
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.Name() + m.To.Name()
	if m.Promotion != NoPieceKind {
		s += string(m.Promotion.Letter())
	}
	return s
}

// String returns the UCI encoding.
func (m Move) String() string {
	return m.UCI()
}

// ParseUCI decodes a UCI move string.
func ParseUCI(s string) (Move, error) {
	if s == "0000" {
		return NullMove, nil
	}
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("move %q: %w", s, errors.ErrInvalidUCI)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("move %q: %w", s, errors.ErrInvalidUCI)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("move %q: %w", s, errors.ErrInvalidUCI)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		k, err := ParsePieceKind(s[4:])
		if err != nil || !k.IsPromotion() {
			return Move{}, fmt.Errorf("move %q: bad promotion: %w", s, errors.ErrInvalidUCI)
		}
		m.Promotion = k
	}
	return m, nil
}
