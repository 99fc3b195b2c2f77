package chess

import (
	"fmt"

	"github.com/lgbarn/chessdb/internal/errors"
)

// Square is one of the 64 board cells, numbered y*8 + x with a1 = 0 and h8 = 63.
type Square int8

// NoSquare marks an absent square, such as a missing en passant target.
const NoSquare Square = -1

// Named squares used by castling and tests.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	A8 Square = 56 + iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

const (
	files = "abcdefgh"
	ranks = "12345678"
)

// SquareAt returns the square with file index x and rank index y, both 0-7.
func SquareAt(x, y int) (Square, error) {
	if x < 0 || x > 7 || y < 0 || y > 7 {
		return NoSquare, fmt.Errorf("coordinates (%d,%d): %w", x, y, errors.ErrInvalidSquare)
	}
	return Square(y*8 + x), nil
}

// ParseSquare converts a name such as "e4" into a square.
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 || name[0] < 'a' || name[0] > 'h' || name[1] < '1' || name[1] > '8' {
		return NoSquare, fmt.Errorf("square %q: %w", name, errors.ErrInvalidSquare)
	}
	return Square(int(name[1]-'1')*8 + int(name[0]-'a')), nil
}

// SquareFromX88 converts a 0x88 board index back into a square.
func SquareFromX88(idx int) (Square, error) {
	if idx < 0 || idx > 0x77 || idx&0x88 != 0 {
		return NoSquare, fmt.Errorf("0x88 index %d: %w", idx, errors.ErrInvalidSquare)
	}
	return fromX88(idx), nil
}

// fromX88 is SquareFromX88 for indices already known to be on the board.
func fromX88(idx int) Square {
	return Square((7-idx>>4)*8 + idx&7)
}

// X returns the zero-based file index (a = 0).
func (s Square) X() int { return int(s) & 7 }

// Y returns the zero-based rank index (rank 1 = 0).
func (s Square) Y() int { return int(s) >> 3 }

// X88 returns the 0x88 board index x + 16*(7-y).
func (s Square) X88() int { return s.X() + 16*(7-s.Y()) }

// File returns the file letter a-h.
func (s Square) File() byte { return files[s.X()] }

// Rank returns the rank digit 1-8.
func (s Square) Rank() byte { return ranks[s.Y()] }

// Name returns the algebraic name, e.g. "e4".
func (s Square) Name() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{s.File(), s.Rank()})
}

// String returns the algebraic name.
func (s Square) String() string { return s.Name() }

// Valid reports whether s is one of the 64 board squares.
func (s Square) Valid() bool { return s >= 0 && s < 64 }

// IsDark reports whether s is a dark square. a1 is dark.
func (s Square) IsDark() bool { return (s.X()-s.Y())&1 == 0 }

// IsLight reports whether s is a light square.
func (s Square) IsLight() bool { return !s.IsDark() }

// IsBackrank reports whether s lies on the first or eighth rank.
func (s Square) IsBackrank() bool { return s.Y() == 0 || s.Y() == 7 }

// AllSquares returns the 64 squares from a1 to h8.
func AllSquares() []Square {
	sqs := make([]Square, 64)
	for i := range sqs {
		sqs[i] = Square(i)
	}
	return sqs
}
