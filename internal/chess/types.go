// Package chess provides core chess types and operations.
package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessdb/internal/errors"
)

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Char returns the FEN side-to-move character for the colour.
func (c Colour) Char() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// ParseColour accepts "w", "b", "white" or "black" in any case.
func ParseColour(s string) (Colour, error) {
	switch strings.ToLower(s) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return Black, fmt.Errorf("invalid colour %q: %w", s, errors.ErrInvalidPiece)
}

// PieceKind represents a chess piece type without colour.
type PieceKind int

const (
	NoPieceKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

var kindNames = [...]string{"", "pawn", "knight", "bishop", "rook", "queen", "king"}

// Letter returns the lowercase single letter code of the kind.
func (k PieceKind) Letter() byte {
	if k > NoPieceKind && k <= King {
		return kindLetters[k]
	}
	return '?'
}

// Name returns the canonical full name of the kind.
func (k PieceKind) Name() string {
	if k > NoPieceKind && k <= King {
		return kindNames[k]
	}
	return "none"
}

// String returns the name of the kind.
func (k PieceKind) String() string {
	return k.Name()
}

// IsPromotion reports whether a pawn may promote to the kind.
func (k PieceKind) IsPromotion() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// ParsePieceKind accepts a letter ("n", "N") or a full name ("knight").
func ParsePieceKind(s string) (PieceKind, error) {
	ls := strings.ToLower(s)
	for k := Pawn; k <= King; k++ {
		if ls == kindNames[k] || (len(ls) == 1 && ls[0] == kindLetters[k]) {
			return k, nil
		}
	}
	return NoPieceKind, fmt.Errorf("unknown piece kind %q: %w", s, errors.ErrInvalidPiece)
}

// PromotionKinds lists the kinds a pawn may promote to, in generation order.
var PromotionKinds = [4]PieceKind{Knight, Bishop, Rook, Queen}

// Piece is a coloured piece. The zero value is NoPiece.
// Pieces are plain values: two pieces built from the same symbol compare equal.
type Piece uint8

// NoPiece marks an empty square.
const NoPiece Piece = 0

// PieceShift is the number of bits used to store the colour of a piece.
const PieceShift = 1

// MakePiece creates a coloured piece from a kind and colour.
func MakePiece(c Colour, k PieceKind) Piece {
	return Piece(int(k)<<PieceShift | int(c))
}

// Kind extracts the kind from a coloured piece.
func (p Piece) Kind() PieceKind {
	return PieceKind(p >> PieceShift)
}

// Colour extracts the colour from a coloured piece.
func (p Piece) Colour() Colour {
	return Colour(p & 1)
}

// Symbol returns the FEN character: uppercase for white, lowercase for black.
func (p Piece) Symbol() byte {
	if p == NoPiece {
		return '.'
	}
	c := p.Kind().Letter()
	if p.Colour() == White {
		c -= 'a' - 'A'
	}
	return c
}

// String returns the symbol of the piece.
func (p Piece) String() string {
	return string(p.Symbol())
}

// ParsePiece converts a FEN character into a coloured piece.
func ParsePiece(symbol byte) (Piece, error) {
	colour := Black
	lower := symbol
	if symbol >= 'A' && symbol <= 'Z' {
		colour = White
		lower = symbol + ('a' - 'A')
	}
	for k := Pawn; k <= King; k++ {
		if kindLetters[k] == lower {
			return MakePiece(colour, k), nil
		}
	}
	return NoPiece, fmt.Errorf("invalid piece character: %c: %w", symbol, errors.ErrInvalidPiece)
}
