package chess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chessdb/internal/errors"
)

// StartFEN is the FEN string for the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN serializes the position as six space-separated fields.
func (p *Position) FEN() string {
	var sb strings.Builder
	sb.Grow(90)
	for y := 7; y >= 0; y-- {
		empty := 0
		for x := 0; x < 8; x++ {
			piece := p.Get(Square(y*8 + x))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if y > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(p.turn.Char())
	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.Name())
	fmt.Fprintf(&sb, " %d %d", p.halfmoveClock, p.fullmoveNumber)
	return sb.String()
}

// BoardFEN returns only the placement field of the FEN.
func (p *Position) BoardFEN() string {
	fen := p.FEN()
	return fen[:strings.IndexByte(fen, ' ')]
}

// ParseFEN builds a position from a six-field FEN string.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d: %w", len(fields), errors.ErrInvalidFEN)
	}
	p := NewEmptyPosition()

	if err := p.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.turn = White
	case "b":
		p.turn = Black
	default:
		return nil, fmt.Errorf("invalid side to move %q: %w", fields[1], errors.ErrInvalidFEN)
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			idx := strings.IndexByte("KQkq", fields[2][i])
			if idx < 0 {
				return nil, fmt.Errorf("invalid castling character: %c: %w", fields[2][i], errors.ErrInvalidFEN)
			}
			p.castling |= 1 << idx
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil || (sq.Y() != 2 && sq.Y() != 5) {
			return nil, fmt.Errorf("invalid en passant square %q: %w", fields[3], errors.ErrInvalidFEN)
		}
		p.epSquare = sq
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return nil, fmt.Errorf("invalid halfmove clock %q: %w", fields[4], errors.ErrInvalidFEN)
	}
	p.halfmoveClock = half

	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return nil, fmt.Errorf("invalid fullmove number %q: %w", fields[5], errors.ErrInvalidFEN)
	}
	p.fullmoveNumber = full

	return p, nil
}

func (p *Position) parsePlacement(placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("expected 8 ranks, got %d: %w", len(rows), errors.ErrInvalidFEN)
	}
	for i, row := range rows {
		y := 7 - i
		x := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				x += int(c - '0')
				continue
			}
			piece, err := ParsePiece(c)
			if err != nil {
				return fmt.Errorf("invalid piece character: %c: %w", c, errors.ErrInvalidFEN)
			}
			if x > 7 {
				return fmt.Errorf("rank %d too long: %w", y+1, errors.ErrInvalidFEN)
			}
			p.Set(Square(y*8+x), piece)
			x++
		}
		if x != 8 {
			return fmt.Errorf("rank %d has %d files: %w", y+1, x, errors.ErrInvalidFEN)
		}
	}
	return nil
}

// MustParseFEN is ParseFEN for known-good strings; it panics on error.
func MustParseFEN(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}
