package chess

// CastlingRights is a set of the four castling flags.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Has reports whether every flag in r is set.
func (c CastlingRights) Has(r CastlingRights) bool {
	return c&r == r
}

// String returns the FEN castling field, "-" when empty.
func (c CastlingRights) String() string {
	var b []byte
	for i, ch := range []byte("KQkq") {
		if c&(1<<i) != 0 {
			b = append(b, ch)
		}
	}
	if len(b) == 0 {
		return "-"
	}
	return string(b)
}

// Position holds the full game state needed to generate and apply moves.
// The board is a 0x88 array, so copying a Position is a plain struct copy.
type Position struct {
	board          [128]Piece
	turn           Colour
	castling       CastlingRights
	epSquare       Square
	halfmoveClock  int
	fullmoveNumber int
}

// NewEmptyPosition returns a position with no pieces, white to move.
func NewEmptyPosition() *Position {
	return &Position{
		turn:           White,
		epSquare:       NoSquare,
		fullmoveNumber: 1,
	}
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	p := NewEmptyPosition()
	backRank := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x := 0; x < 8; x++ {
		p.Set(Square(x), MakePiece(White, backRank[x]))
		p.Set(Square(8+x), MakePiece(White, Pawn))
		p.Set(Square(48+x), MakePiece(Black, Pawn))
		p.Set(Square(56+x), MakePiece(Black, backRank[x]))
	}
	p.castling = AllCastling
	return p
}

// Get returns the piece on sq, or NoPiece.
func (p *Position) Get(sq Square) Piece {
	return p.board[sq.X88()]
}

// Set places a piece on sq without any legality checks. NoPiece clears it.
func (p *Position) Set(sq Square, piece Piece) {
	p.board[sq.X88()] = piece
}

// Clear removes any piece from sq.
func (p *Position) Clear(sq Square) {
	p.board[sq.X88()] = NoPiece
}

// Turn returns the side to move.
func (p *Position) Turn() Colour { return p.turn }

// SetTurn sets the side to move.
func (p *Position) SetTurn(c Colour) { p.turn = c }

// CastlingRights returns the castling flags still granted.
func (p *Position) CastlingRights() CastlingRights { return p.castling }

// SetCastlingRights replaces the castling flags.
func (p *Position) SetCastlingRights(c CastlingRights) { p.castling = c & AllCastling }

// EPSquare returns the en passant target square, or NoSquare.
func (p *Position) EPSquare() Square { return p.epSquare }

// SetEPSquare records the en passant target square. NoSquare clears it.
func (p *Position) SetEPSquare(sq Square) { p.epSquare = sq }

// EPFile returns the file letter of the en passant target, if any.
func (p *Position) EPFile() (byte, bool) {
	if p.epSquare == NoSquare {
		return 0, false
	}
	return p.epSquare.File(), true
}

// HalfmoveClock returns the plies since the last capture or pawn move.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// SetHalfmoveClock sets the halfmove clock.
func (p *Position) SetHalfmoveClock(n int) { p.halfmoveClock = n }

// FullmoveNumber returns the move number, incremented after black moves.
func (p *Position) FullmoveNumber() int { return p.fullmoveNumber }

// SetFullmoveNumber sets the fullmove number.
func (p *Position) SetFullmoveNumber(n int) { p.fullmoveNumber = n }

// Copy returns an independent snapshot of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// Equal reports whether two positions hold identical state.
func (p *Position) Equal(o *Position) bool {
	return *p == *o
}

// KingSquare returns the square of the king of colour c, or NoSquare.
func (p *Position) KingSquare(c Colour) Square {
	king := MakePiece(c, King)
	for i := 0; i < 128; i++ {
		if i&0x88 != 0 {
			i += 7
			continue
		}
		if p.board[i] == king {
			return fromX88(i)
		}
	}
	return NoSquare
}

// EPCapturePossible reports whether a pawn of the side to move stands
// beside the pawn that just made a double push, ready to take en passant.
// Pins are ignored, matching the Polyglot book convention.
func (p *Position) EPCapturePossible() bool {
	if p.epSquare == NoSquare {
		return false
	}
	// The pushed pawn sits one rank behind the target, from the mover's view.
	pushed := p.epSquare.X88() + pawnPush(p.turn.Opposite())
	own := MakePiece(p.turn, Pawn)
	for _, side := range [2]int{-1, 1} {
		idx := pushed + side
		if idx&0x88 == 0 && p.board[idx] == own {
			return true
		}
	}
	return false
}
