package chess

// Ray and step offsets on the 0x88 board. Moving up one rank is -16.
var (
	knightOffsets = [8]int{-33, -31, -18, -14, 14, 18, 31, 33}
	kingOffsets   = [8]int{-17, -16, -15, -1, 1, 15, 16, 17}
	bishopRays    = []int{-17, -15, 15, 17}
	rookRays      = []int{-16, -1, 1, 16}
	queenRays     = []int{-17, -16, -15, -1, 1, 15, 16, 17}
)

// pawnPush returns the 0x88 offset of a single pawn step for colour c.
func pawnPush(c Colour) int {
	if c == White {
		return -16
	}
	return 16
}

// castleSpec describes one castling option on the 0x88 board.
type castleSpec struct {
	right     CastlingRights
	colour    Colour
	king      Square
	rook      Square
	kingTo    Square
	rookTo    Square
	empty     []Square // must be vacant
	unchecked []Square // must not be attacked
}

var castleSpecs = [4]castleSpec{
	{WhiteKingside, White, E1, H1, G1, F1, []Square{F1, G1}, []Square{E1, F1}},
	{WhiteQueenside, White, E1, A1, C1, D1, []Square{B1, C1, D1}, []Square{E1, D1}},
	{BlackKingside, Black, E8, H8, G8, F8, []Square{F8, G8}, []Square{E8, F8}},
	{BlackQueenside, Black, E8, A8, C8, D8, []Square{B8, C8, D8}, []Square{E8, D8}},
}

// castleLoss maps a square to the rights lost when a piece leaves or is captured on it.
var castleLoss = func() [64]CastlingRights {
	var t [64]CastlingRights
	t[E1] = WhiteKingside | WhiteQueenside
	t[H1] = WhiteKingside
	t[A1] = WhiteQueenside
	t[E8] = BlackKingside | BlackQueenside
	t[H8] = BlackKingside
	t[A8] = BlackQueenside
	return t
}()

// PseudoLegalMoves returns every move for the side to move that obeys piece
// movement rules, ignoring whether the mover's king is left in check.
// Castling moves are only produced when the king does not start or pass
// through an attacked square.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	us := p.turn
	for i := 0; i < 128; i++ {
		if i&0x88 != 0 {
			i += 7
			continue
		}
		piece := p.board[i]
		if piece == NoPiece || piece.Colour() != us {
			continue
		}
		switch piece.Kind() {
		case Pawn:
			moves = p.genPawn(moves, i)
		case Knight:
			moves = p.genSteps(moves, i, knightOffsets[:])
		case King:
			moves = p.genSteps(moves, i, kingOffsets[:])
		case Bishop:
			moves = p.genRays(moves, i, bishopRays)
		case Rook:
			moves = p.genRays(moves, i, rookRays)
		case Queen:
			moves = p.genRays(moves, i, queenRays)
		}
	}
	return p.genCastling(moves)
}

func (p *Position) genPawn(moves []Move, from int) []Move {
	us := p.turn
	push := pawnPush(us)
	src := fromX88(from)
	startRank, lastRank := 1, 7
	if us == Black {
		startRank, lastRank = 6, 0
	}

	one := from + push
	if one&0x88 == 0 && p.board[one] == NoPiece {
		moves = addPawnMove(moves, src, fromX88(one), lastRank)
		two := one + push
		if src.Y() == startRank && p.board[two] == NoPiece {
			moves = append(moves, Move{From: src, To: fromX88(two)})
		}
	}

	for _, side := range [2]int{-1, 1} {
		to := from + push + side
		if to&0x88 != 0 {
			continue
		}
		target := fromX88(to)
		victim := p.board[to]
		if victim != NoPiece && victim.Colour() != us {
			moves = addPawnMove(moves, src, target, lastRank)
		} else if victim == NoPiece && target == p.epSquare && p.epValidFor(us) {
			moves = append(moves, Move{From: src, To: target})
		}
	}
	return moves
}

// epValidFor reports whether the recorded en passant square is on the rank
// a pawn of colour c would capture onto.
func (p *Position) epValidFor(c Colour) bool {
	if c == White {
		return p.epSquare.Y() == 5
	}
	return p.epSquare.Y() == 2
}

func addPawnMove(moves []Move, from, to Square, lastRank int) []Move {
	if to.Y() != lastRank {
		return append(moves, Move{From: from, To: to})
	}
	for _, k := range PromotionKinds {
		moves = append(moves, Move{From: from, To: to, Promotion: k})
	}
	return moves
}

func (p *Position) genSteps(moves []Move, from int, offsets []int) []Move {
	src := fromX88(from)
	for _, off := range offsets {
		to := from + off
		if to&0x88 != 0 {
			continue
		}
		if occ := p.board[to]; occ != NoPiece && occ.Colour() == p.turn {
			continue
		}
		moves = append(moves, Move{From: src, To: fromX88(to)})
	}
	return moves
}

func (p *Position) genRays(moves []Move, from int, rays []int) []Move {
	src := fromX88(from)
	for _, dir := range rays {
		for to := from + dir; to&0x88 == 0; to += dir {
			occ := p.board[to]
			if occ == NoPiece {
				moves = append(moves, Move{From: src, To: fromX88(to)})
				continue
			}
			if occ.Colour() != p.turn {
				moves = append(moves, Move{From: src, To: fromX88(to)})
			}
			break
		}
	}
	return moves
}

func (p *Position) genCastling(moves []Move) []Move {
	for i := range castleSpecs {
		cs := &castleSpecs[i]
		if cs.colour != p.turn || !p.castling.Has(cs.right) {
			continue
		}
		if p.Get(cs.king) != MakePiece(cs.colour, King) || p.Get(cs.rook) != MakePiece(cs.colour, Rook) {
			continue
		}
		if !p.allEmpty(cs.empty) || p.anyAttacked(cs.unchecked, cs.colour.Opposite()) {
			continue
		}
		moves = append(moves, Move{From: cs.king, To: cs.kingTo})
	}
	return moves
}

func (p *Position) allEmpty(sqs []Square) bool {
	for _, sq := range sqs {
		if p.Get(sq) != NoPiece {
			return false
		}
	}
	return true
}

func (p *Position) anyAttacked(sqs []Square, by Colour) bool {
	for _, sq := range sqs {
		if p.IsAttacked(sq, by) {
			return true
		}
	}
	return false
}

// IsAttacked reports whether any piece of colour by attacks sq.
// Pawns attack diagonally only.
func (p *Position) IsAttacked(sq Square, by Colour) bool {
	target := sq.X88()

	// A pawn of colour by attacks from one step behind its own push direction.
	pawn := MakePiece(by, Pawn)
	for _, side := range [2]int{-1, 1} {
		idx := target - pawnPush(by) + side
		if idx&0x88 == 0 && p.board[idx] == pawn {
			return true
		}
	}

	knight := MakePiece(by, Knight)
	for _, off := range knightOffsets {
		idx := target + off
		if idx&0x88 == 0 && p.board[idx] == knight {
			return true
		}
	}

	king := MakePiece(by, King)
	for _, off := range kingOffsets {
		idx := target + off
		if idx&0x88 == 0 && p.board[idx] == king {
			return true
		}
	}

	queen := MakePiece(by, Queen)
	if p.rayHits(target, bishopRays, MakePiece(by, Bishop), queen) {
		return true
	}
	return p.rayHits(target, rookRays, MakePiece(by, Rook), queen)
}

// rayHits walks each ray from target and reports whether the first piece met
// is either slider or queen.
func (p *Position) rayHits(target int, rays []int, slider, queen Piece) bool {
	for _, dir := range rays {
		for idx := target + dir; idx&0x88 == 0; idx += dir {
			occ := p.board[idx]
			if occ == NoPiece {
				continue
			}
			if occ == slider || occ == queen {
				return true
			}
			break
		}
	}
	return false
}
