package chess

import (
	"fmt"

	"github.com/lgbarn/chessdb/internal/errors"
)

// LegalMoves returns the pseudo-legal moves that do not leave the mover's king attacked.
func (p *Position) LegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if p.leavesKingSafe(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// leavesKingSafe applies m to a scratch copy and checks the mover's king.
func (p *Position) leavesKingSafe(m Move) bool {
	scratch := *p
	scratch.applyMove(m)
	king := scratch.KingSquare(p.turn)
	if king == NoSquare {
		return true
	}
	return !scratch.IsAttacked(king, p.turn.Opposite())
}

// IsLegal reports whether m is in the legal move set.
func (p *Position) IsLegal(m Move) bool {
	for _, lm := range p.LegalMoves() {
		if lm == m {
			return true
		}
	}
	return false
}

// hasLegalMove stops at the first legal move found.
func (p *Position) hasLegalMove() bool {
	for _, m := range p.PseudoLegalMoves() {
		if p.leavesKingSafe(m) {
			return true
		}
	}
	return false
}

// InCheck reports whether the king of colour c is attacked.
func (p *Position) InCheck(c Colour) bool {
	king := p.KingSquare(c)
	return king != NoSquare && p.IsAttacked(king, c.Opposite())
}

// IsCheck reports whether the side to move is in check.
func (p *Position) IsCheck() bool {
	return p.InCheck(p.turn)
}

// IsCheckmate reports whether the side to move is in check with no legal moves.
func (p *Position) IsCheckmate() bool {
	return p.IsCheck() && !p.hasLegalMove()
}

// IsStalemate reports whether the side to move is not in check but has no legal moves.
func (p *Position) IsStalemate() bool {
	return !p.IsCheck() && !p.hasLegalMove()
}

// IsGameOver reports checkmate or stalemate.
func (p *Position) IsGameOver() bool {
	return !p.hasLegalMove()
}

// MakeMove applies a legal move. An illegal move leaves the position untouched
// and returns ErrIllegalMove.
func (p *Position) MakeMove(m Move) error {
	if !p.IsLegal(m) {
		return fmt.Errorf("%s in %s: %w", m.UCI(), p.FEN(), errors.ErrIllegalMove)
	}
	p.applyMove(m)
	return nil
}

// applyMove performs m without checking legality.
func (p *Position) applyMove(m Move) {
	from, to := m.From.X88(), m.To.X88()
	piece := p.board[from]
	captured := p.board[to]
	kind := piece.Kind()

	p.board[from] = NoPiece
	if kind == Pawn && m.To == p.epSquare && captured == NoPiece && m.From.X() != m.To.X() {
		// The captured pawn stands beside the mover, not on the target.
		victim := to - pawnPush(p.turn)
		captured = p.board[victim]
		p.board[victim] = NoPiece
	}
	if m.Promotion != NoPieceKind {
		p.board[to] = MakePiece(p.turn, m.Promotion)
	} else {
		p.board[to] = piece
	}

	if kind == King && (m.To.X()-m.From.X() == 2 || m.From.X()-m.To.X() == 2) {
		for i := range castleSpecs {
			cs := &castleSpecs[i]
			if cs.king == m.From && cs.kingTo == m.To {
				p.board[cs.rookTo.X88()] = p.board[cs.rook.X88()]
				p.board[cs.rook.X88()] = NoPiece
			}
		}
	}

	p.castling &^= castleLoss[m.From] | castleLoss[m.To]

	p.epSquare = NoSquare
	if kind == Pawn && (from-to == 32 || to-from == 32) {
		p.epSquare = fromX88((from + to) / 2)
	}

	if kind == Pawn || captured != NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}
	if p.turn == Black {
		p.fullmoveNumber++
	}
	p.turn = p.turn.Opposite()
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) int {
	if depth == 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		child := *p
		child.applyMove(m)
		nodes += child.Perft(depth - 1)
	}
	return nodes
}
