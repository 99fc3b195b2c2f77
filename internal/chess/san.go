package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessdb/internal/errors"
)

// MoveInfo describes a legal move from the point of view of the position it
// is played in. It carries everything needed to write SAN.
type MoveInfo struct {
	Move              Move
	SAN               string
	Piece             Piece
	Captured          Piece
	IsCapture         bool
	IsEnPassant       bool
	IsCheck           bool
	IsCheckmate       bool
	IsKingsideCastle  bool
	IsQueensideCastle bool
}

// IsCastle reports whether the move castles on either wing.
func (mi MoveInfo) IsCastle() bool {
	return mi.IsKingsideCastle || mi.IsQueensideCastle
}

// MoveInfo computes SAN and annotation data for m without changing the position.
func (p *Position) MoveInfo(m Move) (MoveInfo, error) {
	legal := p.LegalMoves()
	found := false
	for _, lm := range legal {
		if lm == m {
			found = true
			break
		}
	}
	if !found {
		return MoveInfo{}, fmt.Errorf("%s: %w", m.UCI(), errors.ErrIllegalMove)
	}
	return p.moveInfo(m, legal), nil
}

func (p *Position) moveInfo(m Move, legal []Move) MoveInfo {
	piece := p.Get(m.From)
	kind := piece.Kind()
	mi := MoveInfo{Move: m, Piece: piece, Captured: p.Get(m.To)}

	if kind == Pawn && m.To == p.epSquare && mi.Captured == NoPiece && m.From.X() != m.To.X() {
		mi.IsEnPassant = true
		mi.Captured = MakePiece(p.turn.Opposite(), Pawn)
	}
	mi.IsCapture = mi.Captured != NoPiece

	var sb strings.Builder
	switch {
	case kind == King && m.To.X()-m.From.X() == 2:
		mi.IsKingsideCastle = true
		sb.WriteString("O-O")
	case kind == King && m.From.X()-m.To.X() == 2:
		mi.IsQueensideCastle = true
		sb.WriteString("O-O-O")
	case kind == Pawn:
		if mi.IsCapture {
			sb.WriteByte(m.From.File())
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.Name())
		if m.Promotion != NoPieceKind {
			sb.WriteByte('=')
			sb.WriteByte(m.Promotion.Letter() - ('a' - 'A'))
		}
	default:
		sb.WriteByte(kind.Letter() - ('a' - 'A'))
		sb.WriteString(p.disambiguate(m, kind, legal))
		if mi.IsCapture {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.Name())
	}

	after := *p
	after.applyMove(m)
	if after.IsCheck() {
		mi.IsCheck = true
		if !after.hasLegalMove() {
			mi.IsCheckmate = true
			sb.WriteByte('#')
		} else {
			sb.WriteByte('+')
		}
	}
	mi.SAN = sb.String()
	return mi
}

// disambiguate returns the file, rank or square qualifier needed to tell m
// apart from other moves of the same kind to the same target.
func (p *Position) disambiguate(m Move, kind PieceKind, legal []Move) string {
	var rivals []Square
	for _, lm := range legal {
		if lm.To == m.To && lm.From != m.From && p.Get(lm.From).Kind() == kind {
			rivals = append(rivals, lm.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range rivals {
		if sq.X() == m.From.X() {
			sameFile = true
		}
		if sq.Y() == m.From.Y() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(m.From.File())
	case !sameRank:
		return string(m.From.Rank())
	default:
		return m.From.Name()
	}
}

// SAN returns the standard algebraic notation of a legal move.
func (p *Position) SAN(m Move) (string, error) {
	mi, err := p.MoveInfo(m)
	if err != nil {
		return "", err
	}
	return mi.SAN, nil
}

// sanPattern is the decomposed form of a SAN token.
type sanPattern struct {
	kind      PieceKind
	fromFile  int // -1 when absent
	fromRank  int // -1 when absent
	to        Square
	promotion PieceKind
	capture   bool
	castle    int // 0 none, 1 kingside, 2 queenside
}

// ParseSAN resolves SAN text against the legal moves of the position.
// It fails with ErrAmbiguousOrIllegalSAN unless exactly one move matches.
func (p *Position) ParseSAN(text string) (Move, error) {
	pat, err := decodeSAN(text)
	if err != nil {
		return Move{}, err
	}

	var match Move
	count := 0
	for _, m := range p.LegalMoves() {
		if p.matchesSAN(m, pat) {
			match = m
			count++
		}
	}
	if count != 1 {
		return Move{}, fmt.Errorf("%q matches %d legal moves: %w", text, count, errors.ErrAmbiguousOrIllegalSAN)
	}
	return match, nil
}

func (p *Position) matchesSAN(m Move, pat sanPattern) bool {
	piece := p.Get(m.From)
	if pat.castle != 0 {
		if piece.Kind() != King {
			return false
		}
		dx := m.To.X() - m.From.X()
		return (pat.castle == 1 && dx == 2) || (pat.castle == 2 && dx == -2)
	}
	if piece.Kind() != pat.kind || m.To != pat.to || m.Promotion != pat.promotion {
		return false
	}
	if pat.fromFile >= 0 && m.From.X() != pat.fromFile {
		return false
	}
	if pat.fromRank >= 0 && m.From.Y() != pat.fromRank {
		return false
	}
	// A pawn leaving its file is a capture, en passant included, and must be
	// written with its file and 'x'.
	pawnCapture := piece.Kind() == Pawn && m.From.X() != m.To.X()
	if pawnCapture && (pat.fromFile < 0 || !pat.capture) {
		return false
	}
	if pat.capture && !pawnCapture && p.Get(m.To) == NoPiece {
		return false
	}
	// A king moving two files is castling, which SAN writes as O-O.
	if pat.kind == King && (m.To.X()-m.From.X() == 2 || m.From.X()-m.To.X() == 2) {
		return false
	}
	return true
}

// decodeSAN splits a SAN token into its parts without consulting a position.
func decodeSAN(text string) (sanPattern, error) {
	bad := func() (sanPattern, error) {
		return sanPattern{}, fmt.Errorf("malformed SAN %q: %w", text, errors.ErrAmbiguousOrIllegalSAN)
	}
	s := strings.TrimSuffix(strings.TrimSpace(text), "e.p.")
	s = strings.TrimRight(s, "+#!? ")

	switch s {
	case "O-O", "0-0":
		return sanPattern{castle: 1}, nil
	case "O-O-O", "0-0-0":
		return sanPattern{castle: 2}, nil
	}

	pat := sanPattern{kind: Pawn, fromFile: -1, fromRank: -1}
	if len(s) == 0 {
		return bad()
	}
	if k := strings.IndexByte("NBRQK", s[0]); k >= 0 {
		pat.kind = [...]PieceKind{Knight, Bishop, Rook, Queen, King}[k]
		s = s[1:]
	}

	// Promotion suffix, with or without '='.
	if n := len(s); n >= 3 && pat.kind == Pawn {
		if k := strings.IndexByte("NBRQ", s[n-1]); k >= 0 {
			pat.promotion = [...]PieceKind{Knight, Bishop, Rook, Queen}[k]
			s = strings.TrimSuffix(s[:n-1], "=")
		}
	}

	if len(s) < 2 {
		return bad()
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return bad()
	}
	pat.to = to
	s = s[:len(s)-2]
	if rest, ok := strings.CutSuffix(s, "x"); ok {
		s, pat.capture = rest, true
	} else {
		s = strings.TrimSuffix(s, "-")
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'h' && pat.fromFile < 0:
			pat.fromFile = int(c - 'a')
		case c >= '1' && c <= '8' && pat.fromRank < 0:
			pat.fromRank = int(c - '1')
		default:
			return bad()
		}
	}
	return pat, nil
}
