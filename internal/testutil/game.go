// Package testutil holds test helpers shared by the chessdb packages: PGN
// fixtures parsed into games, positions replayed from UCI moves, and go-cmp
// based assertions on positions, games and errors.
package testutil

import (
	"strings"
	"testing"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/config"
	"github.com/lgbarn/chessdb/internal/parser"
)

// ParseTestGames parses PGN text with a quiet default reader. It returns nil
// when the text holds no game.
func ParseTestGames(pgn string) []*chess.Game {
	r := parser.NewReader(config.NewConfigBuilder().WithVerbosity(0).Build())
	if err := r.TokenizeReader("test.pgn", strings.NewReader(pgn)); err != nil {
		return nil
	}
	games := r.ReadAll()
	if len(games) == 0 {
		return nil
	}
	return games
}

// MustParseGames parses PGN text and fails the test when it holds no game.
func MustParseGames(t *testing.T, pgn string) []*chess.Game {
	t.Helper()
	games := ParseTestGames(pgn)
	if len(games) == 0 {
		t.Fatalf("no games in PGN:\n%s", pgn)
	}
	return games
}

// MustParseGame returns the first game of pgn. Movetext without tags is
// accepted, so "1. e4 e5 *" is a complete fixture.
func MustParseGame(t *testing.T, pgn string) *chess.Game {
	t.Helper()
	return MustParseGames(t, pgn)[0]
}

// MustReadGames reads every game of a PGN file.
func MustReadGames(t *testing.T, path string) []*chess.Game {
	t.Helper()
	r := parser.NewReader(config.NewConfigBuilder().WithVerbosity(0).Build())
	if err := r.Tokenize(path); err != nil {
		t.Fatalf("Tokenize(%q) error = %v", path, err)
	}
	return r.ReadAll()
}

// MustReplay returns the position reached after playing the UCI moves from fen.
func MustReplay(t *testing.T, fen string, uci ...string) *chess.Position {
	t.Helper()
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q) error = %v", fen, err)
	}
	for _, s := range uci {
		m, err := chess.ParseUCI(s)
		if err != nil {
			t.Fatalf("ParseUCI(%q) error = %v", s, err)
		}
		if err := pos.MakeMove(m); err != nil {
			t.Fatalf("MakeMove(%s) in %s error = %v", s, pos.FEN(), err)
		}
	}
	return pos
}
