package testutil

import (
	"testing"

	"github.com/lgbarn/chessdb/internal/chess"
)

const header = `[Event "Test"]
[Site "Test"]
[Date "2024.01.01"]
[Round "1"]
[White "Player1"]
[Black "Player2"]
[Result "1-0"]

`

func TestParseTestGames(t *testing.T) {
	tests := []struct {
		name      string
		pgn       string
		wantGames int
		wantSAN   []string
	}{
		{"empty", "", 0, nil},
		{"whitespace only", "   \n\t  ", 0, nil},
		{"tagged game", header + "1. e4 e5 2. Nf3 1-0", 1, []string{"e4", "e5", "Nf3"}},
		{"castling", "1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. O-O *", 1, []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5", "O-O"}},
		{"variation skipped", "1. e4 e5 (1... c5 2. Nf3) 2. Nf3 *", 1, []string{"e4", "e5", "Nf3"}},
		{"comment skipped", "1. e4 {Best by test} e5 2. Nf3 *", 1, []string{"e4", "e5", "Nf3"}},
		{"two games", header + "1. e4 1-0\n\n" + header + "1. d4 1-0", 2, []string{"e4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := ParseTestGames(tt.pgn)
			if len(games) != tt.wantGames {
				t.Fatalf("ParseTestGames() returned %d games; want %d", len(games), tt.wantGames)
			}
			if tt.wantGames > 0 {
				AssertSAN(t, games[0], tt.wantSAN...)
			}
		})
	}
}

func TestMustParseGame_Tags(t *testing.T) {
	game := MustParseGame(t, header+"1. e4 1-0")
	AssertTags(t, game, map[string]string{
		"Event":  "Test",
		"Site":   "Test",
		"Date":   "2024.01.01",
		"Round":  "1",
		"White":  "Player1",
		"Black":  "Player2",
		"Result": "1-0",
	})
}

func TestMustParseGame_Incomplete(t *testing.T) {
	game := MustParseGame(t, "1. e4 e5 2. Ke3 *")
	if game.Complete() {
		t.Error("game with an illegal move reported complete")
	}
	if game.PlyCount() != 2 || game.ErrorPly != 3 {
		t.Errorf("PlyCount() = %d, ErrorPly = %d; want 2, 3", game.PlyCount(), game.ErrorPly)
	}
}

func TestMustReadGames(t *testing.T) {
	games := MustReadGames(t, "../parser/testdata/kasparov-deep-blue-1997.pgn")
	if len(games) != 6 {
		t.Fatalf("read %d games; want 6", len(games))
	}
	if got := games[1].White(); got != "Deep Blue (Computer)" {
		t.Errorf("games[1].White() = %q; want %q", got, "Deep Blue (Computer)")
	}
}

func TestMustReplay(t *testing.T) {
	pos := MustReplay(t, chess.StartFEN, "e2e4", "e7e5")
	AssertFEN(t, pos, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
}
