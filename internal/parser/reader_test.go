package parser

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/codec"
	"github.com/lgbarn/chessdb/internal/config"
	chesserrors "github.com/lgbarn/chessdb/internal/errors"
)

const fixture = "testdata/kasparov-deep-blue-1997.pgn"

// readString parses a PGN string and returns all games.
func readString(t *testing.T, pgn string, cfg *config.Config) (*Reader, []*chess.Game) {
	t.Helper()
	r := NewReader(cfg)
	if err := r.TokenizeReader("test.pgn", strings.NewReader(pgn)); err != nil {
		t.Fatalf("TokenizeReader() error = %v", err)
	}
	return r, r.ReadAll()
}

// parseTestGame is a helper that parses a PGN string and returns the first game.
func parseTestGame(t *testing.T, pgn string) *chess.Game {
	t.Helper()
	_, games := readString(t, pgn, nil)
	if len(games) == 0 {
		t.Fatal("Expected game, got none")
	}
	return games[0]
}

func TestReader_DeepBlueFixture(t *testing.T) {
	r := NewReader(nil)
	if err := r.Tokenize(fixture); err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	games := r.ReadAll()
	if len(games) != 6 {
		t.Fatalf("len(games) = %d; want 6", len(games))
	}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v; want nil", err)
	}

	g := games[1]
	if got := g.White(); got != "Deep Blue (Computer)" {
		t.Errorf("White = %q; want %q", got, "Deep Blue (Computer)")
	}
	if got := g.Result(); got != "1-0" {
		t.Errorf("Result = %q; want %q", got, "1-0")
	}
	if got := g.ECO(); got != "C93" {
		t.Errorf("ECO = %q; want %q", got, "C93")
	}
	if got := g.PlyCount(); got != 89 {
		t.Errorf("PlyCount = %d; want 89", got)
	}
	wantFinal := "1r6/5kp1/RqQb1p1p/1p1PpP2/1Pp1B3/2P4P/6P1/5K2 b - -"
	if !strings.HasPrefix(g.FinalFEN, wantFinal) {
		t.Errorf("FinalFEN = %q; want prefix %q", g.FinalFEN, wantFinal)
	}

	for i, g := range games {
		if !g.Complete() {
			t.Errorf("game %d incomplete: %v", i, g.Err)
		}
		if g.Termination != g.Result() {
			t.Errorf("game %d: Termination = %q; want %q", i, g.Termination, g.Result())
		}
	}
	if got := games[5].SAN[len(games[5].SAN)-1]; got != "c4" {
		t.Errorf("last SAN of game 6 = %q; want %q", got, "c4")
	}
}

func TestReader_Chunked(t *testing.T) {
	r := NewReader(nil)
	if err := r.Tokenize(fixture); err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if done, total := r.Progress(); done != 0 || total != 6 {
		t.Errorf("Progress() = %d, %d; want 0, 6", done, total)
	}
	n := 0
	for r.HasMore() {
		if _, err := r.ReadChunk(); err != nil {
			t.Fatalf("ReadChunk() error = %v", err)
		}
		n++
		if done, _ := r.Progress(); done != n {
			t.Errorf("Progress() done = %d; want %d", done, n)
		}
	}
	if r.CurrentState() != StateResult {
		t.Errorf("CurrentState() = %v; want %v", r.CurrentState(), StateResult)
	}
	if _, err := r.ReadChunk(); err != io.EOF {
		t.Errorf("ReadChunk() after end error = %v; want io.EOF", err)
	}
	if len(r.Games()) != 6 {
		t.Errorf("len(Games()) = %d; want 6", len(r.Games()))
	}
}

func TestReader_TokenizeTwice(t *testing.T) {
	r := NewReader(nil)
	for i := 0; i < 2; i++ {
		if err := r.Tokenize(fixture); err != nil {
			t.Fatalf("Tokenize() error = %v", err)
		}
	}
	if got := len(r.ReadAll()); got != 12 {
		t.Errorf("len(ReadAll()) = %d; want 12", got)
	}
}

func TestReader_Compressed(t *testing.T) {
	data, err := codec.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "match.pgn.zst")
	if err := codec.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewReader(nil)
	if err := r.Tokenize(path); err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if got := len(r.ReadAll()); got != 6 {
		t.Errorf("len(ReadAll()) = %d; want 6", got)
	}
}

func TestReader_MissingFile(t *testing.T) {
	r := NewReader(nil)
	err := r.Tokenize("testdata/no-such-file.pgn")
	if !errors.Is(err, chesserrors.ErrFileNotFound) {
		t.Errorf("Tokenize() error = %v; want ErrFileNotFound", err)
	}
}

func TestParseSimpleGame(t *testing.T) {
	pgn := `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "Player1"]
[Black "Player2"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0
`

	game := parseTestGame(t, pgn)

	if got := game.GetTag("Event"); got != "Test" {
		t.Errorf("Event = %q, want %q", got, "Test")
	}
	if got := game.White(); got != "Player1" {
		t.Errorf("White = %q, want %q", got, "Player1")
	}
	if count := game.PlyCount(); count != 6 {
		t.Errorf("PlyCount = %d, want 6", count)
	}
	if got := game.Moves[0].UCI(); got != "e2e4" {
		t.Errorf("First move = %q, want %q", got, "e2e4")
	}
	if got := game.Termination; got != "1-0" {
		t.Errorf("Termination = %q, want %q", got, "1-0")
	}
	if got := game.StartLine; got != 1 {
		t.Errorf("StartLine = %d, want 1", got)
	}
	if got := game.EndLine; got != 9 {
		t.Errorf("EndLine = %d, want 9", got)
	}
}

func TestParseFoolsMate(t *testing.T) {
	game := parseTestGame(t, `1. f3 e5 2. g4 Qh4# 0-1`)

	if count := game.PlyCount(); count != 4 {
		t.Errorf("PlyCount = %d, want 4", count)
	}
	if got := game.SAN[3]; got != "Qh4#" {
		t.Errorf("SAN[3] = %q, want %q", got, "Qh4#")
	}
	pos, err := chess.ParseFEN(game.FinalFEN)
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsCheckmate() {
		t.Error("final position is not checkmate")
	}
}

func TestParseSkipsAnnotations(t *testing.T) {
	pgn := `[Event "Annotated"]
[Result "*"]

; a line comment before the moves
1. e4! {Best by test} e5?! $14 2. Nf3 (2. Nc3 {Vienna} Nf6 (2... Nc6)) 2... Nc6
% escaped line 9. Qxf7
3. Bb5 {The {Ruy} Lopez} *
`
	cfg := config.NewConfig()
	cfg.PGN.AllowNestedComments = true
	_, games := readString(t, pgn, cfg)
	if len(games) != 1 {
		t.Fatalf("len(games) = %d, want 1", len(games))
	}
	game := games[0]
	if !game.Complete() {
		t.Fatalf("game incomplete: %v", game.Err)
	}
	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}
	if strings.Join(game.SAN, " ") != strings.Join(want, " ") {
		t.Errorf("SAN = %v, want %v", game.SAN, want)
	}
}

func TestParseCastling(t *testing.T) {
	tests := []struct {
		name string
		pgn  string
		want string
	}{
		{"O-O", "1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. O-O *", "e1g1"},
		{"O-O-O", "1. d4 d5 2. Nc3 Nc6 3. Bf4 Bf5 4. Qd2 Qd7 5. O-O-O *", "e1c1"},
		{"0-0", "1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 4. 0-0 *", "e1g1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := parseTestGame(t, tt.pgn)
			if !game.Complete() {
				t.Fatalf("game incomplete: %v", game.Err)
			}
			last := game.Moves[len(game.Moves)-1]
			if got := last.UCI(); got != tt.want {
				t.Errorf("last move = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSetUp(t *testing.T) {
	pgn := `[Event "Endgame"]
[SetUp "1"]
[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]
[Result "*"]

1. e4 Kd7 2. e5 *

[Event "Endgame again"]
[SetUp "1"]
[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]
[Result "*"]

1. e3 *
`
	_, games := readString(t, pgn, nil)
	if len(games) != 2 {
		t.Fatalf("len(games) = %d, want 2", len(games))
	}
	if got, want := games[0].FinalFEN, "8/3k4/8/4P3/8/8/8/4K3 b - - 0 2"; got != want {
		t.Errorf("FinalFEN = %q, want %q", got, want)
	}
	if got, want := games[1].FinalFEN, "4k3/8/8/8/8/4P3/8/4K3 b - - 0 1"; got != want {
		t.Errorf("FinalFEN = %q, want %q", got, want)
	}
	if games[1].StartFEN != "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1" {
		t.Errorf("StartFEN = %q", games[1].StartFEN)
	}
}

func TestParseRecoversFromBadMove(t *testing.T) {
	pgn := `[Event "Broken"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nf6 3. Qxf7 Nc6 1-0

[Event "Ambiguous"]
[Result "*"]

1. d4 d5 2. Nf3 Nf6 3. Nd2 *

[Event "Fine"]
[Result "0-1"]

1. f3 e5 2. g4 Qh4# 0-1
`
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.NewConfigBuilder().WithLogger(zap.New(core)).Build()
	r, games := readString(t, pgn, cfg)

	if len(games) != 3 {
		t.Fatalf("len(games) = %d, want 3", len(games))
	}

	broken := games[0]
	if broken.Complete() {
		t.Error("broken game reported complete")
	}
	if broken.ErrorPly != 5 || broken.PlyCount() != 4 {
		t.Errorf("ErrorPly = %d, PlyCount = %d; want 5, 4", broken.ErrorPly, broken.PlyCount())
	}
	if !errors.Is(broken.Err, chesserrors.ErrAmbiguousOrIllegalSAN) {
		t.Errorf("Err = %v; want ErrAmbiguousOrIllegalSAN", broken.Err)
	}
	var gerr *chesserrors.GameError
	if !errors.As(broken.Err, &gerr) || gerr.Game != 1 || gerr.SAN != "Qxf7" {
		t.Errorf("Err = %#v; want GameError for game 1 move Qxf7", broken.Err)
	}

	// Both knights reach d2.
	if games[1].Complete() || games[1].ErrorPly != 5 {
		t.Errorf("ambiguous game: Complete = %v, ErrorPly = %d", games[1].Complete(), games[1].ErrorPly)
	}

	if !games[2].Complete() || games[2].GetTag("Event") != "Fine" {
		t.Errorf("game after errors not parsed: %+v", games[2])
	}

	if n := logs.FilterMessage("incomplete game").Len(); n != 2 {
		t.Errorf("incomplete game warnings = %d, want 2", n)
	}
	if err := r.Err(); err == nil || !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Err() = %v; want 2 combined errors", err)
	}
}

func TestParseMissingResult(t *testing.T) {
	pgn := `[Event "No result"]

1. e4 e5

[Event "Next"]
[Result "*"]

1. d4 *
`
	_, games := readString(t, pgn, nil)
	if len(games) != 2 {
		t.Fatalf("len(games) = %d, want 2", len(games))
	}
	if games[0].Complete() || !errors.Is(games[0].Err, chesserrors.ErrUnexpectedEOF) {
		t.Errorf("game without result: Complete = %v, Err = %v", games[0].Complete(), games[0].Err)
	}
	if games[0].PlyCount() != 2 {
		t.Errorf("PlyCount = %d, want 2", games[0].PlyCount())
	}
	if games[1].GetTag("Event") != "Next" || !games[1].Complete() {
		t.Errorf("second game = %+v", games[1])
	}
}

func TestParseBadFEN(t *testing.T) {
	pgn := `[SetUp "1"]
[FEN "not a fen"]
[Result "*"]

1. e4 *
`
	game := parseTestGame(t, pgn)
	if game.Complete() || !errors.Is(game.Err, chesserrors.ErrInvalidFEN) {
		t.Errorf("Complete = %v, Err = %v; want ErrInvalidFEN", game.Complete(), game.Err)
	}
}

func TestParsePlyCountTag(t *testing.T) {
	cfg := config.NewConfigBuilder().WithPlyCountTag(true).Build()
	_, games := readString(t, "1. e4 e5 2. Nf3 *", cfg)
	if got := games[0].GetTag(chess.PlyCountTag); got != "3" {
		t.Errorf("PlyCount tag = %q, want %q", got, "3")
	}
}

func TestParseFENCache(t *testing.T) {
	pgn := strings.Repeat(`[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]
[Result "*"]

1. e4 *

`, 3)
	for _, size := range []int{0, 1} {
		cfg := config.NewConfigBuilder().WithFENCacheSize(size).Build()
		_, games := readString(t, pgn, cfg)
		for i, g := range games {
			if g.FinalFEN != "4k3/8/8/8/4P3/8/8/4K3 b - e3 0 1" {
				t.Errorf("cache %d: game %d FinalFEN = %q", size, i, g.FinalFEN)
			}
		}
	}
}

func TestParseMultipleGames(t *testing.T) {
	pgn := `[Event "Game 1"]
[Result "1-0"]

1. e4 e5 1-0

{A comment between games}

[Event "Game 2"]
[Result "0-1"]

1. d4 d5 0-1
{trailing comment}
`
	_, games := readString(t, pgn, nil)
	if len(games) != 2 {
		t.Fatalf("len(games) = %d, want 2", len(games))
	}
	if got := games[0].GetTag("Event"); got != "Game 1" {
		t.Errorf("games[0].Event = %q, want %q", got, "Game 1")
	}
	if got := games[1].GetTag("Event"); got != "Game 2" {
		t.Errorf("games[1].Event = %q, want %q", got, "Game 2")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateBoundary, "boundary"},
		{StateHeaderTag, "header-tag"},
		{StateHeaderValue, "header-value"},
		{StateMovetext, "movetext"},
		{StateComment, "comment"},
		{StateResult, "result"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
