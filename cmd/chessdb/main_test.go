package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	chesserrors "github.com/lgbarn/chessdb/internal/errors"
	"github.com/lgbarn/chessdb/internal/eco"
	"github.com/lgbarn/chessdb/internal/output"
)

const (
	pgnFixture = "../../internal/parser/testdata/kasparov-deep-blue-1997.pgn"
	ecoFixture = "../../internal/eco/testdata/minimal.eco"
)

// runCmd executes the CLI with args and returns stdout and stderr.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMoves_StartPosition(t *testing.T) {
	out, _, err := runCmd(t, "moves")
	if err != nil {
		t.Fatalf("moves error = %v", err)
	}
	for _, want := range []string{
		"hash:   463b96181691fc9c\n",
		"status: white to move\n",
		"moves:  20\n",
		"  e2e4  e4\n",
		"  g1f3  Nf3\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMoves_Status(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"checkmate quoted", []string{"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"}, "status: checkmate\n"},
		{"stalemate fields", strings.Fields("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"), "status: stalemate\n"},
		{"check", []string{"4k3/8/8/8/8/8/8/4RK2 b - - 0 1"}, "status: black to move, in check\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCmd(t, append([]string{"moves"}, tt.args...)...)
			if err != nil {
				t.Fatalf("moves error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestMoves_Errors(t *testing.T) {
	if _, _, err := runCmd(t, "moves", "not a fen"); err == nil {
		t.Error("moves with 3 arguments succeeded")
	}
	_, _, err := runCmd(t, "moves", "8/8/8/8/8/8/8/8 x - - 0 1")
	if !errors.Is(err, chesserrors.ErrInvalidFEN) {
		t.Errorf("moves error = %v; want ErrInvalidFEN", err)
	}
}

func TestGames_Summary(t *testing.T) {
	out, errOut, err := runCmd(t, "games", "--eco", ecoFixture, pgnFixture)
	if err != nil {
		t.Fatalf("games error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines; want 6:\n%s", len(lines), out)
	}
	want := "2. Deep Blue (Computer) - Kasparov, Garry 1-0 (89 plies) C60 Ruy Lopez (Spanish opening)"
	if lines[1] != want {
		t.Errorf("line 2 = %q; want %q", lines[1], want)
	}
	if !strings.HasPrefix(lines[0], "1. Kasparov, Garry - Deep Blue (Computer) 1-0") || !strings.Contains(lines[0], " A07") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.Contains(errOut, "6 games") || !strings.Contains(errOut, "from 1 files, 0 incomplete") {
		t.Errorf("totals = %q", errOut)
	}
}

func TestGames_JSONAndDedupe(t *testing.T) {
	out, errOut, err := runCmd(t, "games", "--json", "--dedupe", "--jobs", "2", pgnFixture, pgnFixture)
	if err != nil {
		t.Fatalf("games error = %v", err)
	}
	var got output.JSONOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if len(got.Games) != 6 {
		t.Errorf("len(Games) = %d; want 6", len(got.Games))
	}
	if !strings.Contains(errOut, "6 duplicates skipped") {
		t.Errorf("totals = %q", errOut)
	}
}

func TestGames_PGN(t *testing.T) {
	out, _, err := runCmd(t, "games", "--pgn", "--plycount", "-q", pgnFixture)
	if err != nil {
		t.Fatalf("games error = %v", err)
	}
	if got := strings.Count(out, "[Event "); got != 6 {
		t.Errorf("PGN has %d games; want 6", got)
	}
	if !strings.Contains(out, `[PlyCount "89"]`) {
		t.Error("PGN is missing the PlyCount tag of game 2")
	}
}

func TestGames_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.pgn")
	out, _, err := runCmd(t, "games", pgnFixture, missing)
	if !errors.Is(err, chesserrors.ErrFileNotFound) {
		t.Errorf("games error = %v; want ErrFileNotFound", err)
	}
	if got := strings.Count(out, "\n"); got != 6 {
		t.Errorf("printed %d games from the readable file; want 6", got)
	}
}

func TestGames_Filters(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		games int
	}{
		{"white player", []string{"--tag", "White ~ ^Kasparov"}, 3},
		{"draws", []string{"--tag", `Result "1/2-1/2"`}, 3},
		{"player and result", []string{"--player", "deep blue", "--tag", "Result = 1-0"}, 3},
		{"ruy lopez position", []string{"--position", "r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"games"}, tt.args...)
			out, _, err := runCmd(t, append(args, pgnFixture)...)
			if err != nil {
				t.Fatalf("games error = %v", err)
			}
			if got := strings.Count(out, "\n"); got != tt.games {
				t.Errorf("printed %d games; want %d:\n%s", got, tt.games, out)
			}
		})
	}

	if _, _, err := runCmd(t, "games", "--tag", "White ~ [", pgnFixture); !errors.Is(err, chesserrors.ErrInvalidConfig) {
		t.Errorf("bad regex error = %v; want ErrInvalidConfig", err)
	}
}

func TestGames_Metrics(t *testing.T) {
	_, errOut, err := runCmd(t, "games", "--metrics", "-q", pgnFixture)
	if err != nil {
		t.Fatalf("games error = %v", err)
	}
	if !strings.Contains(errOut, "chessdb_pgn_games_total 6") {
		t.Errorf("metrics output missing games counter:\n%s", errOut)
	}
}

func TestECO_JSONTables(t *testing.T) {
	dir := t.TempDir()
	clsPath := filepath.Join(dir, "classification.json")
	lookupPath := filepath.Join(dir, "lookup.json.gz")

	out, _, err := runCmd(t, "eco", "-c", clsPath, "-l", lookupPath, ecoFixture)
	if err != nil {
		t.Fatalf("eco error = %v", err)
	}
	if !strings.HasPrefix(out, "A00 Polish (Sokolsky) opening\nB00 King's Pawn\n") {
		t.Errorf("progress output = %q", out)
	}

	data, err := os.ReadFile(clsPath)
	if err != nil {
		t.Fatal(err)
	}
	var cls map[string]eco.Classification
	if err := json.Unmarshal(data, &cls); err != nil {
		t.Fatal(err)
	}
	if len(cls) != 9 {
		t.Errorf("classification has %d positions; want 9", len(cls))
	}

	quiet, _, err := runCmd(t, "eco", "-q", "-l", lookupPath, ecoFixture)
	if err != nil {
		t.Fatalf("eco -q error = %v", err)
	}
	if quiet != "" {
		t.Errorf("quiet output = %q", quiet)
	}
}

func TestECO_StoreThenClassify(t *testing.T) {
	db := t.TempDir()
	if _, _, err := runCmd(t, "eco", "-q", "--db", db, ecoFixture); err != nil {
		t.Fatalf("eco --db error = %v", err)
	}
	out, _, err := runCmd(t, "games", "-q", "--eco-db", db, pgnFixture)
	if err != nil {
		t.Fatalf("games --eco-db error = %v", err)
	}
	if !strings.Contains(out, "C60 Ruy Lopez (Spanish opening)") {
		t.Errorf("games output missing classification:\n%s", out)
	}
}

func TestAppSetup_Stats(t *testing.T) {
	tests := []struct {
		name    string
		app     app
		wantReg bool
	}{
		{"default", app{}, false},
		{"verbose", app{verbose: 2}, false},
		{"metrics", app{metrics: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.app
			a.logger = zap.NewNop()
			if err := a.setup(newRootCmd(), nil); err != nil {
				t.Fatal(err)
			}
			if a.stats == nil {
				t.Error("stats not set")
			}
			if got := a.registry != nil; got != tt.wantReg {
				t.Errorf("registry set = %v; want %v", got, tt.wantReg)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	_, _, err := runCmd(t, "games", "does-not-exist.pgn")
	if got := exitCode(err); got != exitInput {
		t.Errorf("exitCode(missing file) = %d; want %d", got, exitInput)
	}
	_, _, err = runCmd(t, "games", "--jobs", "0", pgnFixture)
	if got := exitCode(err); got != exitFailure {
		t.Errorf("exitCode(%v) = %d; want %d", err, got, exitFailure)
	}
}
