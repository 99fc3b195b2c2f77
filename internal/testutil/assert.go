package testutil

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/chessdb/internal/chess"
)

// AssertDiff reports a cmp.Diff between want and got, labelled with what.
func AssertDiff(t *testing.T, what string, got, want any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", what, diff)
	}
}

// AssertErrorIs fails unless errors.Is(err, target). A nil target means no
// error is expected.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	switch {
	case target == nil && err != nil:
		t.Errorf("unexpected error: %v", err)
	case target != nil && !errors.Is(err, target):
		t.Errorf("error = %v; want %v", err, target)
	}
}

// AssertFEN compares the FEN of pos with want.
func AssertFEN(t *testing.T, pos *chess.Position, want string) {
	t.Helper()
	if got := pos.FEN(); got != want {
		t.Errorf("FEN = %q; want %q", got, want)
	}
}

// SortedUCI returns the UCI text of moves in lexical order.
func SortedUCI(moves []chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.UCI()
	}
	slices.Sort(out)
	return out
}

// AssertLegalMoves compares the legal moves of pos with want, ignoring order.
func AssertLegalMoves(t *testing.T, pos *chess.Position, want ...string) {
	t.Helper()
	want = slices.Clone(want)
	slices.Sort(want)
	AssertDiff(t, "legal moves of "+pos.FEN(), SortedUCI(pos.LegalMoves()), want)
}

// AssertTags compares the tags present on game with want.
func AssertTags(t *testing.T, game *chess.Game, want map[string]string) {
	t.Helper()
	AssertDiff(t, "tags", game.Tags.Map(), want)
}

// AssertSAN compares the SAN move list of game with want.
func AssertSAN(t *testing.T, game *chess.Game, want ...string) {
	t.Helper()
	if len(want) == 0 {
		want = nil
	}
	got := game.SAN
	if len(got) == 0 {
		got = nil
	}
	AssertDiff(t, "SAN moves", got, want)
}
