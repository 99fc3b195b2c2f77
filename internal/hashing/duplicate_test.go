package hashing

import (
	"testing"

	"github.com/lgbarn/chessdb/internal/chess"
)

func gameWithMoves(t *testing.T, uci ...string) (*chess.Game, *chess.Position) {
	t.Helper()
	g := chess.NewGame()
	pos := chess.NewPosition()
	for _, s := range uci {
		m, err := chess.ParseUCI(s)
		if err != nil {
			t.Fatal(err)
		}
		if err := pos.MakeMove(m); err != nil {
			t.Fatal(err)
		}
		g.Moves = append(g.Moves, m)
	}
	return g, pos
}

func TestDuplicateDetector(t *testing.T) {
	d := NewDuplicateDetector(false, 0)

	g1, p1 := gameWithMoves(t, "e2e4", "e7e5", "g1f3")
	g2, p2 := gameWithMoves(t, "g1f3", "e7e5", "e2e4")
	g3, p3 := gameWithMoves(t, "d2d4")

	if d.CheckAndAdd(g1, p1) {
		t.Error("first game reported as duplicate")
	}
	if !d.CheckAndAdd(g2, p2) {
		t.Error("transposed game not reported as duplicate")
	}
	if d.CheckAndAdd(g3, p3) {
		t.Error("different game reported as duplicate")
	}
	if d.DuplicateCount() != 1 || d.UniqueCount() != 2 {
		t.Errorf("duplicates=%d unique=%d; want 1 and 2", d.DuplicateCount(), d.UniqueCount())
	}
	if d.CheckAndAdd(g1, nil) {
		t.Error("nil position reported as duplicate")
	}

	d.Reset()
	if d.DuplicateCount() != 0 || d.UniqueCount() != 0 {
		t.Error("Reset did not clear counts")
	}
}

func TestDuplicateDetectorExactMatch(t *testing.T) {
	d := NewDuplicateDetector(true, 0)
	g1, p1 := gameWithMoves(t, "g1f3", "g8f6", "f3g1", "f6g8")
	g2, p2 := gameWithMoves(t)
	d.CheckAndAdd(g1, p1)
	// Same placement and side to move, but the clocks and ply count differ.
	if d.CheckAndAdd(g2, p2) {
		t.Error("games with different ply counts matched under exact matching")
	}
}

func TestDuplicateDetectorCapacity(t *testing.T) {
	d := NewDuplicateDetector(false, 1)
	g1, p1 := gameWithMoves(t, "e2e4")
	g2, p2 := gameWithMoves(t, "d2d4")
	d.CheckAndAdd(g1, p1)
	if !d.IsFull() {
		t.Fatal("IsFull() = false at capacity")
	}
	if d.CheckAndAdd(g2, p2) {
		t.Error("new game reported as duplicate")
	}
	if d.UniqueCount() != 1 {
		t.Errorf("UniqueCount() = %d; want 1", d.UniqueCount())
	}
	if !d.CheckAndAdd(g1, p1) {
		t.Error("stored game not detected once full")
	}
}
