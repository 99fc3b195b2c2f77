package matching

import (
	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/hashing"
)

// PositionMatcher selects games that pass through one of a set of positions.
// Positions are compared by Polyglot hash, so move clocks are ignored.
type PositionMatcher struct {
	hasher *hashing.Hasher
	labels map[uint64]string
}

// NewPositionMatcher creates a new position matcher.
func NewPositionMatcher() *PositionMatcher {
	return &PositionMatcher{
		hasher: hashing.Default(),
		labels: make(map[uint64]string),
	}
}

// AddFEN adds a position to look for. label defaults to the FEN.
func (pm *PositionMatcher) AddFEN(fen, label string) error {
	h, err := pm.hasher.HashFEN(fen)
	if err != nil {
		return err
	}
	if label == "" {
		label = fen
	}
	pm.labels[h] = label
	return nil
}

// Find returns the label and ply of the first wanted position the game
// reaches, including its start position at ply 0.
func (pm *PositionMatcher) Find(game *chess.Game) (label string, ply int, ok bool) {
	if len(pm.labels) == 0 {
		return "", 0, false
	}
	start, err := game.StartPosition()
	if err != nil {
		return "", 0, false
	}
	if label, ok := pm.labels[pm.hasher.Hash(start)]; ok {
		return label, 0, true
	}
	_ = game.Replay(func(i int, pos *chess.Position) bool {
		label, ok = pm.labels[pm.hasher.Hash(pos)]
		ply = i
		return !ok
	})
	if !ok {
		return "", 0, false
	}
	return label, ply, true
}

// Match reports whether game reaches any wanted position.
func (pm *PositionMatcher) Match(game *chess.Game) bool {
	_, _, ok := pm.Find(game)
	return ok
}

// Len returns the number of positions looked for.
func (pm *PositionMatcher) Len() int {
	return len(pm.labels)
}
