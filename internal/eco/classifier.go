package eco

import (
	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/hashing"
)

// HalfMoveLimit is how far past the deepest known entry a game is replayed
// looking for a transposition.
const HalfMoveLimit = 6

// Classifier assigns ECO codes to games by the deepest classified position
// they pass through. It is read-only and safe for concurrent use.
type Classifier struct {
	classification map[uint64]Classification
	lookup         map[string]LookupEntry
	hasher         *hashing.Hasher
	maxPly         int
}

// NewClassifier wraps the two tables. Either may be nil.
func NewClassifier(classification map[uint64]Classification, lookup map[string]LookupEntry) *Classifier {
	c := &Classifier{
		classification: classification,
		lookup:         lookup,
		hasher:         hashing.Default(),
	}
	for _, cl := range classification {
		c.maxPly = max(c.maxPly, cl.Ply)
	}
	return c
}

// Len returns the number of classified positions.
func (c *Classifier) Len() int {
	return len(c.classification)
}

// Lookup returns the name and FEN recorded for code.
func (c *Classifier) Lookup(code string) (LookupEntry, bool) {
	e, ok := c.lookup[code]
	return e, ok
}

// ClassifyPosition returns the opening of pos, if it is classified.
func (c *Classifier) ClassifyPosition(pos *chess.Position) (Classification, bool) {
	cl, ok := c.classification[c.hasher.Hash(pos)]
	return cl, ok
}

// Classify replays game and returns the classification of the deepest
// classified position together with its ply. A game that cannot be replayed
// is not classified.
func (c *Classifier) Classify(game *chess.Game) (Classification, int, bool) {
	var (
		best    Classification
		bestPly int
		found   bool
	)
	if len(c.classification) == 0 {
		return best, 0, false
	}
	limit := len(game.Moves)
	if c.maxPly > 0 {
		limit = min(limit, c.maxPly+HalfMoveLimit)
	}
	err := game.Replay(func(ply int, pos *chess.Position) bool {
		if cl, ok := c.ClassifyPosition(pos); ok {
			best, bestPly, found = cl, ply, true
		}
		return ply < limit
	})
	if err != nil {
		// A bad start FEN or a move list that no longer replays.
		return Classification{}, 0, false
	}
	return best, bestPly, found
}

// Apply sets the ECO and Opening tags of game from its classification and
// reports whether one was found.
func (c *Classifier) Apply(game *chess.Game) bool {
	cl, _, ok := c.Classify(game)
	if !ok {
		return false
	}
	game.SetTag(chess.ECOTag, cl.ECO)
	game.SetTag(chess.OpeningTag, cl.Name)
	return true
}
