package matching

import "github.com/lgbarn/chessdb/internal/chess"

// Matcher accepts or rejects a game.
type Matcher interface {
	Match(game *chess.Game) bool
}

var (
	_ Matcher = (*TagMatcher)(nil)
	_ Matcher = (*PositionMatcher)(nil)
	_ Matcher = (*GameFilter)(nil)
)

// GameFilter keeps games that pass every tag test and, when positions have
// been added, reach at least one of them.
type GameFilter struct {
	tags      *TagMatcher
	positions *PositionMatcher
}

// NewGameFilter returns a filter that keeps every game.
func NewGameFilter() *GameFilter {
	return &GameFilter{tags: NewTagMatcher(), positions: NewPositionMatcher()}
}

// AddTagCriterion adds a criterion in the form TagMatcher.Parse accepts.
func (gf *GameFilter) AddTagCriterion(criterion string) error {
	return gf.tags.Parse(criterion)
}

// AddPlayerFilter keeps games where either player's name contains name.
func (gf *GameFilter) AddPlayerFilter(name string) {
	gf.tags.AddPlayer(name)
}

// AddFENFilter adds a position the game may reach.
func (gf *GameFilter) AddFENFilter(fen string) error {
	return gf.positions.AddFEN(fen, "")
}

// Match reports whether the filter keeps game.
func (gf *GameFilter) Match(game *chess.Game) bool {
	if !gf.tags.Match(game) {
		return false
	}
	return gf.positions.Len() == 0 || gf.positions.Match(game)
}

// Empty reports whether the filter keeps every game.
func (gf *GameFilter) Empty() bool {
	return gf.tags.Len() == 0 && gf.positions.Len() == 0
}
