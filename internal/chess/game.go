package chess

// Game represents a parsed game: its tags, the moves that could be replayed
// and what is known about where replay stopped.
type Game struct {
	// Tags for this game (e.g., Event, Site, Date, White, Black, Result).
	Tags *Headers

	// FEN of the position the moves start from.
	StartFEN string

	// The moves of the main line, in order.
	Moves []Move

	// SAN text of each move, as written by this package.
	SAN []string

	// The result token terminating the movetext, or "*".
	Termination string

	// Whether every move of the main line was replayed.
	MovesOK bool

	// If !MovesOK, the ply at which replay stopped (1-based).
	ErrorPly int

	// Why replay stopped, when MovesOK is false.
	Err error

	// FEN and Polyglot hash of the last position reached.
	FinalFEN       string
	FinalHashValue uint64

	// Line numbers of the start and end of the game in the input file.
	StartLine int
	EndLine   int
}

// NewGame creates a new empty game.
func NewGame() *Game {
	return &Game{
		Tags:        NewHeaders(),
		StartFEN:    StartFEN,
		Termination: "*",
		MovesOK:     true,
	}
}

// GetTag returns a tag value, or empty string if not present.
func (g *Game) GetTag(name string) string {
	return g.Tags.Get(name)
}

// SetTag sets a tag value.
func (g *Game) SetTag(name, value string) {
	g.Tags.Set(name, value)
}

// HasTag returns true if the tag is present.
func (g *Game) HasTag(name string) bool {
	return g.Tags.Contains(name)
}

// White returns the White player name.
func (g *Game) White() string {
	return g.GetTag(WhiteTag)
}

// Black returns the Black player name.
func (g *Game) Black() string {
	return g.GetTag(BlackTag)
}

// Result returns the game result.
func (g *Game) Result() string {
	return g.GetTag(ResultTag)
}

// ECO returns the ECO code.
func (g *Game) ECO() string {
	return g.GetTag(ECOTag)
}

// PlyCount returns the number of half-moves replayed.
func (g *Game) PlyCount() int {
	return len(g.Moves)
}

// Complete reports whether the whole main line was replayed.
func (g *Game) Complete() bool {
	return g.MovesOK
}

// StartPosition returns a fresh position for the start of the game.
func (g *Game) StartPosition() (*Position, error) {
	if g.StartFEN == "" || g.StartFEN == StartFEN {
		return NewPosition(), nil
	}
	return ParseFEN(g.StartFEN)
}

// Replay calls fn with the position after each move, stopping early when fn
// returns false.
func (g *Game) Replay(fn func(ply int, pos *Position) bool) error {
	pos, err := g.StartPosition()
	if err != nil {
		return err
	}
	for i, m := range g.Moves {
		if err := pos.MakeMove(m); err != nil {
			return err
		}
		if !fn(i+1, pos) {
			return nil
		}
	}
	return nil
}
