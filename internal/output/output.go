// Package output writes parsed games and ECO tables as PGN, JSON or text.
package output

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chessdb/internal/chess"
)

// gameResult returns the terminating result, falling back to the Result tag.
func gameResult(game *chess.Game) string {
	if game.Termination != "" {
		return game.Termination
	}
	if result := game.Result(); result != "" {
		return result
	}
	return "*"
}

// Summary is a one-line description of a game.
func Summary(index int, game *chess.Game) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s - %s %s (%d plies)", index, game.White(), game.Black(), gameResult(game), game.PlyCount())
	if eco := game.ECO(); eco != "" {
		fmt.Fprintf(&sb, " %s", eco)
		if name := game.GetTag(chess.OpeningTag); name != "" {
			fmt.Fprintf(&sb, " %s", name)
		}
	}
	if !game.MovesOK {
		fmt.Fprintf(&sb, " [incomplete at ply %d]", game.ErrorPly)
	}
	return sb.String()
}
