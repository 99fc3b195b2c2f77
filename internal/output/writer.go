package output

import (
	"io"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/config"
)

// GameWriter receives games in the order they should appear.
type GameWriter interface {
	WriteGame(game *chess.Game) error
	Flush() error
	// Close flushes anything pending. It does not close the underlying writer.
	Close() error
}

// NewGameWriter returns a JSON or PGN writer on cfg.Output.OutputFile, as
// cfg.Output.JSONFormat selects.
func NewGameWriter(cfg *config.Config) GameWriter {
	if cfg.Output.JSONFormat {
		return NewJSONWriter(cfg.Output.OutputFile, cfg)
	}
	return NewPGNWriter(cfg.Output.OutputFile, cfg)
}

// JSONWriter collects games and writes them as one JSONOutput document per
// Flush. Games are converted when written, so the caller may reuse them.
type JSONWriter struct {
	w        io.Writer
	moveFENs bool
	pending  []*JSONGame
}

// NewJSONWriter returns a JSON writer. cfg.Output.MoveFENs adds the position
// after every move.
func NewJSONWriter(w io.Writer, cfg *config.Config) *JSONWriter {
	return &JSONWriter{w: w, moveFENs: cfg.Output.MoveFENs}
}

// WriteGame converts game and holds it until Flush.
func (jw *JSONWriter) WriteGame(game *chess.Game) error {
	jw.pending = append(jw.pending, GameToJSON(game, jw.moveFENs))
	return nil
}

// Flush writes the pending games, if any.
func (jw *JSONWriter) Flush() error {
	if len(jw.pending) == 0 {
		return nil
	}
	err := encodeJSON(jw.w, &JSONOutput{Games: jw.pending})
	jw.pending = nil
	return err
}

// Close is Flush.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}
