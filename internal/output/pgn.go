package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/config"
)

const defaultLineLength = 80

var tagEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// lineWriter joins tokens with single spaces and starts a new line rather
// than let one run past max columns.
type lineWriter struct {
	w   *bufio.Writer
	max int
	col int
}

func (lw *lineWriter) token(s string) {
	if lw.col > 0 {
		if lw.col+1+len(s) > lw.max {
			lw.w.WriteByte('\n')
			lw.col = 0
		} else {
			lw.w.WriteByte(' ')
			lw.col++
		}
	}
	lw.w.WriteString(s)
	lw.col += len(s)
}

func (lw *lineWriter) endLine() {
	lw.w.WriteByte('\n')
	lw.col = 0
}

// PGNWriter writes games as export-style PGN: tags in header order, a blank
// line, then the replayed main line wrapped at the configured width.
// Output is buffered until Flush or Close.
type PGNWriter struct {
	bw    *bufio.Writer
	width int
}

// NewPGNWriter returns a PGN writer wrapping at cfg.Output.MaxLineLength.
func NewPGNWriter(w io.Writer, cfg *config.Config) *PGNWriter {
	width := cfg.Output.MaxLineLength
	if width <= 0 {
		width = defaultLineLength
	}
	return &PGNWriter{bw: bufio.NewWriter(w), width: width}
}

// WriteGame appends one game. Errors from the underlying writer are sticky
// and surface here or on Flush.
func (pw *PGNWriter) WriteGame(game *chess.Game) error {
	for tag, value := range game.Tags.All() {
		pw.bw.WriteString("[" + tag + ` "` + tagEscaper.Replace(value) + "\"]\n")
	}
	pw.bw.WriteByte('\n')

	lw := &lineWriter{w: pw.bw, max: pw.width}
	writeMovetext(lw, game)
	lw.endLine()

	_, err := pw.bw.WriteString("\n")
	return err
}

// writeMovetext numbers moves from the start position's fullmove counter. A
// game starting with black to move opens with "N...". A game whose replay
// stopped early gets a comment naming the ply.
func writeMovetext(lw *lineWriter, game *chess.Game) {
	number, whiteToMove := 1, true
	if pos, err := game.StartPosition(); err == nil {
		number, whiteToMove = pos.FullmoveNumber(), pos.Turn() == chess.White
	}

	for i, san := range game.SAN {
		switch {
		case whiteToMove:
			lw.token(strconv.Itoa(number) + ".")
		case i == 0:
			lw.token(strconv.Itoa(number) + "...")
		}
		lw.token(san)
		if !whiteToMove {
			number++
		}
		whiteToMove = !whiteToMove
	}

	if !game.MovesOK {
		lw.token("{replay stopped at ply " + strconv.Itoa(game.ErrorPly) + "}")
	}
	lw.token(gameResult(game))
}

// Flush writes buffered output.
func (pw *PGNWriter) Flush() error {
	return pw.bw.Flush()
}

// Close flushes. The underlying writer is left open.
func (pw *PGNWriter) Close() error {
	return pw.bw.Flush()
}
