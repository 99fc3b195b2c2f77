package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/eco"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result,omitempty"`
	PlyCount   int               `json:"plyCount"`
	Complete   bool              `json:"complete"`
	ErrorPly   int               `json:"errorPly,omitempty"`
	Error      string            `json:"error,omitempty"`
	InitialFEN string            `json:"initialFEN,omitempty"`
	FinalFEN   string            `json:"finalFEN,omitempty"`
	Hash       string            `json:"hash,omitempty"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int    `json:"moveNumber,omitempty"`
	Color      string `json:"color"` // "white" or "black"
	SAN        string `json:"san"`
	UCI        string `json:"uci"`
	From       string `json:"from"`
	To         string `json:"to"`
	Piece      string `json:"piece"`
	Captured   string `json:"captured,omitempty"`
	Promotion  string `json:"promotion,omitempty"`
	Check      bool   `json:"check,omitempty"`
	FEN        string `json:"fen,omitempty"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON converts a game to its JSON form. With moveFENs each move
// carries the position reached after it.
func GameToJSON(game *chess.Game, moveFENs bool) *JSONGame {
	jg := &JSONGame{
		Tags:     game.Tags.Map(),
		Result:   gameResult(game),
		PlyCount: game.PlyCount(),
		Complete: game.MovesOK,
		FinalFEN: game.FinalFEN,
	}
	if game.StartFEN != chess.StartFEN {
		jg.InitialFEN = game.StartFEN
	}
	if game.FinalHashValue != 0 {
		jg.Hash = eco.HashKey(game.FinalHashValue)
	}
	if !game.MovesOK {
		jg.ErrorPly = game.ErrorPly
		if game.Err != nil {
			jg.Error = game.Err.Error()
		}
	}
	jg.Moves = convertMoves(game, moveFENs)
	return jg
}

// convertMoves replays the main line and describes each move.
func convertMoves(game *chess.Game, includeFEN bool) []JSONMove {
	pos, err := game.StartPosition()
	if err != nil {
		return nil
	}
	result := make([]JSONMove, 0, len(game.Moves))
	for _, m := range game.Moves {
		mi, err := pos.MoveInfo(m)
		if err != nil {
			break
		}
		jm := JSONMove{
			Color: pos.Turn().String(),
			SAN:   mi.SAN,
			UCI:   m.UCI(),
			From:  m.From.Name(),
			To:    m.To.Name(),
			Piece: mi.Piece.Kind().Name(),
			Check: mi.IsCheck,
		}
		if pos.Turn() == chess.White {
			jm.MoveNumber = pos.FullmoveNumber()
		}
		if mi.IsCapture {
			jm.Captured = mi.Captured.Kind().Name()
		}
		if m.Promotion != chess.NoPieceKind {
			jm.Promotion = m.Promotion.Name()
		}
		if err := pos.MakeMove(m); err != nil {
			break
		}
		if includeFEN {
			jm.FEN = pos.FEN()
		}
		result = append(result, jm)
	}
	return result
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteLookupJSON writes the code to name and FEN table, keyed by code.
func WriteLookupJSON(w io.Writer, lookup map[string]eco.LookupEntry) error {
	if lookup == nil {
		lookup = map[string]eco.LookupEntry{}
	}
	return encodeJSON(w, lookup)
}

// WriteClassificationJSON writes the position table keyed by hex hash.
func WriteClassificationJSON(w io.Writer, classification map[uint64]eco.Classification) error {
	keyed := make(map[string]eco.Classification, len(classification))
	for h, cl := range classification {
		keyed[eco.HashKey(h)] = cl
	}
	return encodeJSON(w, keyed)
}
