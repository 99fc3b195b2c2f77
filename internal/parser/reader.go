package parser

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/codec"
	"github.com/lgbarn/chessdb/internal/config"
	"github.com/lgbarn/chessdb/internal/errors"
	"github.com/lgbarn/chessdb/internal/hashing"
	"github.com/lgbarn/chessdb/internal/stats"
)

// State is the position of the reader's state machine.
type State int

const (
	StateBoundary State = iota
	StateHeaderTag
	StateHeaderValue
	StateMovetext
	StateComment
	StateResult
)

var stateNames = [...]string{
	StateBoundary:    "boundary",
	StateHeaderTag:   "header-tag",
	StateHeaderValue: "header-value",
	StateMovetext:    "movetext",
	StateComment:     "comment",
	StateResult:      "result",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// chunk is the token run of one game.
type chunk struct {
	file      string
	tokens    []Token
	startLine int
	endLine   int
}

// Reader parses PGN databases one game per chunk. Tokenize loads a file and
// splits it at game boundaries; ReadChunk replays the next game. A game
// whose movetext cannot be replayed is kept with MovesOK false and never
// stops the games after it.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	cfg      *config.Config
	logger   *zap.Logger
	stats    stats.Collector
	hasher   *hashing.Hasher
	fenCache *lru.Cache[string, *chess.Position]

	chunks []chunk
	next   int
	games  []*chess.Game
	errs   *multierror.Error
	state  State
}

// NewReader creates a reader. A nil cfg uses defaults.
func NewReader(cfg *config.Config) *Reader {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	cfg.Normalize()
	r := &Reader{
		cfg:    cfg,
		logger: cfg.Logger.Named("pgn"),
		stats:  cfg.Stats,
		hasher: hashing.Default(),
	}
	if cfg.PGN.FENCacheSize > 0 {
		// Only fails for a non-positive size.
		r.fenCache, _ = lru.New[string, *chess.Position](cfg.PGN.FENCacheSize)
	}
	return r
}

// Tokenize reads path and queues its games. Compressed files are
// decompressed by extension. Games from each call are appended in order.
func (r *Reader) Tokenize(path string) error {
	data, err := codec.ReadFile(path)
	if err != nil {
		return err
	}
	r.tokenize(path, data)
	return nil
}

// TokenizeReader queues the games read from src, reporting them under name.
func (r *Reader) TokenizeReader(name string, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.tokenize(name, data)
	return nil
}

func (r *Reader) tokenize(name string, src []byte) {
	lexer := NewLexer(src, r.cfg.PGN.AllowNestedComments, r.logger.With(zap.String("file", name)))
	chunks := splitGames(name, lexer.Tokens())
	r.chunks = append(r.chunks, chunks...)
	r.logger.Debug("tokenized", zap.String("file", name), zap.Int("games", len(chunks)))
	r.stats.SetGauge(stats.MetricPendingChunks, int64(len(r.chunks)-r.next))
}

// splitGames cuts a token stream into games. A game ends at a result outside
// any variation, or where a tag follows movetext of a game lacking a result.
func splitGames(name string, tokens []Token) []chunk {
	var chunks []chunk
	cur := chunk{file: name}
	depth := 0
	inMovetext := false

	flush := func() {
		if hasGameContent(cur.tokens) {
			cur.endLine = cur.tokens[len(cur.tokens)-1].Line
			chunks = append(chunks, cur)
		}
		cur = chunk{file: name}
		depth = 0
		inMovetext = false
	}

	for _, tok := range tokens {
		if tok.Type == TagToken && inMovetext {
			flush()
		}
		if len(cur.tokens) == 0 {
			cur.startLine = tok.Line
		}
		cur.tokens = append(cur.tokens, tok)
		if tok.IsMovetext() {
			inMovetext = true
		}
		switch tok.Type {
		case RAVStart:
			depth++
		case RAVEnd:
			if depth > 0 {
				depth--
			}
		case TerminatingResult:
			if depth == 0 {
				flush()
			}
		}
	}
	flush()
	return chunks
}

// hasGameContent is false for runs holding only comments.
func hasGameContent(tokens []Token) bool {
	for _, tok := range tokens {
		if tok.Type != CommentToken {
			return true
		}
	}
	return false
}

// HasMore reports whether games remain to be read.
func (r *Reader) HasMore() bool {
	return r.next < len(r.chunks)
}

// Progress returns the number of games read and the number queued in total.
func (r *Reader) Progress() (done, total int) {
	return r.next, len(r.chunks)
}

// CurrentState returns the state the reader stopped in after the last chunk.
func (r *Reader) CurrentState() State {
	return r.state
}

// ReadChunk parses the next game and appends it to Games. It returns io.EOF
// when no games remain. Replay errors are recorded on the game, not returned.
func (r *Reader) ReadChunk() (*chess.Game, error) {
	if !r.HasMore() {
		return nil, io.EOF
	}
	start := time.Now()
	c := r.chunks[r.next]
	r.next++
	r.chunks[r.next-1].tokens = nil

	game := r.parseGame(c, len(r.games)+1)
	r.games = append(r.games, game)

	r.stats.IncCounter(stats.MetricGamesRead, 1)
	r.stats.IncCounter(stats.MetricPliesRead, int64(game.PlyCount()))
	r.stats.SetGauge(stats.MetricPendingChunks, int64(len(r.chunks)-r.next))
	r.stats.ObserveHistogram(stats.MetricChunkSeconds, time.Since(start).Seconds())
	r.logger.Debug("chunk",
		zap.Int("game", len(r.games)),
		zap.Int("plies", game.PlyCount()),
		zap.Stringer("state", r.state),
	)
	return game, nil
}

// ReadAll drains the remaining chunks and returns every game read so far.
func (r *Reader) ReadAll() []*chess.Game {
	for r.HasMore() {
		if _, err := r.ReadChunk(); err != nil {
			break
		}
	}
	return r.games
}

// Games returns the games read so far.
func (r *Reader) Games() []*chess.Game {
	return r.games
}

// Err returns the combined replay errors of all incomplete games, or nil.
func (r *Reader) Err() error {
	return r.errs.ErrorOrNil()
}

// parseGame walks the state machine over one game's tokens.
func (r *Reader) parseGame(c chunk, gameNum int) *chess.Game {
	r.state = StateBoundary
	game := chess.NewGame()
	game.StartLine = c.startLine
	game.EndLine = c.endLine

	var (
		pos        *chess.Position
		pendingTag string
		depth      int
		failed     bool
		sawResult  bool
	)

	fail := func(err error, tok Token) {
		failed = true
		game.MovesOK = false
		game.ErrorPly = len(game.Moves) + 1
		gerr := &errors.GameError{
			Err:  err,
			File: c.file,
			Line: tok.Line,
			Game: gameNum,
			Ply:  game.ErrorPly,
			SAN:  tok.Text,
		}
		game.Err = gerr
		r.errs = multierror.Append(r.errs, gerr)
		r.stats.IncCounter(stats.MetricGamesIncomplete, 1)
		r.logger.Warn("incomplete game",
			zap.Int("game", gameNum),
			zap.Int("ply", game.ErrorPly),
			zap.Int("line", tok.Line),
			zap.String("move", tok.Text),
			zap.Error(err),
		)
	}

	for _, tok := range c.tokens {
		switch tok.Type {
		case TagToken:
			r.state = StateHeaderTag
			pendingTag = tok.Text
		case StringToken:
			r.state = StateHeaderValue
			if pendingTag != "" {
				game.SetTag(pendingTag, tok.Text)
				pendingTag = ""
			}
		case CommentToken:
			r.state = StateComment
		case RAVStart:
			r.state = StateMovetext
			depth++
		case RAVEnd:
			if depth > 0 {
				depth--
			}
		case MoveNumber, NAGToken, CheckSymbol:
			r.state = StateMovetext
		case MoveToken:
			r.state = StateMovetext
			if depth > 0 || failed {
				continue
			}
			if pos == nil {
				var err error
				if pos, err = r.startPosition(game); err != nil {
					fail(err, tok)
					continue
				}
			}
			m, err := pos.ParseSAN(tok.Text)
			if err != nil {
				fail(err, tok)
				continue
			}
			san, err := pos.SAN(m)
			if err == nil {
				err = pos.MakeMove(m)
			}
			if err != nil {
				fail(err, tok)
				continue
			}
			game.Moves = append(game.Moves, m)
			game.SAN = append(game.SAN, san)
		case TerminatingResult:
			if depth == 0 {
				r.state = StateResult
				game.Termination = tok.Text
				sawResult = true
			}
		}
	}

	if pos == nil {
		var err error
		if pos, err = r.startPosition(game); err != nil && !failed {
			fail(err, Token{Line: c.startLine})
		}
	}
	if !sawResult && !failed {
		fail(fmt.Errorf("game has no result: %w", errors.ErrUnexpectedEOF), Token{Line: c.endLine})
	}
	if pos != nil {
		game.FinalFEN = pos.FEN()
		game.FinalHashValue = r.hasher.Hash(pos)
	}
	if r.cfg.PGN.AddPlyCountTag {
		game.SetTag(chess.PlyCountTag, strconv.Itoa(game.PlyCount()))
	}
	return game
}

// startPosition returns the position named by the FEN tag, or the standard
// start. Parsed FENs are cached.
func (r *Reader) startPosition(game *chess.Game) (*chess.Position, error) {
	fen := game.GetTag(chess.FENTag)
	if fen == "" {
		game.StartFEN = chess.StartFEN
		return chess.NewPosition(), nil
	}
	game.StartFEN = fen
	if r.fenCache != nil {
		if cached, ok := r.fenCache.Get(fen); ok {
			r.stats.IncCounter(stats.MetricFENCacheHits, 1)
			return cached.Copy(), nil
		}
		r.stats.IncCounter(stats.MetricFENCacheMisses, 1)
	}
	pos, err := chess.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if r.fenCache != nil {
		r.fenCache.Add(fen, pos.Copy())
	}
	return pos, nil
}
