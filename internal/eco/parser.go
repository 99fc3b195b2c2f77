// Package eco parses ECO opening-classification sources and classifies games
// by the openings they reach.
//
// A source is a sequence of entries of the form
//
//	CODE "Name" ["FEN"] movetext *
//
// where CODE looks like B33 or B33h1 and the optional FEN gives the position
// the moves start from. Lines starting with '#' and text in braces are
// comments.
package eco

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/codec"
	"github.com/lgbarn/chessdb/internal/config"
	"github.com/lgbarn/chessdb/internal/errors"
	"github.com/lgbarn/chessdb/internal/hashing"
	"github.com/lgbarn/chessdb/internal/stats"
)

// State is the position of the parser's state machine within an entry.
type State int

const (
	StateHeader State = iota
	StateECO
	StateFEN
	StateMoves
)

func (s State) String() string {
	switch s {
	case StateHeader:
		return "HEADER"
	case StateECO:
		return "ECO"
	case StateFEN:
		return "FEN"
	case StateMoves:
		return "MOVES"
	}
	return "UNKNOWN"
}

// LookupEntry is the lookup-by-code record.
type LookupEntry struct {
	Name string `json:"name"`
	FEN  string `json:"fen"`
}

// Classification is the classification-by-position record.
type Classification struct {
	ECO  string `json:"eco"`
	Name string `json:"name"`
	Ply  int    `json:"ply,omitempty"`
}

// Entry is one parsed source entry.
type Entry struct {
	ECO      string
	Name     string
	StartFEN string
	Moves    []chess.Move
	FEN      string
	Hash     uint64
	Ply      int
	Line     int
}

// chunk is the token run of one entry.
type chunk struct {
	file   string
	tokens []token
}

// Parser reads ECO sources one entry per chunk and builds the lookup and
// classification tables. Duplicate codes or positions keep the last entry.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	logger   *zap.Logger
	stats    stats.Collector
	hasher   *hashing.Hasher
	classify bool
	lookup   bool

	chunks []chunk
	next   int
	errs   *multierror.Error

	state       State
	currentECO  string
	currentName string
	maxPly      int

	lookupTable         map[string]LookupEntry
	classificationTable map[uint64]Classification
}

// NewParser creates a parser. A nil cfg uses defaults.
func NewParser(cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	cfg.Normalize()
	return &Parser{
		logger:              cfg.Logger.Named("eco"),
		stats:               cfg.Stats,
		hasher:              hashing.Default(),
		classify:            cfg.ECO.BuildClassification,
		lookup:              cfg.ECO.BuildLookup,
		lookupTable:         make(map[string]LookupEntry),
		classificationTable: make(map[uint64]Classification),
	}
}

// EnableClassification toggles building the classification table.
func (p *Parser) EnableClassification(enabled bool) { p.classify = enabled }

// EnableLookup toggles building the lookup table.
func (p *Parser) EnableLookup(enabled bool) { p.lookup = enabled }

// Tokenize reads path and queues its entries.
func (p *Parser) Tokenize(path string) error {
	data, err := codec.ReadFile(path)
	if err != nil {
		return err
	}
	p.tokenize(path, string(data))
	return nil
}

// TokenizeReader queues the entries read from src, reporting them under name.
func (p *Parser) TokenizeReader(name string, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.tokenize(name, string(data))
	return nil
}

func (p *Parser) tokenize(name, src string) {
	toks, unterminated := newLexer(src).tokens()
	if unterminated > 0 {
		p.logger.Warn("unterminated string or comment", zap.String("file", name))
	}
	chunks := splitEntries(name, toks)
	p.chunks = append(p.chunks, chunks...)
	p.logger.Debug("tokenized", zap.String("file", name), zap.Int("entries", len(chunks)))
}

// splitEntries cuts tokens into entries. An entry ends after its result, or
// just before a code that follows movetext.
func splitEntries(name string, toks []token) []chunk {
	var chunks []chunk
	var cur []token
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, chunk{file: name, tokens: cur})
		}
		cur = nil
	}
	for _, tok := range toks {
		if tok.kind == tokCode && len(cur) > 0 {
			flush()
		}
		cur = append(cur, tok)
		if tok.kind == tokResult {
			flush()
		}
	}
	flush()
	return chunks
}

// HasMore reports whether entries remain to be read.
func (p *Parser) HasMore() bool {
	return p.next < len(p.chunks)
}

// Progress returns the number of entries read and queued in total.
func (p *Parser) Progress() (done, total int) {
	return p.next, len(p.chunks)
}

// CurrentState is the state reached by the last chunk.
func (p *Parser) CurrentState() State { return p.state }

// CurrentECO is the code of the last entry read.
func (p *Parser) CurrentECO() string { return p.currentECO }

// CurrentName is the opening name of the last entry read.
func (p *Parser) CurrentName() string { return p.currentName }

// ReadChunk parses the next entry into the enabled tables. It returns io.EOF
// when nothing remains. A malformed entry is skipped and returned as a
// *errors.ParseError (see Skipped); the next call moves on to the following
// entry and Err collects every skip.
func (p *Parser) ReadChunk() (*Entry, error) {
	if !p.HasMore() {
		return nil, io.EOF
	}
	start := time.Now()
	c := p.chunks[p.next]
	p.chunks[p.next].tokens = nil
	p.next++
	defer func() {
		p.stats.ObserveHistogram(stats.MetricChunkSeconds, time.Since(start).Seconds())
	}()

	entry, err := p.parseEntry(c)
	if err != nil {
		line := 0
		if len(c.tokens) > 0 {
			line = c.tokens[0].line
		}
		perr := &errors.ParseError{Err: err, File: c.file, Line: line, Entry: p.currentECO}
		p.errs = multierror.Append(p.errs, perr)
		p.stats.IncCounter(stats.MetricECOSkipped, 1)
		p.logger.Warn("skipping entry",
			zap.String("eco", p.currentECO),
			zap.Int("line", line),
			zap.Error(err),
		)
		return nil, perr
	}

	if p.lookup {
		p.lookupTable[entry.ECO] = LookupEntry{Name: entry.Name, FEN: entry.FEN}
	}
	if p.classify {
		p.classificationTable[entry.Hash] = Classification{ECO: entry.ECO, Name: entry.Name, Ply: entry.Ply}
		p.maxPly = max(p.maxPly, entry.Ply)
	}
	p.stats.IncCounter(stats.MetricECOEntries, 1)
	return entry, nil
}

// Skipped reports whether err, returned by ReadChunk, marks a malformed entry
// that was skipped.
func Skipped(err error) bool {
	_, ok := err.(*errors.ParseError)
	return ok
}

// ReadAll drains the remaining chunks and returns the entries read, passing
// over skipped entries.
func (p *Parser) ReadAll() []*Entry {
	var entries []*Entry
	for p.HasMore() {
		entry, err := p.ReadChunk()
		switch {
		case Skipped(err):
			continue
		case err != nil:
			return entries
		}
		entries = append(entries, entry)
	}
	return entries
}

// Lookup returns the table of code to name and FEN.
func (p *Parser) Lookup() map[string]LookupEntry {
	return p.lookupTable
}

// Classification returns the table of position hash to code and name.
func (p *Parser) Classification() map[uint64]Classification {
	return p.classificationTable
}

// Err returns the combined errors of all skipped entries, or nil.
func (p *Parser) Err() error {
	return p.errs.ErrorOrNil()
}

// Classifier returns a classifier over the tables built so far.
func (p *Parser) Classifier() *Classifier {
	c := NewClassifier(p.classificationTable, p.lookupTable)
	c.maxPly = p.maxPly
	return c
}

func malformed(tok token, want string) error {
	return fmt.Errorf("expected %s, got %s %q: %w", want, tok.kind, tok.text, errors.ErrMalformedECO)
}

// parseEntry walks HEADER -> ECO -> FEN -> MOVES -> HEADER over one entry.
func (p *Parser) parseEntry(c chunk) (*Entry, error) {
	p.state = StateHeader
	p.currentECO, p.currentName = "", ""
	entry := &Entry{StartFEN: chess.StartFEN}
	var pos *chess.Position

	startMoves := func() error {
		var err error
		if pos, err = chess.ParseFEN(entry.StartFEN); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrMalformedECO, err)
		}
		p.state = StateMoves
		return nil
	}

	for _, tok := range c.tokens {
		switch p.state {
		case StateHeader:
			if tok.kind != tokCode {
				return nil, malformed(tok, "ECO code")
			}
			entry.ECO, entry.Line = tok.text, tok.line
			p.currentECO = tok.text
			p.state = StateECO

		case StateECO:
			if tok.kind != tokString {
				return nil, malformed(tok, "opening name")
			}
			entry.Name = tok.text
			p.currentName = tok.text
			p.state = StateFEN

		case StateFEN:
			if tok.kind == tokString {
				entry.StartFEN = tok.text
				if err := startMoves(); err != nil {
					return nil, err
				}
				continue
			}
			if err := startMoves(); err != nil {
				return nil, err
			}
			fallthrough

		case StateMoves:
			switch tok.kind {
			case tokMove:
				m, err := pos.ParseSAN(tok.text)
				if err == nil {
					err = pos.MakeMove(m)
				}
				if err != nil {
					return nil, fmt.Errorf("%s ply %d: %w: %w", entry.ECO, len(entry.Moves)+1, errors.ErrMalformedECO, err)
				}
				entry.Moves = append(entry.Moves, m)
			case tokResult:
				p.state = StateHeader
				entry.FEN = pos.FEN()
				entry.Hash = p.hasher.Hash(pos)
				entry.Ply = gamePly(pos)
				return entry, nil
			default:
				return nil, malformed(tok, "move or result")
			}
		}
	}
	return nil, fmt.Errorf("entry %q has no result: %w", entry.ECO, errors.ErrMalformedECO)
}

// gamePly is the number of half-moves played to reach pos from the start.
func gamePly(pos *chess.Position) int {
	ply := 2 * (pos.FullmoveNumber() - 1)
	if pos.Turn() == chess.Black {
		ply++
	}
	return ply
}
