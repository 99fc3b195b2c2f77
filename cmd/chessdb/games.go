package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/config"
	"github.com/lgbarn/chessdb/internal/eco"
	"github.com/lgbarn/chessdb/internal/hashing"
	"github.com/lgbarn/chessdb/internal/matching"
	"github.com/lgbarn/chessdb/internal/output"
	"github.com/lgbarn/chessdb/internal/stats"
	"github.com/lgbarn/chessdb/internal/store/badgerstore"
	"github.com/lgbarn/chessdb/internal/worker"
)

type gamesOptions struct {
	jobs     int
	json     bool
	pgn      bool
	moveFENs bool
	dedupe   bool
	exact    bool
	ecoFile  string
	ecoDB    string
	plyCount bool
	nested   bool
	fenCache int
	quiet    bool

	tags      []string
	players   []string
	positions []string
}

// gamesTotals is what the games command reports when it finishes.
type gamesTotals struct {
	files, games, plies, incomplete, duplicates, filtered int
}

func (a *app) newGamesCmd() *cobra.Command {
	opts := gamesOptions{}
	cmd := &cobra.Command{
		Use:   "games FILE...",
		Short: "Read PGN files and list their games",
		Long: `Read one or more PGN files (plain, .gz or .zst) and replay every game.

Each game is printed as a summary line, as PGN (--pgn) or as JSON (--json).
Games whose moves cannot all be replayed are kept and marked incomplete.

Examples:
  # Two files in parallel, classifying openings from an ECO file
  chessdb games --jobs 2 --eco eco.eco a.pgn b.pgn.zst

  # Drop games that reach the same final position
  chessdb games --dedupe --json games.pgn`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGames(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.jobs, "jobs", "j", 1, "number of files read in parallel")
	f.BoolVar(&opts.json, "json", false, "write games as JSON")
	f.BoolVar(&opts.pgn, "pgn", false, "write games as PGN")
	f.BoolVar(&opts.moveFENs, "move-fens", false, "include the FEN after each move in JSON output")
	f.BoolVar(&opts.dedupe, "dedupe", false, "skip games whose final position was already seen")
	f.BoolVar(&opts.exact, "exact", false, "with --dedupe, also require equal ply counts")
	f.StringVar(&opts.ecoFile, "eco", "", "classify openings using this ECO file")
	f.StringVar(&opts.ecoDB, "eco-db", "", "classify openings using tables saved by 'chessdb eco --db'")
	f.BoolVar(&opts.plyCount, "plycount", false, "add a PlyCount tag to every game")
	f.BoolVar(&opts.nested, "nested-comments", false, "allow nested { } comments")
	f.IntVar(&opts.fenCache, "fen-cache", 128, "number of parsed SetUp positions to cache, 0 to disable")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the totals line")
	f.StringArrayVar(&opts.tags, "tag", nil, `keep games whose tags match, e.g. 'Date >= "1997.05"' or 'White ~ ^Kasp' (repeatable)`)
	f.StringArrayVar(&opts.players, "player", nil, "keep games where either player's name contains this text (repeatable)")
	f.StringArrayVar(&opts.positions, "position", nil, "keep games that reach this FEN (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("json", "pgn")
	cmd.MarkFlagsMutuallyExclusive("eco", "eco-db")
	return cmd
}

func (a *app) runGames(cmd *cobra.Command, args []string, opts gamesOptions) error {
	cfg := a.config(cmd).
		WithWorkers(opts.jobs).
		WithJSONOutput(opts.json).
		WithMoveFENs(opts.moveFENs).
		WithQuiet(opts.quiet).
		WithDuplicateSuppression(opts.dedupe, opts.exact).
		WithPlyCountTag(opts.plyCount).
		WithNestedComments(opts.nested).
		WithFENCacheSize(opts.fenCache).
		Build()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	classifier, err := loadClassifier(ctx, cfg, opts.ecoFile, opts.ecoDB)
	if err != nil {
		return err
	}

	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	var detector *hashing.DuplicateDetector
	if cfg.Duplicate.Suppress {
		detector = hashing.NewDuplicateDetector(cfg.Duplicate.ExactMatch, cfg.Duplicate.MaxCapacity)
	}

	out := cfg.Output.OutputFile
	var writer output.GameWriter
	if opts.json || opts.pgn {
		writer = output.NewGameWriter(cfg)
	}

	var (
		totals  gamesTotals
		fileErr *multierror.Error
	)
	for _, res := range worker.ReadFiles(ctx, cfg, args) {
		if res.Err != nil {
			a.logger.Error("cannot read file", zap.String("file", res.Path), zap.Error(res.Err))
			fileErr = multierror.Append(fileErr, res.Err)
			continue
		}
		totals.files++
		for _, game := range res.Games {
			if !filter.Match(game) {
				totals.filtered++
				continue
			}
			if detector != nil && isDuplicate(detector, game) {
				totals.duplicates++
				cfg.Stats.IncCounter(stats.MetricDuplicates, 1)
				continue
			}
			if classifier != nil {
				classifier.Apply(game)
			}
			totals.games++
			totals.plies += game.PlyCount()
			if !game.MovesOK {
				totals.incomplete++
			}
			if err := emitGame(out, writer, totals.games, game); err != nil {
				return err
			}
		}
		a.logger.Info("read file",
			zap.String("file", res.Path),
			zap.Int("games", len(res.Games)),
			zap.NamedError("incomplete", res.GameErrs),
		)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			return err
		}
	}

	if !cfg.Output.Quiet {
		printTotals(cmd.ErrOrStderr(), totals)
	}
	return fileErr.ErrorOrNil()
}

func emitGame(out io.Writer, writer output.GameWriter, index int, game *chess.Game) error {
	if writer != nil {
		return writer.WriteGame(game)
	}
	_, err := fmt.Fprintln(out, output.Summary(index, game))
	return err
}

// isDuplicate checks the final position of game against those seen so far.
func isDuplicate(detector *hashing.DuplicateDetector, game *chess.Game) bool {
	pos, err := chess.ParseFEN(game.FinalFEN)
	if err != nil {
		return false
	}
	return detector.CheckAndAdd(game, pos)
}

func printTotals(w io.Writer, t gamesTotals) {
	fmt.Fprintf(w, "%s games (%s plies) from %s files, %s incomplete",
		humanize.Comma(int64(t.games)),
		humanize.Comma(int64(t.plies)),
		humanize.Comma(int64(t.files)),
		humanize.Comma(int64(t.incomplete)),
	)
	if t.filtered > 0 {
		fmt.Fprintf(w, ", %s filtered out", humanize.Comma(int64(t.filtered)))
	}
	if t.duplicates > 0 {
		fmt.Fprintf(w, ", %s duplicates skipped", humanize.Comma(int64(t.duplicates)))
	}
	fmt.Fprintln(w)
}

func buildFilter(opts gamesOptions) (*matching.GameFilter, error) {
	filter := matching.NewGameFilter()
	for _, c := range opts.tags {
		if err := filter.AddTagCriterion(c); err != nil {
			return nil, err
		}
	}
	for _, name := range opts.players {
		filter.AddPlayerFilter(name)
	}
	for _, fen := range opts.positions {
		if err := filter.AddFENFilter(fen); err != nil {
			return nil, fmt.Errorf("--position: %w", err)
		}
	}
	return filter, nil
}

// loadClassifier builds a classifier from an ECO source file or a store
// directory. Both empty means no classification.
func loadClassifier(ctx context.Context, cfg *config.Config, ecoFile, ecoDB string) (*eco.Classifier, error) {
	switch {
	case ecoFile != "":
		p := eco.NewParser(cfg)
		p.EnableLookup(false)
		if err := p.Tokenize(ecoFile); err != nil {
			return nil, err
		}
		p.ReadAll()
		if err := p.Err(); err != nil {
			cfg.Logger.Warn("ECO file has malformed entries", zap.String("file", ecoFile), zap.Error(err))
		}
		return p.Classifier(), nil
	case ecoDB != "":
		s, err := badgerstore.Open(ecoDB)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return eco.LoadFromStore(ctx, s)
	}
	return nil, nil
}
