package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/config"
	"github.com/lgbarn/chessdb/internal/logging"
	"github.com/lgbarn/chessdb/internal/stats"
	statslogger "github.com/lgbarn/chessdb/internal/stats/logger"
	promstats "github.com/lgbarn/chessdb/internal/stats/prometheus"
)

// app holds the state shared by all commands.
type app struct {
	// Global flags.
	verbose int
	logJSON bool
	metrics bool

	logger   *zap.Logger
	stats    stats.Collector
	registry *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "chessdb",
		Short: "Read PGN databases and classify chess openings",
		Long: `chessdb reads PGN game databases and ECO opening tables.

Examples:
  # Summarize the games in a database, classifying openings
  chessdb games --eco eco.eco games.pgn.zst

  # Convert an ECO table to JSON
  chessdb eco -c classification.json -l lookup.json eco.eco

  # List the legal moves of a position
  chessdb moves "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	cmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log as JSON")
	cmd.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "print Prometheus metrics to stderr on exit")

	cmd.AddCommand(a.newGamesCmd(), a.newECOCmd(), a.newMovesCmd())
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.logger == nil {
		logger, err := logging.New(a.verbose, a.logJSON)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		a.logger = logger
	}

	switch {
	case a.metrics:
		a.registry = prometheus.NewRegistry()
		a.stats = promstats.New(a.registry)
	case a.verbose >= 2:
		a.stats = statslogger.New(a.logger)
	default:
		a.stats = stats.Noop{}
	}
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	defer a.logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(cmd.ErrOrStderr(), expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// config returns a builder seeded with the global settings.
func (a *app) config(cmd *cobra.Command) *config.ConfigBuilder {
	return config.NewConfigBuilder().
		WithLogger(a.logger).
		WithStats(a.stats).
		WithVerbosity(a.verbose).
		WithOutput(cmd.OutOrStdout())
}
