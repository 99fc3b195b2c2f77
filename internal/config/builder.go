package config

import (
	"io"

	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/stats"
)

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg.Normalize()
}

// WithLogger sets the logger.
func (b *ConfigBuilder) WithLogger(l *zap.Logger) *ConfigBuilder {
	b.cfg.Logger = l
	return b
}

// WithStats sets the metrics collector.
func (b *ConfigBuilder) WithStats(c stats.Collector) *ConfigBuilder {
	b.cfg.Stats = c
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}

// WithWorkers sets the number of files parsed in parallel.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithNestedComments allows nested braces in comments.
func (b *ConfigBuilder) WithNestedComments(enabled bool) *ConfigBuilder {
	b.cfg.PGN.AllowNestedComments = enabled
	return b
}

// WithPlyCountTag adds a PlyCount tag to parsed games.
func (b *ConfigBuilder) WithPlyCountTag(enabled bool) *ConfigBuilder {
	b.cfg.PGN.AddPlyCountTag = enabled
	return b
}

// WithFENCacheSize sets the size of the SetUp position cache.
func (b *ConfigBuilder) WithFENCacheSize(n int) *ConfigBuilder {
	b.cfg.PGN.FENCacheSize = n
	return b
}

// WithClassification toggles the position classification table.
func (b *ConfigBuilder) WithClassification(enabled bool) *ConfigBuilder {
	b.cfg.ECO.BuildClassification = enabled
	return b
}

// WithLookup toggles the ECO code lookup table.
func (b *ConfigBuilder) WithLookup(enabled bool) *ConfigBuilder {
	b.cfg.ECO.BuildLookup = enabled
	return b
}

// WithDuplicateSuppression enables duplicate suppression.
func (b *ConfigBuilder) WithDuplicateSuppression(enabled, exact bool) *ConfigBuilder {
	b.cfg.Duplicate.Suppress = enabled
	b.cfg.Duplicate.ExactMatch = exact
	return b
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// WithMoveFENs adds per-move FENs to JSON output.
func (b *ConfigBuilder) WithMoveFENs(enabled bool) *ConfigBuilder {
	b.cfg.Output.MoveFENs = enabled
	return b
}

// WithQuiet suppresses progress output.
func (b *ConfigBuilder) WithQuiet(quiet bool) *ConfigBuilder {
	b.cfg.Output.Quiet = quiet
	return b
}

// WithOutput sets the output writer.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.Output.OutputFile = w
	return b
}
