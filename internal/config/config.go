// Package config provides configuration for the chessdb readers and tools.
package config

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/lgbarn/chessdb/internal/errors"
	"github.com/lgbarn/chessdb/internal/stats"
)

// Config holds all program configuration.
type Config struct {
	// Logger receives diagnostics from the readers. Never nil after NewConfig.
	Logger *zap.Logger

	// Stats receives parser metrics. Never nil after NewConfig.
	Stats stats.Collector

	// Verbosity: 0=warnings only, 1=progress, 2=running commentary
	Verbosity int

	// Workers is the number of files parsed in parallel by the CLI.
	Workers int

	// Sub-configurations
	PGN       *PGNConfig
	ECO       *ECOConfig
	Duplicate *DuplicateConfig
	Output    *OutputConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Logger:    zap.NewNop(),
		Stats:     stats.Noop{},
		Verbosity: 1,
		Workers:   1,
		PGN:       NewPGNConfig(),
		ECO:       NewECOConfig(),
		Duplicate: NewDuplicateConfig(),
		Output:    NewOutputConfig(),
	}
}

// Normalize fills nil fields with defaults, so a zero Config is usable.
func (c *Config) Normalize() *Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Stats == nil {
		c.Stats = stats.Noop{}
	}
	if c.PGN == nil {
		c.PGN = NewPGNConfig()
	}
	if c.ECO == nil {
		c.ECO = NewECOConfig()
	}
	if c.Duplicate == nil {
		c.Duplicate = NewDuplicateConfig()
	}
	if c.Output == nil {
		c.Output = NewOutputConfig()
	}
	return c
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w", c.Workers, errors.ErrInvalidConfig)
	}
	if c.PGN != nil && c.PGN.FENCacheSize < 0 {
		return fmt.Errorf("FEN cache size must not be negative: %w", errors.ErrInvalidConfig)
	}
	if c.Duplicate != nil && c.Duplicate.MaxCapacity < 0 {
		return fmt.Errorf("duplicate capacity must not be negative: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.Output.OutputFile = w
}

// PGNConfig holds settings for reading PGN files.
type PGNConfig struct {
	// AllowNestedComments permits { inside { comments
	AllowNestedComments bool

	// AddPlyCountTag writes a PlyCount tag on every parsed game
	AddPlyCountTag bool

	// FENCacheSize bounds the cache of parsed SetUp positions, 0 disables it
	FENCacheSize int
}

// NewPGNConfig creates a PGNConfig with default values.
func NewPGNConfig() *PGNConfig {
	return &PGNConfig{FENCacheSize: 128}
}

// ECOConfig selects the tables built from an ECO source file.
type ECOConfig struct {
	// BuildClassification builds the position hash to opening table
	BuildClassification bool

	// BuildLookup builds the ECO code to name and FEN table
	BuildLookup bool
}

// NewECOConfig creates an ECOConfig with both tables enabled.
func NewECOConfig() *ECOConfig {
	return &ECOConfig{
		BuildClassification: true,
		BuildLookup:         true,
	}
}

// defaultOutput is the writer used by NewOutputConfig.
var defaultOutput io.Writer = os.Stdout
