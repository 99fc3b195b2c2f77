package config

import "io"

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// JSONFormat enables JSON output instead of text
	JSONFormat bool

	// Quiet suppresses per-item progress lines
	Quiet bool

	// MoveFENs adds the position after each move to JSON output
	MoveFENs bool

	// MaxLineLength wraps PGN movetext
	MaxLineLength int

	// OutputFile receives command output
	OutputFile io.Writer
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		MaxLineLength: 80,
		OutputFile:    defaultOutput,
	}
}
