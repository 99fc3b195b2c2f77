// Package errors defines the error taxonomy of the chessdb readers. Callers
// test for a kind of failure with errors.Is against the sentinels below and
// recover where it happened with errors.As on GameError or ParseError.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Identity and notation failures.
var (
	ErrInvalidSquare         = errors.New("invalid square")
	ErrInvalidPiece          = errors.New("invalid piece")
	ErrInvalidFEN            = errors.New("invalid FEN string")
	ErrInvalidUCI            = errors.New("invalid UCI move")
	ErrIllegalMove           = errors.New("illegal move")
	ErrAmbiguousOrIllegalSAN = errors.New("ambiguous or illegal SAN")
)

// Input failures.
var (
	// ErrParseFailure is a token the PGN grammar does not allow where it appears.
	ErrParseFailure = errors.New("parse failure")

	// ErrUnexpectedEOF is input ending inside a game or ECO entry.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrMalformedECO is an ECO source entry that cannot be read.
	ErrMalformedECO = errors.New("malformed ECO entry")

	ErrFileNotFound = errors.New("file not found")
)

// Configuration and storage failures.
var (
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound is a key missing from a store.
	ErrNotFound = errors.New("not found")
)

// location renders file:line, or whichever half is known.
func location(file string, line int) string {
	switch {
	case file != "" && line > 0:
		return fmt.Sprintf("%s:%d", file, line)
	case file != "":
		return file
	case line > 0:
		return fmt.Sprintf("line %d", line)
	}
	return ""
}

// GameError records where replaying a PGN game stopped.
type GameError struct {
	Err  error
	File string
	Line int    // line of the offending token
	Game int    // 1-based game number in the file
	Ply  int    // 1-based ply that could not be played, 0 if none
	SAN  string // move text at Ply
}

func (e *GameError) Error() string {
	var sb strings.Builder
	if loc := location(e.File, e.Line); loc != "" {
		sb.WriteString(loc)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "game %d", e.Game)
	if e.Ply > 0 {
		fmt.Fprintf(&sb, " ply %d", e.Ply)
	}
	if e.SAN != "" {
		fmt.Fprintf(&sb, " (%s)", e.SAN)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *GameError) Unwrap() error { return e.Err }

// ParseError records an input entry that was skipped, such as a malformed
// ECO line.
type ParseError struct {
	Err   error
	File  string
	Line  int
	Entry string // ECO code or other key of the entry, if read
	Token string // the token that could not be used, if known
}

func (e *ParseError) Error() string {
	parts := make([]string, 0, 4)
	if loc := location(e.File, e.Line); loc != "" {
		parts = append(parts, loc)
	}
	if e.Entry != "" {
		parts = append(parts, e.Entry)
	}
	if e.Token != "" {
		parts = append(parts, fmt.Sprintf("near %q", e.Token))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return "parse error"
	}
	return strings.Join(parts, ": ")
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsInputError reports whether err comes from malformed or missing input
// rather than from configuration or storage.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidSquare, ErrInvalidPiece, ErrInvalidFEN, ErrInvalidUCI,
		ErrIllegalMove, ErrAmbiguousOrIllegalSAN, ErrParseFailure,
		ErrUnexpectedEOF, ErrMalformedECO, ErrFileNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
