package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidSquare, ErrInvalidPiece, ErrInvalidFEN, ErrInvalidUCI,
		ErrIllegalMove, ErrAmbiguousOrIllegalSAN, ErrParseFailure,
		ErrUnexpectedEOF, ErrMalformedECO, ErrFileNotFound,
		ErrInvalidConfig, ErrNotFound,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("errors.Is(%v, %v) = true; want false", a, b)
			}
		}
	}
}

func TestGameError(t *testing.T) {
	tests := []struct {
		name string
		err  *GameError
		want string
	}{
		{
			name: "full context",
			err:  &GameError{Err: ErrIllegalMove, File: "wch.pgn", Line: 42, Game: 5, Ply: 12, SAN: "Nxe5"},
			want: `wch.pgn:42: game 5 ply 12 (Nxe5): illegal move`,
		},
		{
			name: "no location",
			err:  &GameError{Err: ErrUnexpectedEOF, Game: 1, Ply: 3},
			want: "game 1 ply 3: unexpected end of input",
		},
		{
			name: "line only",
			err:  &GameError{Err: ErrAmbiguousOrIllegalSAN, Line: 7, Game: 2, SAN: "Nd2"},
			want: "line 7: game 2 (Nd2): ambiguous or illegal SAN",
		},
		{
			name: "no cause",
			err:  &GameError{File: "a.pgn", Game: 3},
			want: "a.pgn: game 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestGameError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("Ke3: %w", ErrIllegalMove)
	var err error = fmt.Errorf("reading: %w", &GameError{Err: inner, Game: 3, Ply: 24, SAN: "O-O-O"})

	if !errors.Is(err, ErrIllegalMove) {
		t.Error("errors.Is(err, ErrIllegalMove) = false; want true")
	}
	var gerr *GameError
	if !errors.As(err, &gerr) {
		t.Fatal("errors.As(err, *GameError) = false")
	}
	if diff := cmp.Diff(GameError{Err: inner, Game: 3, Ply: 24, SAN: "O-O-O"}, *gerr, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Errorf("GameError mismatch (-want +got):\n%s", diff)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			name: "ECO entry",
			err:  &ParseError{Err: ErrMalformedECO, File: "eco.pgn", Line: 18, Entry: "C99", Token: "Zz9"},
			want: `eco.pgn:18: C99: near "Zz9": malformed ECO entry`,
		},
		{
			name: "cause only",
			err:  &ParseError{Err: ErrUnexpectedEOF},
			want: "unexpected end of input",
		},
		{
			name: "empty",
			err:  &ParseError{},
			want: "parse error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}

	err := &ParseError{Err: fmt.Errorf("e9: %w", ErrInvalidSquare), File: "x.eco"}
	if !errors.Is(err, ErrInvalidSquare) {
		t.Error("errors.Is(ParseError, ErrInvalidSquare) = false; want true")
	}
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("disk on fire"), false},
		{ErrInvalidConfig, false},
		{fmt.Errorf("get C00: %w", ErrNotFound), false},
		{ErrFileNotFound, true},
		{&GameError{Err: ErrIllegalMove}, true},
		{&ParseError{Err: ErrMalformedECO}, true},
		{fmt.Errorf("ParseFEN: %w", ErrInvalidFEN), true},
	}
	for _, tt := range tests {
		if got := IsInputError(tt.err); got != tt.want {
			t.Errorf("IsInputError(%v) = %v; want %v", tt.err, got, tt.want)
		}
	}
}
