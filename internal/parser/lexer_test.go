package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lex(input string, nested bool) []Token {
	return NewLexer([]byte(input), nested, nil).Tokens()
}

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "tag pair",
			input: `[White "Deep Blue (Computer)"]`,
			want: []Token{
				{Type: TagToken, Text: "White", Line: 1},
				{Type: StringToken, Text: "Deep Blue (Computer)", Line: 1},
			},
		},
		{
			name:  "escaped quote",
			input: `[Event "The \"Match\""]`,
			want: []Token{
				{Type: TagToken, Text: "Event", Line: 1},
				{Type: StringToken, Text: `The "Match"`, Line: 1},
			},
		},
		{
			name:  "moves and numbers",
			input: "12. Nf3 12... exd5",
			want: []Token{
				{Type: MoveNumber, MoveNum: 12, Line: 1},
				{Type: MoveToken, Text: "Nf3", Line: 1},
				{Type: MoveNumber, MoveNum: 12, Line: 1},
				{Type: MoveToken, Text: "exd5", Line: 1},
			},
		},
		{
			name:  "castling spellings",
			input: "O-O 0-0-0 o-o",
			want: []Token{
				{Type: MoveToken, Text: "O-O", Line: 1},
				{Type: MoveToken, Text: "O-O-O", Line: 1},
				{Type: MoveToken, Text: "O-O", Line: 1},
			},
		},
		{
			name:  "results",
			input: "1-0 0-1 1/2-1/2 *",
			want: []Token{
				{Type: TerminatingResult, Text: "1-0", Line: 1},
				{Type: TerminatingResult, Text: "0-1", Line: 1},
				{Type: TerminatingResult, Text: "1/2-1/2", Line: 1},
				{Type: TerminatingResult, Text: "*", Line: 1},
			},
		},
		{
			name:  "annotations",
			input: "e8=Q+ $3 Rxe8!?",
			want: []Token{
				{Type: MoveToken, Text: "e8=Q", Line: 1},
				{Type: CheckSymbol, Line: 1},
				{Type: NAGToken, Text: "$3", Line: 1},
				{Type: MoveToken, Text: "Rxe8", Line: 1},
				{Type: NAGToken, Text: "$5", Line: 1},
			},
		},
		{
			name:  "comments",
			input: "{multi\nline} e4 ; rest of line\n% escaped\nd4",
			want: []Token{
				{Type: CommentToken, Text: "multi\nline", Line: 1},
				{Type: MoveToken, Text: "e4", Line: 2},
				{Type: CommentToken, Text: "rest of line", Line: 2},
				{Type: MoveToken, Text: "d4", Line: 4},
			},
		},
		{
			name:  "variations",
			input: "(1... c5)",
			want: []Token{
				{Type: RAVStart, Line: 1},
				{Type: MoveNumber, MoveNum: 1, Line: 1},
				{Type: MoveToken, Text: "c5", Line: 1},
				{Type: RAVEnd, Line: 1},
			},
		},
		{
			name:  "null move",
			input: "--",
			want:  []Token{{Type: MoveToken, Text: "--", Line: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, lex(tt.input, false)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_NestedComments(t *testing.T) {
	input := "{a {b} c} e4"

	nested := lex(input, true)
	if len(nested) != 2 || nested[0].Text != "a {b} c" {
		t.Errorf("nested tokens = %+v", nested)
	}

	flat := lex(input, false)
	if len(flat) < 2 || flat[0].Text != "a {b" {
		t.Errorf("flat tokens = %+v", flat)
	}
}

func TestLexer_UnterminatedComment(t *testing.T) {
	toks := lex("e4 {never closed", false)
	if len(toks) != 2 || toks[1].Type != CommentToken || toks[1].Text != "never closed" {
		t.Errorf("tokens = %+v", toks)
	}
}

func TestSplitGames(t *testing.T) {
	input := `[Event "A"]
1. e4 (1. d4 1-0) e5 1-0
{between}
[Event "B"]
1. d4
[Event "C"]
*
{after}
`
	chunks := splitGames("x.pgn", lex(input, false))
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d; want 3", len(chunks))
	}
	wantLines := [][2]int{{1, 2}, {3, 5}, {6, 7}}
	for i, c := range chunks {
		if got := [2]int{c.startLine, c.endLine}; got != wantLines[i] {
			t.Errorf("chunk %d lines = %v; want %v", i, got, wantLines[i])
		}
	}
}

func TestTokenTypeString(t *testing.T) {
	tests := map[TokenType]string{
		MoveToken:         "move",
		TerminatingResult: "result",
		MoveNumber:        "move-number",
		TokenType(-1):     "unknown",
		TokenType(999):    "unknown",
	}
	for tt, want := range tests {
		if got := tt.String(); got != want {
			t.Errorf("TokenType(%d).String() = %q; want %q", int(tt), got, want)
		}
	}
}

func TestLexer_EdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "escaped first line",
			input: "% generated\n[Round \"1\"]",
			want: []Token{
				{Type: TagToken, Text: "Round", Line: 2},
				{Type: StringToken, Text: "1", Line: 2},
			},
		},
		{
			name:  "unterminated string stops at end of line",
			input: "[Site \"Philadelphia\r\n1. e4",
			want: []Token{
				{Type: TagToken, Text: "Site", Line: 1},
				{Type: StringToken, Text: "Philadelphia", Line: 1},
				{Type: MoveNumber, MoveNum: 1, Line: 2},
				{Type: MoveToken, Text: "e4", Line: 2},
			},
		},
		{
			name:  "junk skipped",
			input: "1. e4 @@ Zq e5 - ) d4",
			want: []Token{
				{Type: MoveNumber, MoveNum: 1, Line: 1},
				{Type: MoveToken, Text: "e4", Line: 1},
				{Type: MoveToken, Text: "e5", Line: 1},
				{Type: MoveToken, Text: "d4", Line: 1},
			},
		},
		{
			name:  "short draw and double check",
			input: "Qh5++ 1/2",
			want: []Token{
				{Type: MoveToken, Text: "Qh5", Line: 1},
				{Type: CheckSymbol, Line: 1},
				{Type: TerminatingResult, Text: "1/2-1/2", Line: 1},
			},
		},
		{
			name:  "line numbers after a multi-line comment",
			input: "{one\ntwo\nthree} Nf3",
			want: []Token{
				{Type: CommentToken, Text: "one\ntwo\nthree", Line: 1},
				{Type: MoveToken, Text: "Nf3", Line: 3},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, lex(tt.input, false)); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexer_RAVLevel(t *testing.T) {
	l := NewLexer([]byte("e4 (e5 (c5"), false, nil)
	l.Tokens()
	if got := l.RAVLevel(); got != 2 {
		t.Errorf("RAVLevel() = %d; want 2", got)
	}
	if got := l.Line(); got != 1 {
		t.Errorf("Line() = %d; want 1", got)
	}
}
