// Package parser provides the chunked PGN database reader.
package parser

// TokenType is the kind of a PGN token.
type TokenType int

const (
	EOFToken TokenType = iota
	TagToken
	StringToken
	CommentToken
	NAGToken
	CheckSymbol
	MoveNumber
	RAVStart
	RAVEnd
	MoveToken
	TerminatingResult
)

var tokenTypeNames = [...]string{
	EOFToken:          "eof",
	TagToken:          "tag",
	StringToken:       "string",
	CommentToken:      "comment",
	NAGToken:          "nag",
	CheckSymbol:       "check",
	MoveNumber:        "move-number",
	RAVStart:          "rav-start",
	RAVEnd:            "rav-end",
	MoveToken:         "move",
	TerminatingResult: "result",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Token is one lexical unit of PGN text.
type Token struct {
	Type TokenType

	// Text is the tag name, string value, comment, NAG ("$n"), SAN or result.
	Text string

	// MoveNum is set on MoveNumber tokens.
	MoveNum uint

	// Line where the token starts, 1-based.
	Line int
}

// IsMovetext reports whether the token can only appear after the tag section.
func (t Token) IsMovetext() bool {
	switch t.Type {
	case MoveToken, MoveNumber, NAGToken, CheckSymbol, RAVStart, RAVEnd, TerminatingResult:
		return true
	}
	return false
}
