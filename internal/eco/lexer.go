package eco

import (
	"regexp"
	"strings"
)

// tokenKind classifies ECO source tokens.
type tokenKind int

const (
	tokCode tokenKind = iota
	tokString
	tokMove
	tokResult
)

func (k tokenKind) String() string {
	switch k {
	case tokCode:
		return "code"
	case tokString:
		return "string"
	case tokMove:
		return "move"
	case tokResult:
		return "result"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	text string
	line int
}

var (
	codePattern       = regexp.MustCompile(`^[A-E][0-9][0-9][a-z]?[0-9]*$`)
	moveNumberPattern = regexp.MustCompile(`^[0-9]+\.+`)
)

func isResult(s string) bool {
	switch s {
	case "*", "1-0", "0-1", "1/2-1/2":
		return true
	}
	return false
}

// lexer splits ECO source text into tokens. Lines whose first non-blank
// character is '#' and text in braces are comments; move numbers are dropped.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

// atLineStart reports whether only blanks precede pos on its line.
func (l *lexer) atLineStart() bool {
	for i := l.pos - 1; i >= 0; i-- {
		switch l.src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

// tokens returns every token of the source. unterminated reports strings or
// comments cut off by the end of input.
func (l *lexer) tokens() (toks []token, unterminated int) {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '#' && l.atLineStart():
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case c == '{':
			for l.pos < len(l.src) && l.peek() != '}' {
				l.advance()
			}
			if l.pos >= len(l.src) {
				unterminated++
				continue
			}
			l.advance()
		case c == '"':
			line := l.line
			l.advance()
			var sb strings.Builder
			closed := false
			for l.pos < len(l.src) {
				ch := l.advance()
				if ch == '\\' && l.pos < len(l.src) {
					sb.WriteByte(l.advance())
					continue
				}
				if ch == '"' {
					closed = true
					break
				}
				sb.WriteByte(ch)
			}
			if !closed {
				unterminated++
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), line: line})
		default:
			line := l.line
			start := l.pos
			for l.pos < len(l.src) && !strings.ContainsRune(" \t\r\n{\"", rune(l.peek())) {
				l.advance()
			}
			if tok, ok := classify(l.src[start:l.pos], line); ok {
				toks = append(toks, tok)
			}
		}
	}
	return toks, unterminated
}

// classify turns a bare word into a token. Move numbers yield nothing.
func classify(word string, line int) (token, bool) {
	switch {
	case isResult(word):
		return token{kind: tokResult, text: word, line: line}, true
	case codePattern.MatchString(word):
		return token{kind: tokCode, text: word, line: line}, true
	}
	word = moveNumberPattern.ReplaceAllString(word, "")
	if word == "" {
		return token{}, false
	}
	return token{kind: tokMove, text: word, line: line}, true
}
