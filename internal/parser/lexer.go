package parser

import (
	"bytes"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// charClass groups bytes by how they start a token.
type charClass uint8

const (
	classJunk charClass = iota
	classSpace
	classTagOpen
	classTagClose
	classQuote
	classBraceOpen
	classBraceClose
	classSemicolon
	classDollar
	classAnnotation
	classCheck
	classDot
	classParenOpen
	classParenClose
	classPercent
	classBackslash
	classLetter
	classDigit
	classStar
	classDash
)

var classes = func() (t [256]charClass) {
	for _, c := range []byte(" \t\r\n\f\v") {
		t[c] = classSpace
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = classLetter
		t[c-'a'+'A'] = classLetter
	}
	t['_'] = classLetter
	for c := '0'; c <= '9'; c++ {
		t[c] = classDigit
	}
	for c, class := range map[byte]charClass{
		'[': classTagOpen, ']': classTagClose, '"': classQuote,
		'{': classBraceOpen, '}': classBraceClose, ';': classSemicolon,
		'$': classDollar, '!': classAnnotation, '?': classAnnotation,
		'+': classCheck, '#': classCheck, '.': classDot,
		'(': classParenOpen, ')': classParenClose, '%': classPercent,
		'\\': classBackslash, '*': classStar, '-': classDash,
	} {
		t[c] = class
	}
	return t
}()

// sanChars are the bytes a SAN move may contain before its check suffix.
var sanChars = func() (t [256]bool) {
	for _, c := range []byte("abcdefgh12345678KQRNBx-=Oo0") {
		t[c] = true
	}
	return t
}()

// nagForAnnotation maps the traditional suffix annotations to NAGs.
var nagForAnnotation = map[string]string{
	"!": "$1", "?": "$2", "!!": "$3", "??": "$4", "!?": "$5", "?!": "$6",
}

// Lexer splits PGN text into tokens. Unknown characters and malformed
// moves are skipped with a debug log line.
type Lexer struct {
	src    []byte
	off    int
	line   int
	rav    int
	nested bool
	logger *zap.Logger
}

// NewLexer creates a lexer over src. nested allows '{' to open a comment
// inside a comment. A nil logger discards diagnostics.
func NewLexer(src []byte, nested bool, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lexer{src: src, line: 1, nested: nested, logger: logger}
	l.skipEscapedLine()
	return l
}

func (l *Lexer) peek() byte {
	if l.off < len(l.src) {
		return l.src[l.off]
	}
	return 0
}

func (l *Lexer) class() charClass {
	if l.off < len(l.src) {
		return classes[l.src[l.off]]
	}
	return classJunk
}

// bump consumes one byte, keeping the line count.
func (l *Lexer) bump() {
	if l.src[l.off] == '\n' {
		l.line++
		l.off++
		l.skipEscapedLine()
		return
	}
	l.off++
}

// skipWhile consumes bytes of class c.
func (l *Lexer) skipWhile(c charClass) {
	for l.off < len(l.src) && l.class() == c {
		l.bump()
	}
}

// skipEscapedLine drops a line starting with '%'; l.off is at a line start.
func (l *Lexer) skipEscapedLine() {
	for l.off < len(l.src) && l.src[l.off] == '%' {
		end := bytes.IndexByte(l.src[l.off:], '\n')
		if end < 0 {
			l.off = len(l.src)
			return
		}
		l.off += end + 1
		l.line++
	}
}

// restOfLine returns the text up to the next newline and moves past it,
// leaving the newline unread.
func (l *Lexer) restOfLine() string {
	start := l.off
	for l.off < len(l.src) && l.src[l.off] != '\n' {
		l.off++
	}
	return string(l.src[start:l.off])
}

func (l *Lexer) debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, append(fields, zap.Int("line", l.line))...)
}

// NextToken returns the next token, or an EOFToken at the end of input.
func (l *Lexer) NextToken() Token {
	for l.off < len(l.src) {
		line := l.line
		if tok, ok := l.scan(); ok {
			if tok.Line == 0 {
				tok.Line = line
			}
			return tok
		}
	}
	return Token{Type: EOFToken, Line: l.line}
}

// scan consumes one lexeme and reports whether it produced a token.
func (l *Lexer) scan() (Token, bool) {
	start := l.off
	c := l.class()
	l.bump()

	switch c {
	case classSpace, classTagClose, classDot:
		l.skipWhile(c)
	case classTagOpen:
		return l.tag()
	case classQuote:
		return l.quoted(), true
	case classBraceOpen:
		return l.comment(), true
	case classBraceClose:
		l.debug("unmatched '}'")
	case classSemicolon:
		return Token{Type: CommentToken, Text: strings.TrimSpace(l.restOfLine())}, true
	case classDollar:
		digits := l.off
		l.skipWhile(classDigit)
		return Token{Type: NAGToken, Text: "$" + string(l.src[digits:l.off])}, true
	case classAnnotation:
		l.skipWhile(classAnnotation)
		nag, ok := nagForAnnotation[string(l.src[start:l.off])]
		if !ok {
			nag = "$0"
		}
		return Token{Type: NAGToken, Text: nag}, true
	case classCheck:
		l.skipWhile(classCheck)
		return Token{Type: CheckSymbol}, true
	case classParenOpen:
		l.rav++
		return Token{Type: RAVStart}, true
	case classParenClose:
		if l.rav == 0 {
			l.debug("unmatched ')'")
			return Token{}, false
		}
		l.rav--
		return Token{Type: RAVEnd}, true
	case classPercent:
		l.restOfLine()
	case classBackslash:
		if l.off < len(l.src) {
			l.bump()
		}
	case classLetter:
		return l.move(start)
	case classDigit:
		return l.number(start), true
	case classStar:
		return Token{Type: TerminatingResult, Text: "*"}, true
	case classDash:
		if l.peek() == '-' {
			l.bump()
			return Token{Type: MoveToken, Text: "--"}, true
		}
		l.debug("lone '-'")
	default:
		l.debug("unknown character", zap.String("char", string(l.src[start])))
		l.skipWhile(classJunk)
	}
	return Token{}, false
}

// tag reads the tag name after '['.
func (l *Lexer) tag() (Token, bool) {
	for l.off < len(l.src) && l.class() == classSpace && l.peek() != '\n' {
		l.bump()
	}
	start := l.off
	for c := l.class(); l.off < len(l.src) && (c == classLetter || c == classDigit); c = l.class() {
		l.bump()
	}
	if l.off == start {
		return Token{}, false
	}
	return Token{Type: TagToken, Text: string(l.src[start:l.off])}, true
}

// quoted reads a string value after '"'. An unterminated string ends at
// the end of its line.
func (l *Lexer) quoted() Token {
	var sb strings.Builder
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch c {
		case '\n':
			l.debug("missing closing quote")
			return Token{Type: StringToken, Text: strings.TrimRight(sb.String(), "\r")}
		case '"':
			l.off++
			return Token{Type: StringToken, Text: sb.String()}
		case '\\':
			l.off++
			if l.off < len(l.src) && l.src[l.off] != '\n' {
				c = l.src[l.off]
			} else {
				continue
			}
		}
		sb.WriteByte(c)
		l.off++
	}
	l.debug("missing closing quote")
	return Token{Type: StringToken, Text: strings.TrimRight(sb.String(), "\r")}
}

// comment reads a brace comment, which may span lines. Its Line is where
// it opens.
func (l *Lexer) comment() Token {
	opened := l.line
	start := l.off
	depth := 1
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case '{':
			if l.nested {
				depth++
			}
		case '}':
			depth--
			if depth == 0 {
				text := string(l.src[start:l.off])
				l.off++
				return Token{Type: CommentToken, Text: strings.TrimSpace(text), Line: opened}
			}
		}
		l.bump()
	}
	l.debug("missing end of comment", zap.Int("opened", opened))
	return Token{Type: CommentToken, Text: strings.TrimSpace(string(l.src[start:])), Line: opened}
}

// move reads a SAN move starting at start. Lowercase castling is
// normalised; text that cannot be a move is dropped.
func (l *Lexer) move(start int) (Token, bool) {
	if !sanChars[l.src[start]] {
		l.debug("unknown character", zap.String("char", string(l.src[start])))
		l.skipWhile(classLetter)
		return Token{}, false
	}
	for l.off < len(l.src) && sanChars[l.peek()] {
		l.off++
	}
	text := string(l.src[start:l.off])
	switch text {
	case "o-o", "O-O":
		return Token{Type: MoveToken, Text: "O-O"}, true
	case "o-o-o", "O-O-O":
		return Token{Type: MoveToken, Text: "O-O-O"}, true
	}
	if !looksLikeSAN(text) {
		l.debug("unknown move text", zap.String("move", text))
		return Token{}, false
	}
	return Token{Type: MoveToken, Text: text}, true
}

// looksLikeSAN requires at least one file letter and one rank digit.
func looksLikeSAN(text string) bool {
	return len(text) >= 2 &&
		strings.ContainsAny(text, "abcdefgh") &&
		strings.ContainsAny(text, "12345678")
}

// resultsAndCastles are the lexemes that start with a digit but are not
// move numbers, longest first.
var resultsAndCastles = []Token{
	{Type: TerminatingResult, Text: "1/2-1/2"},
	{Type: TerminatingResult, Text: "1/2"},
	{Type: MoveToken, Text: "0-0-0"},
	{Type: TerminatingResult, Text: "1-0"},
	{Type: TerminatingResult, Text: "0-1"},
	{Type: MoveToken, Text: "0-0"},
}

// number reads a result, digit castling, or a move number with its dots.
func (l *Lexer) number(start int) Token {
	rest := string(l.src[start:min(start+7, len(l.src))])
	for _, tok := range resultsAndCastles {
		if strings.HasPrefix(rest, tok.Text) {
			l.off = start + len(tok.Text)
			switch tok.Text {
			case "1/2":
				tok.Text = "1/2-1/2"
			case "0-0":
				tok.Text = "O-O"
			case "0-0-0":
				tok.Text = "O-O-O"
			}
			return tok
		}
	}
	l.skipWhile(classDigit)
	n, _ := strconv.ParseUint(string(l.src[start:l.off]), 10, 32)
	l.skipWhile(classDot)
	return Token{Type: MoveNumber, MoveNum: uint(n)}
}

// Line returns the current line number.
func (l *Lexer) Line() int {
	return l.line
}

// RAVLevel returns how many variations are open.
func (l *Lexer) RAVLevel() int {
	return l.rav
}

// Tokens drains the lexer.
func (l *Lexer) Tokens() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOFToken {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
