// Package matching selects games by tag values and by positions reached.
package matching

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/chessdb/internal/chess"
	"github.com/lgbarn/chessdb/internal/errors"
)

// Comparison is how a tag value is tested against a criterion value.
type Comparison int

const (
	Equal Comparison = iota
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
	Contains // case-insensitive substring
	Matches  // regular expression
)

var comparisonSymbols = [...]string{"=", "!=", "<", "<=", ">", ">=", ":", "~"}

func (c Comparison) String() string {
	if c < 0 || int(c) >= len(comparisonSymbols) {
		return "Comparison(" + strconv.Itoa(int(c)) + ")"
	}
	return comparisonSymbols[c]
}

// symbols is ordered so two-character forms are tried first.
var symbols = []struct {
	text string
	cmp  Comparison
}{
	{"<=", LessOrEqual},
	{">=", GreaterOrEqual},
	{"<>", NotEqual},
	{"!=", NotEqual},
	{"<", Less},
	{">", Greater},
	{"=", Equal},
	{"~", Matches},
	{":", Contains},
}

type tagTest struct {
	tag string // "" tests both player tags
	// missing is the verdict when the game lacks the tag
	missing bool
	accept  func(value string) bool
}

func (tt tagTest) match(game *chess.Game) bool {
	if tt.tag == "" {
		return tt.accept(game.White()) || tt.accept(game.Black())
	}
	if !game.HasTag(tt.tag) {
		return tt.missing
	}
	return tt.accept(game.GetTag(tt.tag))
}

// TagMatcher accepts games whose tags pass every test added to it.
type TagMatcher struct {
	tests []tagTest
}

// NewTagMatcher returns a matcher that accepts every game.
func NewTagMatcher() *TagMatcher {
	return &TagMatcher{}
}

// Add tests tag against value. Equality ignores case. The ordering
// comparisons compare dates, then numbers, then case-folded text. A game
// without the tag passes only NotEqual.
func (tm *TagMatcher) Add(tag string, c Comparison, value string) error {
	accept, err := predicate(c, value)
	if err != nil {
		return fmt.Errorf("tag %s: %w: %w", tag, errors.ErrInvalidConfig, err)
	}
	tm.tests = append(tm.tests, tagTest{tag: tag, missing: c == NotEqual, accept: accept})
	return nil
}

// AddPlayer accepts games where either player's name contains name.
func (tm *TagMatcher) AddPlayer(name string) {
	accept, _ := predicate(Contains, name)
	tm.tests = append(tm.tests, tagTest{accept: accept})
}

// Parse adds a criterion written as `Tag op value`, such as
// `Date >= "1997.05"` or `White ~ ^Kasp`. Without an operator the value must
// be equal. Quotes around the value are optional.
func (tm *TagMatcher) Parse(criterion string) error {
	criterion = strings.TrimSpace(criterion)
	end := strings.IndexAny(criterion, " \t<>=!~:")
	if end <= 0 {
		return fmt.Errorf("criterion %q has no value: %w", criterion, errors.ErrInvalidConfig)
	}
	tag, rest := criterion[:end], strings.TrimSpace(criterion[end:])

	c := Equal
	for _, s := range symbols {
		if after, ok := strings.CutPrefix(rest, s.text); ok {
			c, rest = s.cmp, strings.TrimSpace(after)
			break
		}
	}
	if n := len(rest); n >= 2 && rest[0] == '"' && rest[n-1] == '"' {
		rest = rest[1 : n-1]
	}
	return tm.Add(tag, c, rest)
}

// Match reports whether game passes every test.
func (tm *TagMatcher) Match(game *chess.Game) bool {
	for _, tt := range tm.tests {
		if !tt.match(game) {
			return false
		}
	}
	return true
}

// Len returns the number of tests.
func (tm *TagMatcher) Len() int {
	return len(tm.tests)
}

func predicate(c Comparison, want string) (func(string) bool, error) {
	switch c {
	case Equal:
		return func(v string) bool { return strings.EqualFold(v, want) }, nil
	case NotEqual:
		return func(v string) bool { return !strings.EqualFold(v, want) }, nil
	case Contains:
		lower := strings.ToLower(want)
		return func(v string) bool { return strings.Contains(strings.ToLower(v), lower) }, nil
	case Matches:
		re, err := regexp.Compile(want)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	case Less, LessOrEqual, Greater, GreaterOrEqual:
		return func(v string) bool {
			order, ok := compareTagValues(v, want)
			return ok && satisfies(c, order)
		}, nil
	}
	return nil, fmt.Errorf("unknown comparison %v", c)
}

func satisfies(c Comparison, order int) bool {
	switch c {
	case Less:
		return order < 0
	case LessOrEqual:
		return order <= 0
	case Greater:
		return order > 0
	case GreaterOrEqual:
		return order >= 0
	}
	return false
}

// compareTagValues orders a against b as dates when both parse as dates, as
// numbers when a is numeric, else as case-folded text. ok is false when a is
// numeric and b is not.
func compareTagValues(a, b string) (order int, ok bool) {
	if x, y := parseDate(a), parseDate(b); x > 0 && y > 0 {
		return cmp.Compare(x, y), true
	}
	if x, err := strconv.ParseFloat(a, 64); err == nil {
		y, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return 0, false
		}
		return cmp.Compare(x, y), true
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b)), true
}

// parseDate encodes a YYYY.MM.DD date as YYYYMMDD, or returns 0. Unknown
// month or day parts count as 1.
func parseDate(s string) int {
	year, rest, _ := strings.Cut(s, ".")
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 100 || y > 3000 {
		return 0
	}
	month, day, _ := strings.Cut(rest, ".")
	return y*10000 + datePart(month, 12)*100 + datePart(day, 31)
}

func datePart(s string, max int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 && n <= max {
		return n
	}
	return 1
}
