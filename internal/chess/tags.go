package chess

import (
	"iter"
	"slices"
	"strings"
)

// Tag names with special handling.
const (
	EventTag    = "Event"
	SiteTag     = "Site"
	DateTag     = "Date"
	RoundTag    = "Round"
	WhiteTag    = "White"
	BlackTag    = "Black"
	ResultTag   = "Result"
	FENTag      = "FEN"
	SetUpTag    = "SetUp"
	ECOTag      = "ECO"
	OpeningTag  = "Opening"
	PlyCountTag = "PlyCount"
)

// SevenTagRoster contains the seven required PGN tags in order.
var SevenTagRoster = []string{
	EventTag,
	SiteTag,
	DateTag,
	RoundTag,
	WhiteTag,
	BlackTag,
	ResultTag,
}

// IsSevenTagRosterTag returns true if the tag is one of the seven required tags.
func IsSevenTagRosterTag(tag string) bool {
	return slices.Contains(SevenTagRoster, tag)
}

// Headers is an ordered set of PGN tag pairs. The seven roster tags always
// come first and default to "?". Other tags follow in first-assigned order.
// Assigning a non-standard FEN also sets SetUp to "1"; assigning the
// standard start FEN removes both.
type Headers struct {
	values map[string]string
	extra  []string
}

// NewHeaders returns a bag holding only the roster defaults.
func NewHeaders() *Headers {
	h := &Headers{values: make(map[string]string, len(SevenTagRoster)+4)}
	for _, tag := range SevenTagRoster {
		h.values[tag] = "?"
	}
	return h
}

// Get returns the tag value, or "" when absent.
func (h *Headers) Get(key string) string {
	return h.values[key]
}

// Contains reports whether key holds a non-empty value.
func (h *Headers) Contains(key string) bool {
	return h.values[key] != ""
}

// Set assigns a tag. An empty value removes it.
func (h *Headers) Set(key, value string) {
	if key == FENTag {
		h.setFEN(value)
		return
	}
	h.set(key, value)
}

func (h *Headers) set(key, value string) {
	if value == "" {
		h.Delete(key)
		return
	}
	if _, seen := h.values[key]; !seen && !IsSevenTagRosterTag(key) {
		h.extra = append(h.extra, key)
	}
	h.values[key] = value
}

func (h *Headers) setFEN(fen string) {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == StartFEN {
		h.Delete(FENTag)
		h.Delete(SetUpTag)
		return
	}
	h.set(FENTag, fen)
	h.set(SetUpTag, "1")
}

// Delete removes a tag. Roster tags are reset to "" and report absent.
func (h *Headers) Delete(key string) {
	if IsSevenTagRosterTag(key) {
		h.values[key] = ""
		return
	}
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	h.extra = slices.DeleteFunc(h.extra, func(k string) bool { return k == key })
}

// Keys returns the tags present, roster tags first.
func (h *Headers) Keys() []string {
	keys := make([]string, 0, len(h.values))
	for k := range h.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates the present tags in header order.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, tag := range SevenTagRoster {
			if v := h.values[tag]; v != "" && !yield(tag, v) {
				return
			}
		}
		for _, tag := range h.extra {
			if !yield(tag, h.values[tag]) {
				return
			}
		}
	}
}

// Len returns the number of present tags.
func (h *Headers) Len() int {
	return len(h.Keys())
}

// Map returns a copy of the present tags.
func (h *Headers) Map() map[string]string {
	m := make(map[string]string, len(h.values))
	for k, v := range h.All() {
		m[k] = v
	}
	return m
}

// Copy returns an independent bag with the same tags.
func (h *Headers) Copy() *Headers {
	c := &Headers{
		values: make(map[string]string, len(h.values)),
		extra:  slices.Clone(h.extra),
	}
	for k, v := range h.values {
		c.values[k] = v
	}
	return c
}
