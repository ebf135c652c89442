package domain

import (
	"slices"
	"strings"
)

type keyToken struct {
	text    string
	digits  string
	numeric bool
}

// SortKey is the natural ordering key of a path: alternating text and numeric
// tokens, always starting and ending with a (possibly empty) text token.
type SortKey struct {
	tokens []keyToken
}

// NaturalSortKey splits s into text and digit runs so that "frame_2.jpg"
// orders before "frame_10.jpg".
func NaturalSortKey(s string) SortKey {
	tokens := make([]keyToken, 0, 4)
	start := 0
	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			i++
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		tokens = append(tokens,
			keyToken{text: s[start:i]},
			keyToken{digits: trimZeros(s[i:j]), numeric: true},
		)
		start, i = j, j
	}
	tokens = append(tokens, keyToken{text: s[start:]})
	return SortKey{tokens: tokens}
}

// Compare returns -1, 0 or +1. A key that is a strict prefix of the other
// sorts first.
func (k SortKey) Compare(other SortKey) int {
	n := min(len(k.tokens), len(other.tokens))
	for i := range n {
		if c := compareToken(k.tokens[i], other.tokens[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k.tokens) < len(other.tokens):
		return -1
	case len(k.tokens) > len(other.tokens):
		return 1
	}
	return 0
}

func (k SortKey) Less(other SortKey) bool {
	return k.Compare(other) < 0
}

func compareToken(a, b keyToken) int {
	switch {
	case a.numeric && b.numeric:
		// digit strings carry no leading zeros, so length decides first
		if len(a.digits) != len(b.digits) {
			if len(a.digits) < len(b.digits) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.digits, b.digits)
	case !a.numeric && !b.numeric:
		return strings.Compare(a.text, b.text)
	case a.numeric:
		return -1
	default:
		return 1
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func trimZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// FramePath identifies a single still image.
type FramePath = string

// FrameIndex is the naturally ordered, read-only list of frames a run works on.
type FrameIndex struct {
	frames []FramePath
}

// NewFrameIndex sorts paths ascending by NaturalSortKey. Equal keys keep their
// input order. The input slice is not modified.
func NewFrameIndex(paths []string) FrameIndex {
	type keyed struct {
		path FramePath
		key  SortKey
	}
	items := make([]keyed, len(paths))
	for i, p := range paths {
		items[i] = keyed{path: p, key: NaturalSortKey(p)}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		return a.key.Compare(b.key)
	})

	frames := make([]FramePath, len(items))
	for i, it := range items {
		frames[i] = it.path
	}
	return FrameIndex{frames: frames}
}

func (fi FrameIndex) Len() int {
	return len(fi.frames)
}

func (fi FrameIndex) At(i int) FramePath {
	return fi.frames[i]
}

// Paths returns a copy of the ordered frame list.
func (fi FrameIndex) Paths() []FramePath {
	return slices.Clone(fi.frames)
}
