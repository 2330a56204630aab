package stats

import (
	"cmp"
	"slices"
	"strings"

	"classpulse/internal/schema"
)

// UnrankedGrade sorts labels without a grade marker after every graded label.
const UnrankedGrade = 99

// NaturalOrder orders class labels by grade marker, then by embedded numbers.
type NaturalOrder struct {
	markers []schema.GradeMarker
}

// NewNaturalOrder builds an order over the given grade markers.
func NewNaturalOrder(markers []schema.GradeMarker) NaturalOrder {
	return NaturalOrder{markers: slices.Clone(markers)}
}

// Token is one run of a label: either text or ASCII digits.
type Token struct {
	Text   string
	Digits bool
}

// NaturalKey is the sort key of a label. Tokens always start and end with a text
// run (possibly empty), alternating with digit runs.
type NaturalKey struct {
	Grade  int
	Tokens []Token
	raw    string
}

// Key computes the sort key of s.
func (o NaturalOrder) Key(s string) NaturalKey {
	return NaturalKey{
		Grade:  o.grade(s),
		Tokens: tokenize(s),
		raw:    s,
	}
}

// Compare orders two labels. It is a strict total order: labels that are
// numerically equal ("01班" and "1班") fall back to plain string comparison.
func (o NaturalOrder) Compare(a, b string) int {
	return CompareKeys(o.Key(a), o.Key(b))
}

// Sort sorts names in place.
func (o NaturalOrder) Sort(names []string) {
	keys := make(map[string]NaturalKey, len(names))
	for _, n := range names {
		keys[n] = o.Key(n)
	}
	slices.SortFunc(names, func(a, b string) int {
		return CompareKeys(keys[a], keys[b])
	})
}

// grade returns the rank of the first marker, in list order, contained in s.
// List order is priority: with the default markers "十年级七班" ranks 7.
func (o NaturalOrder) grade(s string) int {
	for _, m := range o.markers {
		if strings.Contains(s, m.Marker) {
			return m.Rank
		}
	}
	return UnrankedGrade
}

func tokenize(s string) []Token {
	tokens := []Token{{}}
	start := 0
	inDigits := false
	for i := 0; i < len(s); i++ {
		d := s[i] >= '0' && s[i] <= '9'
		if d == inDigits {
			continue
		}
		tokens[len(tokens)-1].Text = s[start:i]
		tokens = append(tokens, Token{Digits: d})
		start = i
		inDigits = d
	}
	tokens[len(tokens)-1].Text = s[start:]
	if inDigits {
		tokens = append(tokens, Token{})
	}
	return tokens
}

// CompareKeys compares two keys: grade, then tokens element-wise (digit runs by
// value), then token count, then the raw label.
func CompareKeys(a, b NaturalKey) int {
	if c := cmp.Compare(a.Grade, b.Grade); c != 0 {
		return c
	}

	n := min(len(a.Tokens), len(b.Tokens))
	for i := 0; i < n; i++ {
		ta, tb := a.Tokens[i], b.Tokens[i]
		var c int
		switch {
		case ta.Digits && tb.Digits:
			c = compareDigits(ta.Text, tb.Text)
		default:
			// Mismatched kinds cannot happen with alternating tokens; plain text
			// comparison keeps the order total if it ever does.
			c = strings.Compare(ta.Text, tb.Text)
		}
		if c != 0 {
			return c
		}
	}

	if c := cmp.Compare(len(a.Tokens), len(b.Tokens)); c != 0 {
		return c
	}
	return strings.Compare(a.raw, b.raw)
}

// compareDigits compares two digit strings by numeric value without parsing, so
// arbitrarily long runs cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
