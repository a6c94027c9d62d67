package patterns

import (
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// DefaultMatchTimeout bounds a single regular expression evaluation.
const DefaultMatchTimeout = 250 * time.Millisecond

// Side is the window side a pattern is anchored to.
type Side int

const (
	// Left patterns are anchored at the end of the left window, the text
	// immediately preceding the cursor.
	Left Side = iota
	// Right patterns are anchored at the start of the right window, the text
	// immediately following the cursor.
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Group is the concern a pattern belongs to.
type Group string

const (
	GroupTag       Group = "tag"
	GroupAttribute Group = "attribute"
	GroupVariable  Group = "variable"
)

// Groups lists every group in evaluation order.
func Groups() []Group {
	return []Group{GroupVariable, GroupAttribute, GroupTag}
}

// Pattern is a named, compiled regular expression anchored to one side of a
// cursor window.
type Pattern struct {
	Name            string
	Group           Group
	Side            Side
	CaseInsensitive bool
	Source          string

	re *regexp2.Regexp
}

// Span is a byte range within the text a pattern was matched against.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func compile(name string, group Group, side Side, insensitive bool, source string, timeout time.Duration) (*Pattern, error) {
	opts := regexp2.None
	if insensitive {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", name, err)
	}
	re.MatchTimeout = timeout

	return &Pattern{
		Name:            name,
		Group:           group,
		Side:            side,
		CaseInsensitive: insensitive,
		Source:          source,
		re:              re,
	}, nil
}

// Match runs the pattern against text and returns the byte span of the first
// match. A timeout is reported as an error; no match is not an error.
func (p *Pattern) Match(text string) (Span, bool, error) {
	m, err := p.re.FindStringMatch(text)
	if err != nil {
		return Span{}, false, errors.Errorf("matching pattern %q: %w", p.Name, err)
	}
	if m == nil {
		return Span{}, false, nil
	}

	// regexp2 reports rune offsets
	start, end := runeSpanToBytes(text, m.Index, m.Index+m.Length)
	return Span{Start: start, End: end}, true, nil
}

// MatchString reports whether the pattern matches anywhere in text.
func (p *Pattern) MatchString(text string) (bool, error) {
	ok, err := p.re.MatchString(text)
	if err != nil {
		return false, errors.Errorf("matching pattern %q: %w", p.Name, err)
	}
	return ok, nil
}

func runeSpanToBytes(text string, runeStart, runeEnd int) (int, int) {
	start, end := -1, -1
	n := 0
	for i := range text {
		if n == runeStart {
			start = i
		}
		if n == runeEnd {
			end = i
			break
		}
		n++
	}
	if start == -1 {
		start = len(text)
	}
	if end == -1 {
		end = len(text)
	}
	return start, end
}

// MustCompile compiles a standalone pattern outside the catalog, for rule tables
// that are built from the same regular expression engine. It panics on a
// malformed source.
func MustCompile(name, source string, insensitive bool) *Pattern {
	p, err := compile(name, "", Left, insensitive, source, DefaultMatchTimeout)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchAll returns the byte spans of every non-overlapping match in text.
func (p *Pattern) MatchAll(text string) ([]Span, error) {
	m, err := p.re.FindStringMatch(text)
	if err != nil {
		return nil, errors.Errorf("matching pattern %q: %w", p.Name, err)
	}

	var byteAt []int
	var spans []Span
	for m != nil {
		if byteAt == nil {
			byteAt = runeByteOffsets(text)
		}
		spans = append(spans, Span{Start: byteAt[m.Index], End: byteAt[m.Index+m.Length]})

		m, err = p.re.FindNextMatch(m)
		if err != nil {
			return nil, errors.Errorf("matching pattern %q: %w", p.Name, err)
		}
	}
	return spans, nil
}

// runeByteOffsets maps each rune index, plus one past the end, to its byte offset.
func runeByteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
