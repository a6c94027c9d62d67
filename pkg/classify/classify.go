// Package classify decides which lexical context a cursor sits in by running a
// dialect's probes, in priority order, against a bounded window.
package classify

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/pkg/dialect"
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/window"
)

type Kind = patterns.Kind

const (
	None                 = patterns.KindNone
	InsideTag            = patterns.KindInsideTag
	InsideDoTag          = patterns.KindInsideDoTag
	InsideAttributeValue = patterns.KindInsideAttributeValue
	ScopeGlobal          = patterns.KindScopeGlobal
	ScopeSystem          = patterns.KindScopeSystem
	ScopeLocal           = patterns.KindScopeLocal
	AfterBracketDot      = patterns.KindAfterBracketDot
	AfterEntityStart     = patterns.KindAfterEntityStart
)

// Result is the outcome of a classification. Length is the byte length of the
// left match, so the text a completion would replace is [Offset-Length, Offset).
type Result struct {
	Kind        Kind   `json:"kind"`
	Probe       string `json:"probe,omitempty"`
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	RightLength int    `json:"right_length"`
}

// Matched reports whether any probe fired.
func (r Result) Matched() bool {
	return r.Kind != None
}

// Classifier runs probes from a catalog.
type Classifier struct {
	catalog *patterns.Catalog
}

var defaultClassifier = New(patterns.Default())

// New creates a classifier over catalog.
func New(catalog *patterns.Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Classify runs the default classifier.
func Classify(w window.Window, d dialect.Dialect, groups ...patterns.Group) (Result, error) {
	return defaultClassifier.Classify(w, d, groups...)
}

// ClassifyAt extracts a DefaultSize window around offset and classifies it.
func ClassifyAt(document string, offset int, d dialect.Dialect, groups ...patterns.Group) (Result, error) {
	return defaultClassifier.Classify(window.Extract(document, offset, window.DefaultSize), d, groups...)
}

// Classify evaluates the probes of dialect d whose group is active, top to bottom,
// and returns the first one that fires. With no groups every group is active.
// When nothing fires the result kind is None, which is not an error.
func (c *Classifier) Classify(w window.Window, d dialect.Dialect, groups ...patterns.Group) (Result, error) {
	if !d.Valid() {
		return Result{}, errors.Errorf("classifying: %w: %q", dialect.ErrUnknownDialect, d)
	}

	probes, err := c.catalog.Probes(d)
	if err != nil {
		return Result{}, errors.Errorf("classifying: %w", err)
	}

	active := activeGroups(groups)

	for _, probe := range probes {
		if !active[probe.Group] {
			continue
		}

		left, ok, err := c.match(d, probe.Left, w.Left)
		if err != nil {
			return Result{}, errors.Errorf("running probe %q: %w", probe.Name, err)
		}
		if !ok {
			continue
		}

		var right patterns.Span
		if probe.Right != "" {
			right, ok, err = c.match(d, probe.Right, w.Right)
			if err != nil {
				return Result{}, errors.Errorf("running probe %q: %w", probe.Name, err)
			}
			if !ok {
				continue
			}
		}

		return Result{
			Kind:        probe.Kind,
			Probe:       probe.Name,
			Offset:      w.Offset,
			Length:      left.Len(),
			RightLength: right.Len(),
		}, nil
	}

	return Result{Kind: None, Offset: w.Offset}, nil
}

func (c *Classifier) match(d dialect.Dialect, name, text string) (patterns.Span, bool, error) {
	p, err := c.catalog.Lookup(d, name)
	if err != nil {
		return patterns.Span{}, false, err
	}
	return p.Match(text)
}

func activeGroups(groups []patterns.Group) map[patterns.Group]bool {
	active := map[patterns.Group]bool{}
	if len(groups) == 0 {
		for _, g := range patterns.Groups() {
			active[g] = true
		}
		return active
	}
	for _, g := range groups {
		active[g] = true
	}
	return active
}
