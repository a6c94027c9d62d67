// Package insert implements the insert-file-name command: it finds the file
// reference attribute next to the cursor and inserts a literal file name into it.
package insert

import (
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/pkg/dialect"
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/window"
)

// Payload is the command argument sent by the host editor.
type Payload struct {
	FileName string `json:"fileName"`
}

// Edit is a single text insertion.
type Edit struct {
	Offset int           `json:"offset"`
	Text   string        `json:"text"`
	Side   patterns.Side `json:"side"`
}

// Apply returns document with the edit applied. The offset is clamped to the
// document.
func (e *Edit) Apply(document string) string {
	if e == nil {
		return document
	}
	offset := window.Clamp(document, e.Offset)
	return document[:offset] + e.Text + document[offset:]
}

type options struct {
	catalog *patterns.Catalog
	size    int
}

type Option func(*options)

// WithWindowSize overrides the bound of each search window.
func WithWindowSize(size int) Option {
	return func(o *options) {
		o.size = size
	}
}

// WithCatalog evaluates patterns from catalog instead of the default one.
func WithCatalog(c *patterns.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// left probes, most specific first
var leftPatterns = []string{patterns.LeftInFileAttr, patterns.LeftInSrcAttr}

// FileReference computes the insertion of fileName into the file reference
// attribute adjacent to offset. The left side is searched first: a match there
// inserts at the start of the attribute value typed so far. Otherwise the right
// side is searched and a match inserts just before the value's closing quote. A
// bare tag close on the right is only used when the left window ends in a closing
// quote or inside an open tag, so plain text and comments never produce an edit.
// A nil edit with a nil error means the cursor is not next to a file reference.
func FileReference(document string, offset int, fileName string, d dialect.Dialect, opts ...Option) (*Edit, error) {
	o := &options{
		catalog: patterns.Default(),
		size:    window.DefaultSize,
	}
	for _, opt := range opts {
		opt(o)
	}

	if !d.Valid() {
		return nil, errors.Errorf("inserting file name: %w: %q", dialect.ErrUnknownDialect, d)
	}

	w := window.Extract(document, offset, o.size)

	for _, name := range leftPatterns {
		span, ok, err := match(o.catalog, d, name, w.Left)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Edit{Offset: w.Offset - span.Len(), Text: fileName, Side: patterns.Left}, nil
		}
	}

	span, ok, err := match(o.catalog, d, patterns.RightBeforeAttrClose, w.Right)
	if err != nil {
		return nil, err
	}
	if ok {
		return &Edit{Offset: w.Offset + span.Len(), Text: fileName, Side: patterns.Right}, nil
	}

	// a bare tag close only counts right after a value or inside an open tag
	_, inAttr, err := match(o.catalog, d, patterns.LeftInAttrContext, w.Left)
	if err != nil {
		return nil, err
	}
	if !inAttr {
		return nil, nil
	}

	span, ok, err = match(o.catalog, d, patterns.RightBeforeTagClose, w.Right)
	if err != nil {
		return nil, err
	}
	if ok {
		return &Edit{Offset: w.Offset + span.Len(), Text: fileName, Side: patterns.Right}, nil
	}

	return nil, nil
}

func match(c *patterns.Catalog, d dialect.Dialect, name, text string) (patterns.Span, bool, error) {
	p, err := c.Lookup(d, name)
	if err != nil {
		return patterns.Span{}, false, errors.Errorf("inserting file name: %w", err)
	}
	span, ok, err := p.Match(text)
	if err != nil {
		return patterns.Span{}, false, errors.Errorf("inserting file name: %w", err)
	}
	return span, ok, nil
}
