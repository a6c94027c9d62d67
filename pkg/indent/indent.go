// Package indent decides, locally and without parsing, how indentation should
// change when a newline is inserted in an MVT or MV template.
package indent

import (
	"strings"

	"github.com/walteh/mivatmpls/pkg/dialect"
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/window"
)

type Decision string

const (
	None                 Decision = "none"
	Increase             Decision = "increase"
	Decrease             Decision = "decrease"
	IncreaseThenDecrease Decision = "increase-then-decrease"
)

// Rule fires when Before matches the text before the newline and, if set, After
// matches the text after it.
type Rule struct {
	Name     string
	Before   *patterns.Pattern
	After    *patterns.Pattern
	Decision Decision
}

// Engine is an ordered rule table plus the generic increase and decrease
// patterns, which are evaluated after the rules.
type Engine struct {
	Rules    []Rule
	Increase *patterns.Pattern
	Decrease *patterns.Pattern
}

var (
	voidNames     = dialect.VoidAlternation(dialect.VoidElements...)
	voidFlatNames = dialect.VoidAlternation(append(append([]string{}, dialect.VoidElements...), dialect.FlatElements...)...)

	openCloseBefore = `<(?!(?:` + voidNames + `)\b)([_:\w][_:\w.\d-]*)([^/>]*(?!/)>)[^<]*$`
	openCloseAfter  = `^<\/([_:\w][_:\w.\d-]*)\s*>`
	openTagBefore   = `<(?!(?:` + voidNames + `)\b)(\w[\w\d]*)([^/>]*(?!/)>)[^<]*$`

	increaseIndent = `<(?!\?|(?:` + voidFlatNames + `)\b|[^>]*\/>)([-_.:A-Za-z0-9]+)(?=\s|>)\b[^>]*>(?!.*<\/\1>)|<!--(?!.*-->)|\{[^}"']*$`
	decreaseIndent = `^\s*(<\/(?!(?:` + dialect.VoidAlternation(dialect.FlatElements...) + `)\b)[-_.:A-Za-z0-9]+\b[^>]*>|-->|\})`
)

var defaultEngine = &Engine{
	Rules: []Rule{
		{
			Name:     "open-close-pair",
			Before:   patterns.MustCompile("open-close-pair-before", openCloseBefore, true),
			After:    patterns.MustCompile("open-close-pair-after", openCloseAfter, true),
			Decision: IncreaseThenDecrease,
		},
		{
			Name:     "open-tag",
			Before:   patterns.MustCompile("open-tag-before", openTagBefore, true),
			Decision: Increase,
		},
	},
	Increase: patterns.MustCompile("increase-indent", increaseIndent, true),
	Decrease: patterns.MustCompile("decrease-indent", decreaseIndent, true),
}

// DefaultEngine returns the process-wide engine. It must not be modified.
func DefaultEngine() *Engine {
	return defaultEngine
}

// Decide returns the indentation change for a newline inserted between before and
// after. Only the last line of before and the first line of after are considered.
// Pattern errors (timeouts) yield None, a newline must never fail.
func (e *Engine) Decide(before, after string) Decision {
	beforeLine := lastLine(before)
	afterLine := firstLine(after)

	for _, rule := range e.Rules {
		if !matches(rule.Before, beforeLine) {
			continue
		}
		if rule.After != nil && !matches(rule.After, afterLine) {
			continue
		}
		return rule.Decision
	}

	closes := matches(e.Decrease, afterLine)

	if matches(e.Increase, beforeLine) {
		if closes {
			return IncreaseThenDecrease
		}
		return Increase
	}

	if closes {
		return Decrease
	}

	return None
}

// DecideAt decides for a newline inserted at offset in document.
func (e *Engine) DecideAt(document string, offset int) Decision {
	w := window.Extract(document, offset, window.DefaultSize)
	return e.Decide(w.Left, w.Right)
}

// ShouldOutdent reports whether a whole line closes a block and should sit one
// level left of its predecessor.
func (e *Engine) ShouldOutdent(line string) bool {
	return matches(e.Decrease, line)
}

func matches(p *patterns.Pattern, text string) bool {
	if p == nil {
		return false
	}
	ok, err := p.MatchString(text)
	return err == nil && ok
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, "\r")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "\r")
}
