package indent

import (
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/window"
)

// WordPattern is what the host editor treats as one token: a number like -1.5e3 or
// a run of characters that are not punctuation or whitespace.
const WordPattern = `(-?\d*\.\d\w*)|([^` + "`" + `~!@$^&*()=+[{\]}\\|;:'",.<>/\s]+)`

var wordPattern = patterns.MustCompile("word", WordPattern, false)

// WordAt returns the byte range of the token touching offset, looking no further
// than window.DefaultSize bytes to either side.
func WordAt(document string, offset int) (start, end int, ok bool) {
	w := window.Extract(document, offset, window.DefaultSize)

	spans, err := wordPattern.MatchAll(w.Left + w.Right)
	if err != nil {
		return 0, 0, false
	}

	cursor := len(w.Left)
	for _, span := range spans {
		if span.Start <= cursor && cursor <= span.End {
			return w.Start + span.Start, w.Start + span.End, true
		}
	}
	return 0, 0, false
}

// IndentAction names follow the host editor's enum.
type IndentAction string

const (
	ActionNone          IndentAction = "None"
	ActionIndent        IndentAction = "Indent"
	ActionOutdent       IndentAction = "Outdent"
	ActionIndentOutdent IndentAction = "IndentOutdent"
)

func (d Decision) Action() IndentAction {
	switch d {
	case Increase:
		return ActionIndent
	case Decrease:
		return ActionOutdent
	case IncreaseThenDecrease:
		return ActionIndentOutdent
	}
	return ActionNone
}

// RegExp is a serialized regular expression with its flags.
type RegExp struct {
	Pattern string `json:"pattern"`
	Flags   string `json:"flags,omitempty"`
}

type IndentationRules struct {
	IncreaseIndentPattern RegExp `json:"increaseIndentPattern"`
	DecreaseIndentPattern RegExp `json:"decreaseIndentPattern"`
}

type EnterAction struct {
	IndentAction IndentAction `json:"indentAction"`
}

type OnEnterRule struct {
	BeforeText RegExp      `json:"beforeText"`
	AfterText  *RegExp     `json:"afterText,omitempty"`
	Action     EnterAction `json:"action"`
}

// LanguageConfiguration is the rule table handed to the host editor, which applies
// the indentation itself.
type LanguageConfiguration struct {
	WordPattern      RegExp           `json:"wordPattern"`
	IndentationRules IndentationRules `json:"indentationRules"`
	OnEnterRules     []OnEnterRule    `json:"onEnterRules"`
}

// LanguageConfiguration serializes the engine for the host editor.
func (e *Engine) LanguageConfiguration() LanguageConfiguration {
	cfg := LanguageConfiguration{
		WordPattern: RegExp{Pattern: WordPattern, Flags: "g"},
		IndentationRules: IndentationRules{
			IncreaseIndentPattern: toRegExp(e.Increase),
			DecreaseIndentPattern: toRegExp(e.Decrease),
		},
	}

	for _, rule := range e.Rules {
		r := OnEnterRule{
			BeforeText: toRegExp(rule.Before),
			Action:     EnterAction{IndentAction: rule.Decision.Action()},
		}
		if rule.After != nil {
			after := toRegExp(rule.After)
			r.AfterText = &after
		}
		cfg.OnEnterRules = append(cfg.OnEnterRules, r)
	}

	return cfg
}

func toRegExp(p *patterns.Pattern) RegExp {
	r := RegExp{Pattern: p.Source}
	if p.CaseInsensitive {
		r.Flags = "i"
	}
	return r
}
