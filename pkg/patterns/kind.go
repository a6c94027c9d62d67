package patterns

// Kind is the closed set of contexts a probe can classify a cursor into.
type Kind string

const (
	KindNone                 Kind = "none"
	KindInsideTag            Kind = "inside-tag"
	KindInsideDoTag          Kind = "inside-do-tag"
	KindInsideAttributeValue Kind = "inside-attribute-value"
	KindScopeGlobal          Kind = "after-scope-prefix:global"
	KindScopeSystem          Kind = "after-scope-prefix:system"
	KindScopeLocal           Kind = "after-scope-prefix:local"
	KindAfterBracketDot      Kind = "after-bracket-dot"
	KindAfterEntityStart     Kind = "after-entity-start"
)

// Probe is one entry of a dialect's priority list. It fires when its left pattern
// matches the left window and, if set, its right pattern matches the right window.
type Probe struct {
	Name  string
	Group Group
	Kind  Kind
	Left  string
	Right string
}
