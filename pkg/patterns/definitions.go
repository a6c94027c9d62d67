package patterns

import "github.com/walteh/mivatmpls/pkg/dialect"

type definition struct {
	name        string
	group       Group
	side        Side
	insensitive bool
	source      string
}

const (
	caseSensitive   = false
	caseInsensitive = true
)

// Pattern names shared between the catalog and its callers.
const (
	LeftInValueAttr      = "left-in-value-attr"
	LeftInHTMLTag        = "left-in-html-tag"
	LeftInSrcAttr        = "left-in-src-attr"
	LeftInFileAttr       = "left-in-file-attr"
	LeftInDoTag          = "left-in-do-tag"
	LeftInDialectTag     = "left-in-dialect-tag"
	LeftScopeGlobal      = "left-scope-global"
	LeftScopeGlobalRef   = "left-scope-global-entity"
	LeftScopeSystem      = "left-scope-system"
	LeftScopeLocal       = "left-scope-local"
	LeftAfterAmp         = "left-after-amp"
	LeftAfterBracketDot  = "left-after-bracket-dot"
	RightInTag           = "right-in-tag"
	RightInAttr          = "right-in-attr"
	LeftInAttrContext    = "left-in-attr-context"
	RightBeforeAttrClose = "right-before-attr-close"
	RightBeforeTagClose  = "right-before-tag-close"
)

// a scope prefix only counts when it starts an identifier
const scopeBoundary = `(?<![\w.:])`

var sharedDefinitions = []definition{
	{LeftInValueAttr, GroupAttribute, Left, caseInsensitive, `value\s*=\s*"\s*(\{)?(.){1}\z`},
	{LeftInHTMLTag, GroupTag, Left, caseInsensitive, `<[a-z][\w:.-]*\s[^<>]*\z`},
	{LeftInSrcAttr, GroupAttribute, Left, caseInsensitive, `(?<=\b(?:src|href)\s*=\s*")[^"<>]*\z`},
	{RightInTag, GroupTag, Right, caseSensitive, `\A[^<]*?(?=>)`},
	{RightInAttr, GroupAttribute, Right, caseSensitive, `\A\s*?(\})?"`},
	// the cursor just left a value or sits inside an open tag, never a comment
	{LeftInAttrContext, GroupAttribute, Left, caseInsensitive, `(?:"|<[a-z][\w:.-]*(?:\s[^<>]*)?)\z`},
	{RightBeforeAttrClose, GroupAttribute, Right, caseSensitive, `\A[^"<>]*?(?="\s*(?:/?>|[\w:-]+\s*=))`},
	{RightBeforeTagClose, GroupAttribute, Right, caseSensitive, `\A[^"<>]*?(?<!--)(?=\s*/?>)`},
}

var dialectDefinitions = map[dialect.Dialect][]definition{
	// mvt scope prefixes are written lower case, the abbreviated forms are case-sensitive
	dialect.MVT: {
		{LeftScopeGlobal, GroupVariable, Left, caseSensitive, scopeBoundary + `g\.\z`},
		{LeftScopeGlobalRef, GroupVariable, Left, caseInsensitive, `&mvt:global:\z`},
		{LeftScopeSystem, GroupVariable, Left, caseSensitive, scopeBoundary + `s\.\z`},
		{LeftScopeLocal, GroupVariable, Left, caseSensitive, scopeBoundary + `l\.\z`},
		{LeftAfterAmp, GroupVariable, Left, caseSensitive, `&\z`},
		{LeftInDoTag, GroupTag, Left, caseInsensitive, `(?=<mvt:do)[^>]*?\z`},
		{LeftInDialectTag, GroupTag, Left, caseInsensitive, `(?=<mvt:)[^>]*?\z`},
		{LeftInFileAttr, GroupAttribute, Left, caseInsensitive, `(?<=<mvt:do\b[^<>]*\bfile\s*=\s*")[^"<>]*\z`},
	},
	// miva script variables are case-insensitive, G.x and g.x are the same variable
	dialect.MV: {
		{LeftScopeGlobal, GroupVariable, Left, caseInsensitive, scopeBoundary + `g\.\z`},
		{LeftScopeSystem, GroupVariable, Left, caseInsensitive, scopeBoundary + `s\.\z`},
		{LeftScopeLocal, GroupVariable, Left, caseInsensitive, scopeBoundary + `l\.\z`},
		{LeftAfterBracketDot, GroupVariable, Left, caseInsensitive, `\[\s*\]\.\z`},
		{LeftInDoTag, GroupTag, Left, caseInsensitive, `(?=<MvDO)[^>]*?\z`},
		{LeftInDialectTag, GroupTag, Left, caseInsensitive, `(?=<Mv[a-z])[^>]*?\z`},
		{LeftInFileAttr, GroupAttribute, Left, caseInsensitive, `(?<=<Mv(?:DO|INCLUDE|IMPORT|EXPORT)\b[^<>]*\bFILE\s*=\s*")[^"<>]*\z`},
	},
}

// Probe order is the priority contract: scope prefixes before attribute values,
// attribute values before tags, specific tags before generic ones.
var dialectProbes = map[dialect.Dialect][]Probe{
	dialect.MVT: {
		{Name: "scope-global", Group: GroupVariable, Kind: KindScopeGlobal, Left: LeftScopeGlobal},
		{Name: "scope-global-entity", Group: GroupVariable, Kind: KindScopeGlobal, Left: LeftScopeGlobalRef},
		{Name: "scope-system", Group: GroupVariable, Kind: KindScopeSystem, Left: LeftScopeSystem},
		{Name: "scope-local", Group: GroupVariable, Kind: KindScopeLocal, Left: LeftScopeLocal},
		{Name: "entity-start", Group: GroupVariable, Kind: KindAfterEntityStart, Left: LeftAfterAmp},
		{Name: "value-attribute", Group: GroupAttribute, Kind: KindInsideAttributeValue, Left: LeftInValueAttr, Right: RightInAttr},
		{Name: "do-tag", Group: GroupTag, Kind: KindInsideDoTag, Left: LeftInDoTag, Right: RightInTag},
		{Name: "dialect-tag", Group: GroupTag, Kind: KindInsideTag, Left: LeftInDialectTag, Right: RightInTag},
		{Name: "html-tag", Group: GroupTag, Kind: KindInsideTag, Left: LeftInHTMLTag, Right: RightInTag},
	},
	dialect.MV: {
		{Name: "scope-global", Group: GroupVariable, Kind: KindScopeGlobal, Left: LeftScopeGlobal},
		{Name: "scope-system", Group: GroupVariable, Kind: KindScopeSystem, Left: LeftScopeSystem},
		{Name: "scope-local", Group: GroupVariable, Kind: KindScopeLocal, Left: LeftScopeLocal},
		{Name: "bracket-dot", Group: GroupVariable, Kind: KindAfterBracketDot, Left: LeftAfterBracketDot},
		{Name: "value-attribute", Group: GroupAttribute, Kind: KindInsideAttributeValue, Left: LeftInValueAttr, Right: RightInAttr},
		{Name: "do-tag", Group: GroupTag, Kind: KindInsideDoTag, Left: LeftInDoTag, Right: RightInTag},
		{Name: "dialect-tag", Group: GroupTag, Kind: KindInsideTag, Left: LeftInDialectTag, Right: RightInTag},
		{Name: "html-tag", Group: GroupTag, Kind: KindInsideTag, Left: LeftInHTMLTag, Right: RightInTag},
	},
}
