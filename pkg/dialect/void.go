package dialect

import (
	"regexp"
	"sort"
	"strings"
)

// VoidElements is the canonical list of element names that never open a block.
// Both the classifier and the indentation rules are built from it.
var VoidElements = sortedUnique([]string{
	// html
	"area", "base", "br", "col", "embed", "frame", "hr", "img", "input", "keygen",
	"link", "meta", "param", "source", "track", "wbr",

	// mvt
	"mvt:assign", "mvt:callcontinue", "mvt:callstop", "mvt:do", "mvt:else",
	"mvt:elseif", "mvt:eval", "mvt:exit", "mvt:foreachcontinue", "mvt:foreachstop",
	"mvt:whilecontinue", "mvt:whilestop",

	// mv
	"MvASSIGN", "MvASSIGNARRAY", "MvCALLCONTINUE", "MvCALLSTOP", "MvDO", "MvELSE",
	"MvELSEIF", "MvEVAL", "MvEXIT", "MvFUNCTIONRETURN", "MvFOREACHCONTINUE",
	"MvFOREACHSTOP", "MvWHILECONTINUE", "MvWHILESTOP",
})

// FlatElements open a block but their content is conventionally not indented.
var FlatElements = []string{"html"}

var voidSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(VoidElements))
	for _, name := range VoidElements {
		m[strings.ToLower(name)] = struct{}{}
	}
	return m
}()

// IsVoid reports whether name is a void element. Tag names are case-insensitive.
func IsVoid(name string) bool {
	_, ok := voidSet[strings.ToLower(name)]
	return ok
}

// VoidAlternation renders names as a regular expression alternation, longest first
// so that a prefix never shadows a longer name.
func VoidAlternation(names ...string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	sort.SliceStable(quoted, func(i, j int) bool {
		return len(quoted[i]) > len(quoted[j])
	})
	return strings.Join(quoted, "|")
}

func sortedUnique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
