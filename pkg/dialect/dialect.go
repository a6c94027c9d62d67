package dialect

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Dialect identifies one of the two template tag grammars.
type Dialect string

const (
	// MVT is the store template dialect (<mvt:if>, <mvt:foreach>, &mvt:global:...;).
	MVT Dialect = "mvt"
	// MV is the Miva Script dialect (<MvIF>, <MvDO>, <MvASSIGN>).
	MV Dialect = "mv"
)

var ErrUnknownDialect = errors.Base("unknown dialect")

// All lists the supported dialects in a stable order.
func All() []Dialect {
	return []Dialect{MVT, MV}
}

// Parse resolves a dialect identifier. Unknown identifiers are an error, there is
// no fallback dialect.
func Parse(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case MVT:
		return MVT, nil
	case MV:
		return MV, nil
	}
	return "", errors.Errorf("%w: %q", ErrUnknownDialect, s)
}

func (d Dialect) Valid() bool {
	return d == MVT || d == MV
}

func (d Dialect) String() string {
	return string(d)
}
