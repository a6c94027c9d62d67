// Package patterns holds the immutable catalog of cursor-context regular
// expressions for the MVT and MV template dialects.
package patterns

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/pkg/dialect"
)

var ErrUnknownPattern = errors.Base("unknown pattern")

// Catalog maps pattern names to compiled patterns, per dialect plus a shared
// group, along with each dialect's ordered probe list. A Catalog is never
// mutated after construction and is safe for concurrent use.
type Catalog struct {
	shared   map[string]*Pattern
	dialects map[dialect.Dialect]map[string]*Pattern
	probes   map[dialect.Dialect][]Probe
	timeout  time.Duration
}

var defaultCatalog = MustNew(DefaultMatchTimeout)

// Default returns the process-wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

// MustNew is like New but panics, a malformed catalog is a startup fault.
func MustNew(timeout time.Duration) *Catalog {
	c, err := New(timeout)
	if err != nil {
		panic(err)
	}
	return c
}

// New compiles the catalog with the given per-match timeout and validates it.
func New(timeout time.Duration) (*Catalog, error) {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}

	c := &Catalog{
		shared:   map[string]*Pattern{},
		dialects: map[dialect.Dialect]map[string]*Pattern{},
		probes:   map[dialect.Dialect][]Probe{},
		timeout:  timeout,
	}

	var result *multierror.Error

	for _, def := range sharedDefinitions {
		if err := c.add(c.shared, def); err != nil {
			result = multierror.Append(result, err)
		}
	}

	for d, defs := range dialectDefinitions {
		c.dialects[d] = map[string]*Pattern{}
		for _, def := range defs {
			if _, shadow := c.shared[def.name]; shadow {
				result = multierror.Append(result, errors.Errorf("%s pattern %q shadows a shared pattern", d, def.name))
				continue
			}
			if err := c.add(c.dialects[d], def); err != nil {
				result = multierror.Append(result, errors.Errorf("%s: %w", d, err))
			}
		}
		c.probes[d] = append([]Probe(nil), dialectProbes[d]...)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Errorf("building pattern catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) add(into map[string]*Pattern, def definition) error {
	if _, dup := into[def.name]; dup {
		return errors.Errorf("duplicate pattern %q", def.name)
	}
	p, err := compile(def.name, def.group, def.side, def.insensitive, def.source, c.timeout)
	if err != nil {
		return err
	}
	into[def.name] = p
	return nil
}

// MatchTimeout is the per-match timeout the catalog was compiled with.
func (c *Catalog) MatchTimeout() time.Duration {
	return c.timeout
}

// Lookup resolves a pattern name for a dialect, dialect patterns first and then
// the shared group. Patterns owned by another dialect are never returned.
func (c *Catalog) Lookup(d dialect.Dialect, name string) (*Pattern, error) {
	own, ok := c.dialects[d]
	if !ok {
		return nil, errors.Errorf("%w: %q", dialect.ErrUnknownDialect, d)
	}
	if p, ok := own[name]; ok {
		return p, nil
	}
	if p, ok := c.shared[name]; ok {
		return p, nil
	}
	return nil, errors.Errorf("%w: %q in dialect %s", ErrUnknownPattern, name, d)
}

// Probes returns the dialect's probes in priority order.
func (c *Catalog) Probes(d dialect.Dialect) ([]Probe, error) {
	probes, ok := c.probes[d]
	if !ok {
		return nil, errors.Errorf("%w: %q", dialect.ErrUnknownDialect, d)
	}
	return append([]Probe(nil), probes...), nil
}

// Validate checks that every probe references patterns that exist on the side it
// uses them. Every problem is reported, not just the first.
func (c *Catalog) Validate() error {
	var result *multierror.Error

	for _, d := range dialect.All() {
		probes, ok := c.probes[d]
		if !ok || len(probes) == 0 {
			result = multierror.Append(result, errors.Errorf("dialect %s has no probes", d))
			continue
		}
		for _, probe := range probes {
			if err := c.validateRef(d, probe, probe.Left, Left); err != nil {
				result = multierror.Append(result, err)
			}
			if probe.Right == "" {
				continue
			}
			if err := c.validateRef(d, probe, probe.Right, Right); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Errorf("validating pattern catalog: %w", err)
	}
	return nil
}

func (c *Catalog) validateRef(d dialect.Dialect, probe Probe, name string, side Side) error {
	if name == "" {
		return errors.Errorf("%s probe %q has no %s pattern", d, probe.Name, side)
	}
	p, err := c.Lookup(d, name)
	if err != nil {
		return errors.Errorf("%s probe %q: %w", d, probe.Name, err)
	}
	if p.Side != side {
		return errors.Errorf("%s probe %q uses %s pattern %q on the %s side", d, probe.Name, p.Side, name, side)
	}
	return nil
}
