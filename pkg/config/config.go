// Package config loads the mivatmpls configuration file.
package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/walteh/mivatmpls/pkg/dialect"
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/window"
)

var ErrNoDialect = errors.Base("no dialect configured for file")

// FileNames are the config file names looked up by Find, in order.
var FileNames = []string{"mivatmpls.hcl", ".mivatmpls.hcl", "mivatmpls.yaml", "mivatmpls.yml", ".mivatmpls.yaml"}

type Config struct {
	// WindowSize bounds each side of the cursor window, in bytes.
	WindowSize int `json:"window_size,omitempty" hcl:"window_size,optional" yaml:"window_size,omitempty"`
	// MatchTimeoutMS bounds a single pattern evaluation.
	MatchTimeoutMS int `json:"match_timeout_ms,omitempty" hcl:"match_timeout_ms,optional" yaml:"match_timeout_ms,omitempty"`
	// DefaultDialect is used for files no dialect block matches.
	DefaultDialect string `json:"default_dialect,omitempty" hcl:"default_dialect,optional" yaml:"default_dialect,omitempty"`

	Dialects []*DialectBlock `json:"dialects,omitempty" hcl:"dialect,block" yaml:"dialects,omitempty"`
}

// DialectBlock maps file globs to a dialect.
type DialectBlock struct {
	Name  string   `json:"name" hcl:"name,label" yaml:"name"`
	Files []string `json:"files" hcl:"files,attr" yaml:"files"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	return &Config{
		WindowSize:     window.DefaultSize,
		MatchTimeoutMS: int(patterns.DefaultMatchTimeout / time.Millisecond),
		DefaultDialect: string(dialect.MVT),
		Dialects: []*DialectBlock{
			{Name: string(dialect.MVT), Files: []string{"**/*.mvt"}},
			{Name: string(dialect.MV), Files: []string{"**/*.mv", "**/*.mvc"}},
		},
	}
}

// Find loads the first config file present in dir, or Default if there is none.
func Find(fs afero.Fs, dir string) (*Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return nil, "", errors.Errorf("checking for config file %s: %w", path, err)
		}
		if !ok {
			continue
		}
		cfg, err := Load(fs, path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return Default(), "", nil
}

// Load reads a YAML or HCL config file, picked by extension, fills unset fields
// from Default and validates the result.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	} else {
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		ctx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"default_window_size": cty.NumberIntVal(window.DefaultSize),
			},
		}

		diags = gohcl.DecodeBody(hclFile.Body, ctx, &cfg)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.WindowSize == 0 {
		c.WindowSize = def.WindowSize
	}
	if c.MatchTimeoutMS == 0 {
		c.MatchTimeoutMS = def.MatchTimeoutMS
	}
	if c.DefaultDialect == "" && len(c.Dialects) == 0 {
		c.DefaultDialect = def.DefaultDialect
	}
	if len(c.Dialects) == 0 {
		c.Dialects = def.Dialects
	}
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var err error

	if c.WindowSize < 0 {
		err = multierr.Append(err, errors.Errorf("window_size must not be negative, got %d", c.WindowSize))
	}
	if c.MatchTimeoutMS < 0 {
		err = multierr.Append(err, errors.Errorf("match_timeout_ms must not be negative, got %d", c.MatchTimeoutMS))
	}
	if c.DefaultDialect != "" {
		if _, perr := dialect.Parse(c.DefaultDialect); perr != nil {
			err = multierr.Append(err, errors.Errorf("default_dialect: %w", perr))
		}
	}
	for _, block := range c.Dialects {
		if _, perr := dialect.Parse(block.Name); perr != nil {
			err = multierr.Append(err, errors.Errorf("dialect block: %w", perr))
		}
		for _, glob := range block.Files {
			if !doublestar.ValidatePattern(glob) {
				err = multierr.Append(err, errors.Errorf("dialect %s: invalid glob %q", block.Name, glob))
			}
		}
	}

	return err
}

// MatchTimeout is the per-pattern timeout as a duration.
func (c *Config) MatchTimeout() time.Duration {
	return time.Duration(c.MatchTimeoutMS) * time.Millisecond
}

// Catalog returns the pattern catalog for the configured timeout, the shared
// default catalog when the timeout is the default one.
func (c *Config) Catalog() (*patterns.Catalog, error) {
	timeout := c.MatchTimeout()
	if timeout <= 0 || timeout == patterns.DefaultMatchTimeout {
		return patterns.Default(), nil
	}
	return patterns.New(timeout)
}

// DialectFor picks the dialect of the first block with a glob matching path, then
// falls back to the default dialect.
func (c *Config) DialectFor(path string) (dialect.Dialect, error) {
	name := strings.TrimPrefix(filepath.ToSlash(path), "/")

	for _, block := range c.Dialects {
		for _, glob := range block.Files {
			ok, err := doublestar.Match(glob, name)
			if err != nil {
				return "", errors.Errorf("matching %q against %q: %w", name, glob, err)
			}
			if ok {
				return dialect.Parse(block.Name)
			}
		}
	}

	if c.DefaultDialect != "" {
		return dialect.Parse(c.DefaultDialect)
	}

	return "", errors.Errorf("%w: %s", ErrNoDialect, path)
}
