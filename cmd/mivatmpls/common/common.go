// Package common holds the state shared by every mivatmpls subcommand: global
// flags, the filesystem, the loaded config and the document under the cursor.
package common

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/pkg/config"
	"github.com/walteh/mivatmpls/pkg/debug"
	"github.com/walteh/mivatmpls/pkg/dialect"
	"github.com/walteh/mivatmpls/pkg/position"
)

// Globals are the root command's persistent flags plus the resources they load.
type Globals struct {
	ConfigPath string
	Debug      bool
	JSONLog    bool

	Fs     afero.Fs
	Stderr io.Writer

	config *config.Config
}

func NewGlobals() *Globals {
	return &Globals{
		Fs:     afero.NewOsFs(),
		Stderr: os.Stderr,
	}
}

func (g *Globals) BindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "path to a mivatmpls.hcl or mivatmpls.yaml file")
	cmd.PersistentFlags().BoolVar(&g.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&g.JSONLog, "json-log", false, "log as json instead of console text")
}

// Setup builds the logger and loads the config. It returns the context every
// handler runs with.
func (g *Globals) Setup(ctx context.Context) (context.Context, error) {
	logger := debug.NewLogger(g.Stderr, debug.Options{
		Debug: g.Debug,
		JSON:  g.JSONLog,
	}).With().Str("request_id", uuid.NewString()).Logger()

	ctx = logger.WithContext(ctx)

	var cfg *config.Config
	var err error
	if g.ConfigPath != "" {
		cfg, err = config.Load(g.Fs, g.ConfigPath)
	} else {
		wd, werr := os.Getwd()
		if werr != nil {
			return nil, errors.Errorf("getting working directory: %w", werr)
		}
		var found string
		cfg, found, err = config.Find(g.Fs, wd)
		if found != "" {
			logger.Debug().Str("path", found).Msg("using config file")
		}
	}
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	g.config = cfg

	return ctx, nil
}

// Config returns the loaded config, or the defaults before Setup ran.
func (g *Globals) Config() *config.Config {
	if g.config == nil {
		return config.Default()
	}
	return g.config
}

// Cursor identifies a position in a file from the command line.
type Cursor struct {
	Path      string
	Line      int
	Character int
	Dialect   string
}

// ParseCursorArgs reads [file-path] [line] [character].
func ParseCursorArgs(args []string) (Cursor, error) {
	if len(args) != 3 {
		return Cursor{}, errors.Errorf("expected 3 arguments, got %d", len(args))
	}
	line, err := strconv.Atoi(args[1])
	if err != nil {
		return Cursor{}, errors.Errorf("invalid line number: %w", err)
	}
	character, err := strconv.Atoi(args[2])
	if err != nil {
		return Cursor{}, errors.Errorf("invalid character number: %w", err)
	}
	return Cursor{Path: args[0], Line: line, Character: character}, nil
}

// Document is a file snapshot with a resolved cursor offset and dialect.
type Document struct {
	Path    string
	Content string
	Offset  int
	Dialect dialect.Dialect
}

// Read loads the file under c and resolves the cursor offset. The dialect is left
// empty, for requests that do not depend on it.
func (g *Globals) Read(ctx context.Context, c Cursor) (*Document, error) {
	content, err := afero.ReadFile(g.Fs, c.Path)
	if err != nil {
		return nil, errors.Errorf("reading template file: %w", err)
	}

	text := string(content)
	doc := &Document{
		Path:    c.Path,
		Content: text,
		Offset:  position.Offset(text, c.Line, c.Character),
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", doc.Path).
		Int("offset", doc.Offset).
		Int("line", c.Line).
		Int("character", c.Character).
		Msg("read document")

	return doc, nil
}

// Open reads the file under c and resolves its dialect, the --dialect flag wins
// over the config's file globs.
func (g *Globals) Open(ctx context.Context, c Cursor) (*Document, error) {
	doc, err := g.Read(ctx, c)
	if err != nil {
		return nil, err
	}

	if c.Dialect != "" {
		doc.Dialect, err = dialect.Parse(c.Dialect)
	} else {
		doc.Dialect, err = g.Config().DialectFor(filepath.ToSlash(c.Path))
	}
	if err != nil {
		return nil, errors.Errorf("resolving dialect: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("dialect", doc.Dialect.String()).Msg("resolved dialect")

	return doc, nil
}

// WriteJSON encodes v as indented json.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Errorf("encoding output: %w", err)
	}
	return nil
}
