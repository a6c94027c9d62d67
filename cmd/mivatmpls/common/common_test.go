package common

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/pkg/config"
	"github.com/walteh/mivatmpls/pkg/dialect"
)

func newTestGlobals(t *testing.T, files map[string]string) *Globals {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return &Globals{Fs: fs, Stderr: io.Discard}
}

func TestParseCursorArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Cursor
		wantErr bool
	}{
		{
			name: "valid",
			args: []string{"page.mvt", "3", "7"},
			want: Cursor{Path: "page.mvt", Line: 3, Character: 7},
		},
		{
			name:    "bad line",
			args:    []string{"page.mvt", "x", "7"},
			wantErr: true,
		},
		{
			name:    "bad character",
			args:    []string{"page.mvt", "3", "y"},
			wantErr: true,
		},
		{
			name:    "too few arguments",
			args:    []string{"page.mvt"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCursorArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen(t *testing.T) {
	g := newTestGlobals(t, map[string]string{
		"/work/page.mvt": "line one\n&mvt:global:x;",
		"/work/page.mv":  "<MvEVAL EXPR=\"{ g.x }\">",
		"/work/page.txt": "plain",
	})
	ctx := context.Background()

	tests := []struct {
		name        string
		cursor      Cursor
		wantDialect dialect.Dialect
		wantOffset  int
	}{
		{
			name:        "dialect from glob",
			cursor:      Cursor{Path: "/work/page.mvt", Line: 1, Character: 4},
			wantDialect: dialect.MVT,
			wantOffset:  13,
		},
		{
			name:        "mv glob",
			cursor:      Cursor{Path: "/work/page.mv", Line: 0, Character: 0},
			wantDialect: dialect.MV,
			wantOffset:  0,
		},
		{
			name:        "flag overrides glob",
			cursor:      Cursor{Path: "/work/page.mvt", Line: 0, Character: 2, Dialect: "MV"},
			wantDialect: dialect.MV,
			wantOffset:  2,
		},
		{
			name:        "unmatched file uses the default dialect",
			cursor:      Cursor{Path: "/work/page.txt", Line: 0, Character: 100},
			wantDialect: dialect.MVT,
			wantOffset:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := g.Open(ctx, tt.cursor)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, doc.Dialect)
			assert.Equal(t, tt.wantOffset, doc.Offset)
			assert.Equal(t, tt.cursor.Path, doc.Path)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	g := newTestGlobals(t, map[string]string{"/work/page.mvt": "x"})
	ctx := context.Background()

	_, err := g.Open(ctx, Cursor{Path: "/work/missing.mvt"})
	assert.Error(t, err)

	_, err = g.Open(ctx, Cursor{Path: "/work/page.mvt", Dialect: "php"})
	assert.True(t, errors.Is(err, dialect.ErrUnknownDialect))
}

func TestSetupLoadsConfig(t *testing.T) {
	g := newTestGlobals(t, map[string]string{
		"/work/mivatmpls.yaml": "window_size: 64\ndialects:\n  - name: mv\n    files: [\"**/*.tpl\"]\n",
	})
	g.ConfigPath = "/work/mivatmpls.yaml"

	ctx, err := g.Setup(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(ctx).GetLevel(), "setup attaches a logger")
	assert.Equal(t, 64, g.Config().WindowSize)

	d, err := g.Config().DialectFor("/work/a.tpl")
	require.NoError(t, err)
	assert.Equal(t, dialect.MV, d)

	_, err = g.Config().DialectFor("/work/a.mvt")
	assert.True(t, errors.Is(err, config.ErrNoDialect))
}

func TestSetupRejectsBadConfig(t *testing.T) {
	g := newTestGlobals(t, map[string]string{
		"/work/mivatmpls.yaml": "window_size: -1\n",
	})
	g.ConfigPath = "/work/mivatmpls.yaml"

	_, err := g.Setup(context.Background())
	assert.Error(t, err)
}

func TestConfigBeforeSetup(t *testing.T) {
	g := NewGlobals()
	assert.Equal(t, config.Default(), g.Config())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "null\n", buf.String())
}

func TestReadLeavesDialectUnresolved(t *testing.T) {
	g := newTestGlobals(t, map[string]string{
		"/work/mivatmpls.yaml": "dialects:\n  - name: mvt\n    files: [\"**/*.mvt\"]\n",
		"/work/notes.txt":      "one\ntwo",
	})
	g.ConfigPath = "/work/mivatmpls.yaml"

	ctx, err := g.Setup(context.Background())
	require.NoError(t, err)

	doc, err := g.Read(ctx, Cursor{Path: "/work/notes.txt", Line: 1, Character: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Offset)
	assert.Equal(t, dialect.Dialect(""), doc.Dialect)

	_, err = g.Open(ctx, Cursor{Path: "/work/notes.txt", Line: 1, Character: 1})
	assert.True(t, errors.Is(err, config.ErrNoDialect))
}
