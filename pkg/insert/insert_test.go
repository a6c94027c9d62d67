package insert_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/pkg/dialect"
	"github.com/walteh/mivatmpls/pkg/insert"
	"github.com/walteh/mivatmpls/pkg/patterns"
)

func TestFileReference(t *testing.T) {
	tests := []struct {
		name     string
		dialect  dialect.Dialect
		doc      string
		wantDoc  string
		wantSide patterns.Side
		noEdit   bool
	}{
		{
			name:     "empty src value",
			dialect:  dialect.MVT,
			doc:      `<img src="|`,
			wantDoc:  `<img src="logo.png`,
			wantSide: patterns.Left,
		},
		{
			name:     "partial href value is kept after the name",
			dialect:  dialect.MVT,
			doc:      `<a href="x.html|">`,
			wantDoc:  `<a href="logo.pngx.html">`,
			wantSide: patterns.Left,
		},
		{
			name:     "mvt:do file attribute",
			dialect:  dialect.MVT,
			doc:      `<mvt:do file="|" name="l.ok" value="Load()" />`,
			wantDoc:  `<mvt:do file="logo.png" name="l.ok" value="Load()" />`,
			wantSide: patterns.Left,
		},
		{
			name:     "MvDO FILE attribute",
			dialect:  dialect.MV,
			doc:      `<MvDO FILE = "|" NAME="l.ok" VALUE="{ Load() }">`,
			wantDoc:  `<MvDO FILE = "logo.png" NAME="l.ok" VALUE="{ Load() }">`,
			wantSide: patterns.Left,
		},
		{
			name:     "MvINCLUDE FILE attribute",
			dialect:  dialect.MV,
			doc:      `<MvINCLUDE FILE="|">`,
			wantDoc:  `<MvINCLUDE FILE="logo.png">`,
			wantSide: patterns.Left,
		},
		{
			name:     "right side before the closing quote",
			dialect:  dialect.MVT,
			doc:      `|">`,
			wantDoc:  `logo.png">`,
			wantSide: patterns.Right,
		},
		{
			name:     "right side before the tag close",
			dialect:  dialect.MVT,
			doc:      `"|>`,
			wantDoc:  `"logo.png>`,
			wantSide: patterns.Right,
		},
		{
			name:     "right side skips the rest of the value",
			dialect:  dialect.MV,
			doc:      `<MvEVAL EXPR="{ l.path }" FILE_ALT="a|b.txt" />`,
			wantDoc:  `<MvEVAL EXPR="{ l.path }" FILE_ALT="ab.txtlogo.png" />`,
			wantSide: patterns.Right,
		},
		{
			name:    "plain text",
			dialect: dialect.MVT,
			doc:     `Lorem ipsum| dolor sit amet`,
			noEdit:  true,
		},
		{
			name:     "inside an open tag before its close",
			dialect:  dialect.MVT,
			doc:      `<img src=|>`,
			wantDoc:  `<img src=logo.png>`,
			wantSide: patterns.Right,
		},
		{
			name:    "comparison in plain text",
			dialect: dialect.MVT,
			doc:     `if a |> b then`,
			noEdit:  true,
		},
		{
			name:    "inside a comment",
			dialect: dialect.MVT,
			doc:     `<!-- note| -->`,
			noEdit:  true,
		},
		{
			name:    "right before a comment close",
			dialect: dialect.MV,
			doc:     `<!-- note --|>`,
			noEdit:  true,
		},
		{
			name:    "mv file attribute is not an mvt file attribute",
			dialect: dialect.MVT,
			doc:     `<MvDO FILE="|`,
			noEdit:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := strings.Index(tt.doc, "|")
			require.GreaterOrEqual(t, offset, 0)
			doc := tt.doc[:offset] + tt.doc[offset+1:]

			edit, err := insert.FileReference(doc, offset, "logo.png", tt.dialect)
			require.NoError(t, err)

			if tt.noEdit {
				assert.Nil(t, edit)
				assert.Equal(t, doc, edit.Apply(doc))
				return
			}

			require.NotNil(t, edit)
			assert.Equal(t, "logo.png", edit.Text)
			assert.Equal(t, tt.wantSide, edit.Side)
			assert.Equal(t, tt.wantDoc, edit.Apply(doc))
		})
	}
}

func TestFileReferencePrefersLeft(t *testing.T) {
	doc := `<img src="a/` + `">`
	offset := len(`<img src="a/`)

	edit, err := insert.FileReference(doc, offset, "b.png", dialect.MVT)
	require.NoError(t, err)
	require.NotNil(t, edit)

	assert.Equal(t, patterns.Left, edit.Side)
	assert.Equal(t, len(`<img src="`), edit.Offset)
}

func TestFileReferenceWindowBound(t *testing.T) {
	prefix := `<mvt:do file="` + strings.Repeat("x", 250)
	doc := prefix

	edit, err := insert.FileReference(doc, len(prefix), "a.mvt", dialect.MVT)
	require.NoError(t, err)
	assert.Nil(t, edit, "the attribute is outside the default window")

	edit, err = insert.FileReference(doc, len(prefix), "a.mvt", dialect.MVT, insert.WithWindowSize(400))
	require.NoError(t, err)
	require.NotNil(t, edit)
	assert.Equal(t, len(`<mvt:do file="`), edit.Offset)
}

func TestFileReferenceUnknownDialect(t *testing.T) {
	_, err := insert.FileReference(`<img src="`, 10, "a.png", dialect.Dialect("erb"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dialect.ErrUnknownDialect))
}

func TestFileReferenceWithCatalog(t *testing.T) {
	c := patterns.MustNew(patterns.DefaultMatchTimeout)

	edit, err := insert.FileReference(`<img src="`, 10, "a.png", dialect.MV, insert.WithCatalog(c))
	require.NoError(t, err)
	require.NotNil(t, edit)
	assert.Equal(t, 10, edit.Offset)
}
