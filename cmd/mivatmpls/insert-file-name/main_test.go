package insert_file_name

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/position"
)

const page = "<mvt:item name=\"x\">\n<mvt:do file=\"\" name=\"l.ok\" />\n</mvt:item>"

func newFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/page.mvt", []byte(page), 0o644))
	return fs
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		payload  string
		cursor   common.Cursor
		wantAt   position.Place
		wantSide patterns.Side
		wantNil  bool
	}{
		{
			name:     "file flag",
			fileName: "modules/util.mvc",
			cursor:   common.Cursor{Path: "/work/page.mvt", Line: 1, Character: 14},
			wantAt:   position.Place{Line: 1, Character: 14},
			wantSide: patterns.Left,
		},
		{
			name:     "editor payload",
			payload:  `{"fileName": "modules/util.mvc"}`,
			cursor:   common.Cursor{Path: "/work/page.mvt", Line: 1, Character: 14},
			wantAt:   position.Place{Line: 1, Character: 14},
			wantSide: patterns.Left,
		},
		{
			name:     "not in a file attribute",
			fileName: "modules/util.mvc",
			cursor:   common.Cursor{Path: "/work/page.mvt", Line: 2, Character: 0},
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFs(t)
			me := &Handler{
				globals:  &common.Globals{Fs: fs, Stderr: io.Discard},
				fileName: tt.fileName,
				payload:  tt.payload,
			}

			var out bytes.Buffer
			require.NoError(t, me.Run(context.Background(), &out, tt.cursor))

			if tt.wantNil {
				assert.Equal(t, "null\n", out.String())
				return
			}

			var got struct {
				Offset int            `json:"offset"`
				Text   string         `json:"text"`
				Side   string         `json:"side"`
				At     position.Place `json:"at"`
			}
			require.NoError(t, json.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, "modules/util.mvc", got.Text)
			assert.Equal(t, tt.wantSide.String(), got.Side)
			assert.Equal(t, tt.wantAt, got.At)

			content, err := afero.ReadFile(fs, "/work/page.mvt")
			require.NoError(t, err)
			assert.Equal(t, page, string(content), "the file is untouched without --write")
		})
	}
}

func TestRunWrite(t *testing.T) {
	fs := newFs(t)
	me := &Handler{
		globals:  &common.Globals{Fs: fs, Stderr: io.Discard},
		fileName: "modules/util.mvc",
		write:    true,
	}

	var out bytes.Buffer
	require.NoError(t, me.Run(context.Background(), &out, common.Cursor{Path: "/work/page.mvt", Line: 1, Character: 14}))

	content, err := afero.ReadFile(fs, "/work/page.mvt")
	require.NoError(t, err)
	assert.Equal(t, "<mvt:item name=\"x\">\n<mvt:do file=\"modules/util.mvc\" name=\"l.ok\" />\n</mvt:item>", string(content))
}

func TestRunRequiresFileName(t *testing.T) {
	me := &Handler{globals: &common.Globals{Fs: newFs(t), Stderr: io.Discard}}

	err := me.Run(context.Background(), io.Discard, common.Cursor{Path: "/work/page.mvt", Line: 1, Character: 14})
	assert.Error(t, err)

	me.payload = `{"fileName":`
	err = me.Run(context.Background(), io.Discard, common.Cursor{Path: "/work/page.mvt", Line: 1, Character: 14})
	assert.Error(t, err)
}
