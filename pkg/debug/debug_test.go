package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPackageAndFuncFromFuncName(t *testing.T) {
	tests := []struct {
		name     string
		wantPkg  string
		wantFunc string
	}{
		{name: "github.com/walteh/mivatmpls/pkg/classify.Classify", wantPkg: "github.com/walteh/mivatmpls/pkg/classify", wantFunc: "Classify"},
		{name: "github.com/walteh/mivatmpls/pkg/classify.(*Classifier).Classify", wantPkg: "github.com/walteh/mivatmpls/pkg/classify", wantFunc: "(*Classifier).Classify"},
		{name: "main.main", wantPkg: "main", wantFunc: "main"},
		{name: "nodot", wantPkg: "nodot", wantFunc: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, fn := GetPackageAndFuncFromFuncName(tt.name)
			assert.Equal(t, tt.wantPkg, pkg)
			assert.Equal(t, tt.wantFunc, fn)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/insert:insert.go:42", FormatCaller("pkg/insert", "/src/pkg/insert/insert.go", 42, false))
	assert.Equal(t, "main.go", FileNameOfPath("main.go"))
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, Options{JSON: true})
	logger.Debug().Msg("hidden")
	logger.Info().Str("dialect", "mvt").Msg("classified")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "debug events are dropped without Debug")

	var event map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &event))
	assert.Equal(t, "classified", event["message"])
	assert.Equal(t, "mvt", event["dialect"])
	assert.Contains(t, event, "time")
	assert.Contains(t, event, "caller")
}

func TestNewLoggerDebugConsole(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, Options{Debug: true})
	logger.Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
}
