package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const editorconfigName = ".editorconfig"

// IndentUnit returns the text one indentation level inserts for path according to
// the .editorconfig files above it on fs. Without a setting the unit is a tab.
func IndentUnit(fs afero.Fs, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}

	type found struct {
		ec  *editorconfig.Editorconfig
		rel string
	}

	// nearest file first, stopping at the first root file
	var files []found
	for dir := filepath.Dir(abs); ; {
		ec, err := readEditorconfig(fs, filepath.Join(dir, editorconfigName))
		if err != nil {
			return "", err
		}
		if ec != nil {
			rel, err := filepath.Rel(dir, abs)
			if err != nil {
				return "", errors.Errorf("resolving %s against %s: %w", abs, dir, err)
			}
			files = append(files, found{ec: ec, rel: filepath.ToSlash(rel)})
			if ec.Root {
				break
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	var style, size string
	tabWidth := 0

	// outermost first so nearer files override
	for i := len(files) - 1; i >= 0; i-- {
		def, err := files[i].ec.GetDefinitionForFilename(files[i].rel)
		if err != nil {
			return "", errors.Errorf("matching editorconfig sections for %s: %w", path, err)
		}
		if def.IndentStyle != "" {
			style = def.IndentStyle
		}
		if def.IndentSize != "" {
			size = def.IndentSize
		}
		if n, err := strconv.Atoi(def.Raw["tab_width"]); err == nil {
			tabWidth = n
		}
	}

	return indentUnit(style, size, tabWidth), nil
}

func readEditorconfig(fs afero.Fs, name string) (*editorconfig.Editorconfig, error) {
	f, err := fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	ec, err := editorconfig.Parse(f)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", name, err)
	}
	return ec, nil
}

func indentUnit(style, size string, tabWidth int) string {
	if strings.ToLower(style) != "space" {
		return "\t"
	}

	n, err := strconv.Atoi(size)
	if err != nil || n <= 0 {
		n = tabWidth
	}
	if n <= 0 {
		n = 4
	}
	return strings.Repeat(" ", n)
}
