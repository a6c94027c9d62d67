package insert_file_name

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	"github.com/walteh/mivatmpls/pkg/insert"
	"github.com/walteh/mivatmpls/pkg/position"
)

type Handler struct {
	globals  *common.Globals
	dialect  string
	fileName string
	payload  string
	write    bool
}

type Output struct {
	*insert.Edit
	At position.Place `json:"at"`
}

func NewInsertFileNameCommand(g *common.Globals) *cobra.Command {
	me := &Handler{globals: g}

	cmd := &cobra.Command{
		Use:   "insert-file-name [file-path] [line] [character]",
		Short: "insert a file name into the file reference attribute next to a position",
	}

	cmd.Args = cobra.ExactArgs(3)

	cmd.Flags().StringVar(&me.dialect, "dialect", "", "template dialect (mvt or mv), detected from the file name by default")
	cmd.Flags().StringVar(&me.fileName, "file-name", "", "file name to insert")
	cmd.Flags().StringVar(&me.payload, "payload", "", `command payload as sent by the editor, {"fileName": "..."}`)
	cmd.Flags().BoolVar(&me.write, "write", false, "apply the edit to the file instead of only printing it")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cursor, err := common.ParseCursorArgs(args)
		if err != nil {
			return err
		}
		cursor.Dialect = me.dialect
		return me.Run(cmd.Context(), cmd.OutOrStdout(), cursor)
	}

	return cmd
}

func (me *Handler) resolvePayload() (insert.Payload, error) {
	payload := insert.Payload{FileName: me.fileName}
	if me.payload != "" {
		if err := json.Unmarshal([]byte(me.payload), &payload); err != nil {
			return insert.Payload{}, errors.Errorf("parsing payload: %w", err)
		}
	}
	if payload.FileName == "" {
		return insert.Payload{}, errors.New("a file name is required, use --file-name or --payload")
	}
	return payload, nil
}

// Run prints the edit, or null when the cursor is not next to a file reference.
func (me *Handler) Run(ctx context.Context, out io.Writer, cursor common.Cursor) error {
	payload, err := me.resolvePayload()
	if err != nil {
		return err
	}

	doc, err := me.globals.Open(ctx, cursor)
	if err != nil {
		return err
	}

	cfg := me.globals.Config()
	catalog, err := cfg.Catalog()
	if err != nil {
		return errors.Errorf("building pattern catalog: %w", err)
	}

	edit, err := insert.FileReference(doc.Content, doc.Offset, payload.FileName, doc.Dialect,
		insert.WithCatalog(catalog),
		insert.WithWindowSize(cfg.WindowSize),
	)
	if err != nil {
		return errors.Errorf("inserting into %s: %w", doc.Path, err)
	}

	logger := zerolog.Ctx(ctx)

	if edit == nil {
		logger.Debug().Msg("cursor is not next to a file reference")
		return common.WriteJSON(out, nil)
	}

	logger.Debug().Int("offset", edit.Offset).Str("side", edit.Side.String()).Msg("inserting file name")

	if me.write {
		info, err := me.globals.Fs.Stat(doc.Path)
		if err != nil {
			return errors.Errorf("stat %s: %w", doc.Path, err)
		}
		if err := afero.WriteFile(me.globals.Fs, doc.Path, []byte(edit.Apply(doc.Content)), perm(info)); err != nil {
			return errors.Errorf("writing %s: %w", doc.Path, err)
		}
		logger.Info().Str("path", doc.Path).Msg("applied edit")
	}

	line, col := position.NewBasicPosition("", edit.Offset).GetLineAndColumn(doc.Content)

	return common.WriteJSON(out, Output{
		Edit: edit,
		At:   position.Place{Line: line, Character: col},
	})
}

func perm(info os.FileInfo) os.FileMode {
	if info == nil {
		return 0o644
	}
	return info.Mode().Perm()
}
