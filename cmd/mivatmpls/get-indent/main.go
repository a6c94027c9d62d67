package get_indent

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	"github.com/walteh/mivatmpls/pkg/config"
	"github.com/walteh/mivatmpls/pkg/indent"
	"github.com/walteh/mivatmpls/pkg/window"
)

type Handler struct {
	globals *common.Globals
}

type Output struct {
	Decision indent.Decision     `json:"decision"`
	Action   indent.IndentAction `json:"action"`
	// IndentUnit is one indentation level for the file per .editorconfig.
	IndentUnit string `json:"indent_unit"`
}

func NewGetIndentCommand(g *common.Globals) *cobra.Command {
	me := &Handler{globals: g}

	cmd := &cobra.Command{
		Use:   "get-indent [file-path] [line] [character]",
		Short: "decide how indentation changes for a newline typed at a position",
	}

	cmd.Args = cobra.ExactArgs(3)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cursor, err := common.ParseCursorArgs(args)
		if err != nil {
			return err
		}
		return me.Run(cmd.Context(), cmd.OutOrStdout(), cursor)
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer, cursor common.Cursor) error {
	doc, err := me.globals.Read(ctx, cursor)
	if err != nil {
		return err
	}

	w := window.Extract(doc.Content, doc.Offset, me.globals.Config().WindowSize)
	decision := indent.DefaultEngine().Decide(w.Left, w.Right)

	unit, err := config.IndentUnit(me.globals.Fs, doc.Path)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", doc.Path).Msg("falling back to tab indentation")
		unit = "\t"
	}

	zerolog.Ctx(ctx).Debug().Str("decision", string(decision)).Msg("decided indentation")

	return common.WriteJSON(out, Output{
		Decision:   decision,
		Action:     decision.Action(),
		IndentUnit: unit,
	})
}
