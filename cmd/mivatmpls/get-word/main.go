package get_word

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	"github.com/walteh/mivatmpls/pkg/indent"
	"github.com/walteh/mivatmpls/pkg/position"
)

type Handler struct {
	globals *common.Globals
}

type Output struct {
	Word  string         `json:"word"`
	Range position.Range `json:"range"`
}

func NewGetWordCommand(g *common.Globals) *cobra.Command {
	me := &Handler{globals: g}

	cmd := &cobra.Command{
		Use:   "get-word [file-path] [line] [character]",
		Short: "print the word touching a position",
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

// Run prints null when no word touches the cursor.
func (me *Handler) Run(ctx context.Context, out io.Writer, cursor common.Cursor) error {
	doc, err := me.globals.Read(ctx, cursor)
	if err != nil {
		return err
	}

	start, end, ok := indent.WordAt(doc.Content, doc.Offset)
	if !ok {
		return common.WriteJSON(out, nil)
	}

	word := position.NewBasicPosition(doc.Content[start:end], start)

	return common.WriteJSON(out, Output{
		Word:  word.Text,
		Range: word.GetRange(doc.Content),
	})
}
