package get_language_config

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	"github.com/walteh/mivatmpls/pkg/indent"
)

type Handler struct{}

func NewGetLanguageConfigCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "get-language-config",
		Short: "print the editor language configuration (word pattern, indentation and on-enter rules)",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context(), cmd.OutOrStdout())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context, out io.Writer) error {
	return common.WriteJSON(out, indent.DefaultEngine().LanguageConfiguration())
}
