package get_classification

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	"github.com/walteh/mivatmpls/pkg/classify"
	"github.com/walteh/mivatmpls/pkg/patterns"
	"github.com/walteh/mivatmpls/pkg/position"
	"github.com/walteh/mivatmpls/pkg/window"
)

type Handler struct {
	globals *common.Globals
	dialect string
	groups  []string
}

type Output struct {
	classify.Result
	Dialect string         `json:"dialect"`
	Replace position.Range `json:"replace"`
}

func NewGetClassificationCommand(g *common.Globals) *cobra.Command {
	me := &Handler{globals: g}

	cmd := &cobra.Command{
		Use:   "get-classification [file-path] [line] [character]",
		Short: "classify the lexical context of a cursor position",
	}

	cmd.Args = cobra.ExactArgs(3)

	cmd.Flags().StringVar(&me.dialect, "dialect", "", "template dialect (mvt or mv), detected from the file name by default")
	cmd.Flags().StringSliceVar(&me.groups, "group", nil, "only evaluate these pattern groups (tag, attribute, variable)")

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

func (me *Handler) Run(ctx context.Context, out io.Writer, cursor common.Cursor) error {
	groups, err := parseGroups(me.groups)
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

	w := window.Extract(doc.Content, doc.Offset, cfg.WindowSize)

	result, err := classify.New(catalog).Classify(w, doc.Dialect, groups...)
	if err != nil {
		return errors.Errorf("classifying %s: %w", doc.Path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("kind", string(result.Kind)).
		Str("probe", result.Probe).
		Bool("matched", result.Matched()).
		Dur("match_timeout", catalog.MatchTimeout()).
		Int("length", result.Length).
		Msg("classified cursor")

	replaced := position.NewBasicPosition(doc.Content[result.Offset-result.Length:result.Offset], result.Offset-result.Length)

	return common.WriteJSON(out, Output{
		Result:  result,
		Dialect: doc.Dialect.String(),
		Replace: replaced.GetRange(doc.Content),
	})
}

func parseGroups(names []string) ([]patterns.Group, error) {
	groups := make([]patterns.Group, 0, len(names))
	for _, name := range names {
		found := false
		for _, g := range patterns.Groups() {
			if string(g) == name {
				groups = append(groups, g)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("unknown pattern group %q", name)
		}
	}
	return groups, nil
}
