package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/mivatmpls/cmd/mivatmpls/common"
	get_classification "github.com/walteh/mivatmpls/cmd/mivatmpls/get-classification"
	get_indent "github.com/walteh/mivatmpls/cmd/mivatmpls/get-indent"
	get_language_config "github.com/walteh/mivatmpls/cmd/mivatmpls/get-language-config"
	get_word "github.com/walteh/mivatmpls/cmd/mivatmpls/get-word"
	insert_file_name "github.com/walteh/mivatmpls/cmd/mivatmpls/insert-file-name"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	globals := common.NewGlobals()

	rootCmd := &cobra.Command{
		Use:          "mivatmpls",
		Short:        "Editor language support for miva templates",
		SilenceUsage: true,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	globals.BindFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := globals.Setup(cmd.Context())
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(get_classification.NewGetClassificationCommand(globals))
	rootCmd.AddCommand(get_indent.NewGetIndentCommand(globals))
	rootCmd.AddCommand(get_word.NewGetWordCommand(globals))
	rootCmd.AddCommand(get_language_config.NewGetLanguageConfigCommand())
	rootCmd.AddCommand(insert_file_name.NewInsertFileNameCommand(globals))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
