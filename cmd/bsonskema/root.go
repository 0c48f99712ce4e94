package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/reoring/bsonskema/i18n"
)

type rootFlags struct {
	verbose bool
	lang    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "bsonskema",
		Short:         "Check documents against bsonskema definition files",
		Long:          `bsonskema decodes JSON and YAML documents (with Extended JSON wrappers) through record types declared in a YAML definition file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.SetLanguage(flags.lang)
		},
	}
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.PersistentFlags().StringVar(&flags.lang, "lang", "en", "issue message language (en, ja)")

	cmd.AddCommand(newCheckCmd(flags), newOptionsCmd(flags), newInspectCmd(flags))
	return cmd
}

func (f *rootFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
