package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/bizcharts/internal/logger"
)

type rootFlags struct {
	verbose   bool
	logFormat string

	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "bizchart",
		Short:         "bizchart renders business charts from YAML chart documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			flags.log = log
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "auto", "Log format: auto, json or console")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	cmd.AddCommand(newThemeCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
