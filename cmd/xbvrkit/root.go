package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var urlFlag string

	ctx := newCommandContext(&configFlag, &urlFlag)

	rootCmd := &cobra.Command{
		Use:           "xbvrkit",
		Short:         "Bookkeeping tasks for an XBVR server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "XBVR server address (overrides config)")

	rootCmd.AddCommand(newJAVMatchCommand(ctx))
	rootCmd.AddCommand(newFilenameMatchCommand(ctx))
	rootCmd.AddCommand(newAltMatchCommand(ctx))
	rootCmd.AddCommand(newRemoveSiteCommand(ctx))
	rootCmd.AddCommand(newScrapeSLRCommand(ctx))
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
