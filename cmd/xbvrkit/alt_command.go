package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xbvrkit/internal/altmatch"
)

func newAltMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "alt-match <site>",
		Short: "Match SLR-named funscripts to a site's scenes via alternate sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			run, err := ctx.beginRun(altmatch.Task)
			if err != nil {
				return err
			}
			files, err := fetchUnmatched(cmd.Context(), cmd, client)
			if err != nil || len(files) == 0 {
				return err
			}

			out := cmd.OutOrStdout()
			matcher := &altmatch.Matcher{
				Catalog:   client,
				Attribute: cfg.Alt.Attribute,
				Journal:   run,
				Out:       out,
				Logger:    ctx.loggerValue(),
			}
			summary, err := matcher.Run(cmd.Context(), args[0], files)
			if err != nil {
				return fmt.Errorf("alternate match for %s: %w", args[0], err)
			}
			renderSummary(out, "Alternate match", []summaryRow{
				{"Files considered", summary.Files, statusInfo},
				{"Alternate links", summary.AlternateLinks, statusInfo},
				{"Not funscripts", summary.NotFunscript, statusInfo},
				{"Unexpected names", summary.Malformed, statusWarn},
				{"No alternate scene", summary.NoAlternate, statusWarn},
				{"Matched", summary.Matched, statusOK},
				{"Errors", summary.Errors, statusError},
			})
			return nil
		},
	}
}
