package main

import (
	"github.com/spf13/cobra"

	"xbvrkit/internal/slrscrape"
)

func newScrapeSLRCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape-slr <file>",
		Short: "Queue single-scene scrapes for a file of SLR ids (one per line)",
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
			run, err := ctx.beginRun(slrscrape.Task)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			runner := &slrscrape.Runner{
				Scraper: client,
				Site:    cfg.SLR.Site,
				BaseURL: cfg.SLR.BaseURL,
				Journal: run,
				Out:     out,
				Logger:  ctx.loggerValue(),
			}
			summary, err := runner.RunFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderSummary(out, "SLR scrape", []summaryRow{
				{"Ids read", summary.Lines, statusInfo},
				{"Queued", summary.Queued, statusOK},
				{"Malformed", summary.Malformed, statusWarn},
				{"Failed", summary.Failed, statusError},
			})
			return nil
		},
	}
}
