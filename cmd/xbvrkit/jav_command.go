package main

import (
	"github.com/spf13/cobra"

	"xbvrkit/internal/javid"
	"xbvrkit/internal/javmatch"
)

func newJAVMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "jav-match",
		Short: "Match unmatched JAV files to scenes, scraping providers when needed",
		Long: `Group unmatched files by the JAV ID in their filename, look each ID up in
the catalog and, when it is missing, ask each enabled provider in turn to
scrape it before binding the files to the resulting scene.`,
		Args: cobra.NoArgs,
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
			run, err := ctx.beginRun(javmatch.Task)
			if err != nil {
				return err
			}
			runCtx := cmd.Context()
			files, err := fetchUnmatched(runCtx, cmd, client)
			if err != nil || len(files) == 0 {
				return err
			}

			out := cmd.OutOrStdout()
			logger := ctx.loggerValue()
			batch := &javmatch.Batch{
				Resolver: javmatch.ResolverFromConfig(client, cfg,
					javmatch.WithProgress(out),
					javmatch.WithLogger(logger),
				),
				Binder:  client,
				Filter:  javid.NewFilter(cfg.JAV.NoisyPrefixes),
				Journal: run,
				Out:     out,
				Logger:  logger,
			}
			summary, err := batch.Run(runCtx, files)
			if err != nil {
				return err
			}
			renderSummary(out, "JAV match", []summaryRow{
				{"Files considered", summary.Files, statusInfo},
				{"Without JAV ID", summary.Unparsed, statusWarn},
				{"Suppressed prefixes", summary.Suppressed, statusWarn},
				{"JAV IDs", summary.Identifiers, statusInfo},
				{"Scenes matched", summary.Matched, statusOK},
				{"Files bound", summary.FilesBound, statusOK},
				{"Scenes not matched", summary.NotMatched, statusWarn},
				{"Errors", summary.Errors, statusError},
			})
			return nil
		},
	}
}
