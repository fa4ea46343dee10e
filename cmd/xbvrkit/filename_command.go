package main

import (
	"github.com/spf13/cobra"

	"xbvrkit/internal/filematch"
)

func newFilenameMatchCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "filename-match",
		Short: "Match unmatched files to scenes that list them as known filenames",
		Args:  cobra.NoArgs,
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
			run, err := ctx.beginRun(filematch.Task)
			if err != nil {
				return err
			}
			files, err := fetchUnmatched(cmd.Context(), cmd, client)
			if err != nil || len(files) == 0 {
				return err
			}

			if workers <= 0 {
				workers = cfg.Match.Workers
			}
			out := cmd.OutOrStdout()
			matcher := &filematch.Matcher{
				Catalog: client,
				Workers: workers,
				Journal: run,
				Out:     out,
				Logger:  ctx.loggerValue(),
			}
			summary, err := matcher.Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			renderSummary(out, "Filename match", []summaryRow{
				{"Files considered", summary.Files, statusInfo},
				{"Matched", summary.Matched, statusOK},
				{"Not matched", summary.Unmatched, statusWarn},
				{"Errors", summary.Errors, statusError},
			})
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel lookups (defaults to match.workers)")
	return cmd
}
