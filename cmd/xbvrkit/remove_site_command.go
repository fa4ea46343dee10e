package main

import (
	"github.com/spf13/cobra"

	"xbvrkit/internal/sitepurge"
)

func newRemoveSiteCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remove-site <site>",
		Short: "Delete every scene scraped from a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			client, err := ctx.client()
			if err != nil {
				return err
			}
			run, err := ctx.beginRun(sitepurge.Task)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			purger := &sitepurge.Purger{
				Catalog: client,
				DryRun:  dryRun,
				Journal: run,
				Out:     out,
				Logger:  ctx.loggerValue(),
			}
			summary, err := purger.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			title := "Remove site"
			if summary.DryRun {
				title += " (dry run)"
			}
			renderSummary(out, title, []summaryRow{
				{"Scenes listed", summary.Scenes, statusInfo},
				{"Deleted", summary.Deleted, statusOK},
				{"Failed", summary.Failed, statusError},
			})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List the scenes that would be deleted without deleting them")
	return cmd
}
