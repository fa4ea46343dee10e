package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xbvrkit/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		task   string
		runID  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded per-item outcomes of previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := ctx.openJournal()
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			entries, err := store.History(cmd.Context(), journal.Query{Limit: limit, Task: task, RunID: runID})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recorded outcomes.")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
					e.Task,
					e.Key,
					colorizeStatus(e.Status, colorize),
					e.SceneID,
					shortRunID(e.RunID),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Task", "Item", "Status", "Scene", "Run"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", journal.DefaultListLimit, "Maximum entries to show")
	cmd.Flags().StringVar(&task, "task", "", "Only show outcomes of this task")
	cmd.Flags().StringVar(&runID, "run", "", "Only show outcomes of this run id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
