package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xbvrkit/internal/javid"
)

type parseResult struct {
	Input        string `json:"input"`
	Valid        bool   `json:"valid"`
	ProducerCode string `json:"producer_code,omitempty"`
	Sequence     string `json:"sequence,omitempty"`
	DVDID        string `json:"dvd_id,omitempty"`
	ContentID    string `json:"content_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

func parseInputs(inputs []string) []parseResult {
	results := make([]parseResult, 0, len(inputs))
	for _, input := range inputs {
		id, err := javid.Parse(input)
		if err != nil {
			results = append(results, parseResult{Input: input, Error: err.Error()})
			continue
		}
		results = append(results, parseResult{
			Input:        input,
			Valid:        true,
			ProducerCode: id.ProducerCode(),
			Sequence:     id.SequenceNumber(),
			DVDID:        id.DVDID(),
			ContentID:    id.ContentID(),
		})
	}
	return results
}

func newParseCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "parse <text>...",
		Short:       "Show the JAV ID extracted from each argument",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := parseInputs(args)
			if asJSON {
				return writeJSON(cmd, results)
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				if !r.Valid {
					rows = append(rows, []string{r.Input, "-", "-", "no JAV ID"})
					continue
				}
				rows = append(rows, []string{r.Input, r.DVDID, r.ContentID, ""})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Input", "DVD ID", "Content ID", "Note"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}
