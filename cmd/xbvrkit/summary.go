package main

import (
	"fmt"
	"io"
	"strconv"
)

type summaryRow struct {
	label string
	value int
	kind  statusKind
}

// renderSummary prints a two-column count table after a batch.
func renderSummary(out io.Writer, title string, rows []summaryRow) {
	colorize := shouldColorize(out)
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		value := strconv.Itoa(row.value)
		if colorize && row.value > 0 {
			if color := statusKindColor(row.kind); color != "" {
				value = color + value + ansiReset
			}
		}
		tableRows = append(tableRows, []string{row.label, value})
	}
	fmt.Fprintln(out, renderTable([]string{"Outcome", "Count"}, tableRows, []columnAlignment{alignLeft, alignRight}))
}
