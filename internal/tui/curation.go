package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/rbscholtus/connecdoku/internal/curate"
)

// RenderCandidateTable builds a 4x4+header table.Writer for a human
// curator: each cell lists its candidate words ordered least-used
// first, so the operator can see at a glance which word would spread
// repeats the least (spec.md section 4.6, "a human operator picks
// among the remaining candidates").
func RenderCandidateTable(cells [4][4]curate.CellCandidates) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(EmptyStyle())
	tw.SetTitle("Curation Candidates")

	header := table.Row{""}
	for j := 0; j < 4; j++ {
		header = append(header, fmt.Sprintf("%s (%d)", cells[0][j].Col, cells[0][j].ColUses))
	}
	tw.AppendHeader(header)

	for i := 0; i < 4; i++ {
		row := table.Row{fmt.Sprintf("%s (%d)", cells[i][0].Row, cells[i][0].RowUses)}
		for j := 0; j < 4; j++ {
			row = append(row, formatCandidates(cells[i][j].Candidates))
		}
		tw.AppendRow(row)
	}

	cfgs := make([]table.ColumnConfig, 5)
	for i := range cfgs {
		cfgs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignCenter}
	}
	tw.SetColumnConfigs(cfgs)
	return tw
}

func formatCandidates(cands []curate.WordCandidate) string {
	if len(cands) == 0 {
		return "-"
	}
	sorted := make([]curate.WordCandidate, len(cands))
	copy(sorted, cands)
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Uses != sorted[b].Uses {
			return sorted[a].Uses < sorted[b].Uses
		}
		return sorted[a].Word < sorted[b].Word
	})
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = fmt.Sprintf("%s(%d)", c.Word, c.Uses)
	}
	return strings.Join(parts, "\n")
}
