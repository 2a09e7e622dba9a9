package tui

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SearchSummary is the end-of-run tally for a search invocation, printed
// once the worker pool finishes or is cancelled.
type SearchSummary struct {
	Workers    int
	Iterations uint64
	Found      uint64
	Stored     uint64
	Duplicates uint64
	ElapsedSec float64
}

// RenderSearchSummary prints a one-table summary of a search run.
func RenderSearchSummary(s SearchSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Search Summary")
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.AppendRows([]table.Row{
		{"Workers", s.Workers},
		{"Iterations", Thousands(s.Iterations)},
		{"Layouts found", Thousands(s.Found)},
		{"Stored", Thousands(s.Stored)},
		{"Duplicates", Thousands(s.Duplicates)},
		{"Elapsed", fmt.Sprintf("%.1fs", s.ElapsedSec)},
	})
	fmt.Println(tw.Render())
}

// CleanSummary is the end-of-run tally for a clean invocation.
type CleanSummary struct {
	Scanned    uint64
	Valid      uint64
	Invalid    uint64
	Deleted    uint64
	ByKind     map[string]int
	ElapsedSec float64
}

// RenderCleanSummary prints a one-table summary of a clean run, with a
// second table for the per-kind error tally when any errors occurred.
func RenderCleanSummary(s CleanSummary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Clean Summary")
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.AppendRows([]table.Row{
		{"Scanned", Thousands(s.Scanned)},
		{"Valid", Thousands(s.Valid)},
		{"Invalid", Thousands(s.Invalid)},
		{"Deleted", Thousands(s.Deleted)},
		{"Elapsed", fmt.Sprintf("%.1fs", s.ElapsedSec)},
	})
	fmt.Println(tw.Render())

	if len(s.ByKind) == 0 {
		return
	}
	kt := table.NewWriter()
	kt.SetOutputMirror(os.Stdout)
	kt.SetStyle(table.StyleRounded)
	kt.SetTitle("Errors by kind")
	kt.AppendHeader(table.Row{"Kind", "Count"})
	for kind, count := range s.ByKind {
		kt.AppendRow(table.Row{kind, count})
	}
	fmt.Println(kt.Render())
}
