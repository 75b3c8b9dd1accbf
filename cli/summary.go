package cli

import (
	"marathon-scraper/scraper"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderSummary formats per-gender page and record counts as a table
func RenderSummary(stats *scraper.Stats) string {
	t := table.NewWriter()
	t.SetTitle("Results %d", stats.Year)
	t.AppendHeader(table.Row{"Gender", "Pages", "Records", "Skipped"})

	pages := 0
	for _, gs := range stats.Genders {
		t.AppendRow(table.Row{gs.Gender, gs.Pages, gs.Records, gs.Skipped})
		pages += gs.Pages
	}
	t.AppendFooter(table.Row{"Total", pages, stats.Records(), stats.Skipped()})

	t.SetStyle(table.StyleRounded)
	return t.Render()
}
