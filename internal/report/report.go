// Package report renders run statistics as console tables.
package report

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Another0Noob/mangadex-mal-import/internal/importer"
)

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func alignRight(columns ...int) []table.ColumnConfig {
	cfgs := make([]table.ColumnConfig, 0, len(columns))
	for _, n := range columns {
		cfgs = append(cfgs, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	return cfgs
}

// Statistics lists how many export entries fall in each category.
func Statistics(batches []importer.Batch) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Category", "Manga"})
	total := 0
	for _, b := range batches {
		tw.AppendRow(table.Row{string(b.Category), len(b.Entries)})
		total += len(b.Entries)
	}
	tw.AppendFooter(table.Row{"Total", total})
	tw.SetColumnConfigs(alignRight(2))
	return tw.Render()
}

type counts struct {
	matched, updated, skipped int
}

// Summary shows per category results of an import run.
func Summary(batches []importer.Batch, res importer.Result) string {
	byCategory := make(map[importer.Category]*counts, len(batches))
	for _, b := range batches {
		byCategory[b.Category] = &counts{}
	}
	get := func(c importer.Category) *counts {
		if byCategory[c] == nil {
			byCategory[c] = &counts{}
		}
		return byCategory[c]
	}
	for _, p := range res.Processed {
		c := get(p.Status)
		c.matched++
		if p.Updated {
			c.updated++
		}
	}
	for _, s := range res.Skipped {
		get(s.Category).skipped++
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"Category", "Manga", "Matched", "Updated", "Skipped"})
	var total counts
	entries := 0
	for _, b := range batches {
		c := byCategory[b.Category]
		tw.AppendRow(table.Row{string(b.Category), len(b.Entries), c.matched, c.updated, c.skipped})
		entries += len(b.Entries)
		total.matched += c.matched
		total.updated += c.updated
		total.skipped += c.skipped
	}
	tw.AppendFooter(table.Row{"Total", entries, total.matched, total.updated, total.skipped})
	tw.SetColumnConfigs(alignRight(2, 3, 4, 5))
	return tw.Render()
}

// Unmatched lists skipped entries with the nearest title the catalog offered.
func Unmatched(skipped []importer.Skipped) string {
	if len(skipped) == 0 {
		return ""
	}
	tw := newTable()
	tw.AppendHeader(table.Row{"Title", "Category", "Reason", "Closest", "Distance"})
	for _, s := range skipped {
		dist := ""
		if s.Distance >= 0 {
			dist = strconv.Itoa(s.Distance)
		}
		tw.AppendRow(table.Row{s.Title, string(s.Category), string(s.Reason), s.Closest, dist})
	}
	tw.SetColumnConfigs(alignRight(5))
	return tw.Render()
}
