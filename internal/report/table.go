package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// SummaryTable renders the report metadata as a two-column terminal
// table.
func SummaryTable(r *model.MatchReport) string {
	md := r.Metadata

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendRows([]table.Row{
		{"Generated", md.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"YouTube videos", md.TotalVideos},
		{"Congress events", md.TotalEvents},
		{"Matched", md.Matched},
		{"Unmatched", md.Unmatched},
		{"Match rate", md.MatchRate},
		{"Algorithmic", md.AlgorithmicMatches},
		{"LLM adjudicated", md.AdjudicatedMatches},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return tw.Render()
}

// MatchesTable renders the top matches as a terminal table, capped at
// limit rows (0 means all).
func MatchesTable(r *model.MatchReport, limit int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Date", "YouTube Title", "Congress Title", "Score", "Method"})

	for i := range r.Matches {
		if limit > 0 && i >= limit {
			break
		}
		m := &r.Matches[i]
		tw.AppendRow(table.Row{
			m.Video.DateString(),
			truncateCell(m.Video.Title, 60),
			truncateCell(m.Event.Title, 60),
			fmt.Sprintf("%.2f", m.Score),
			m.Method,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func truncateCell(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
