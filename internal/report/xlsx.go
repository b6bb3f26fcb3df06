package report

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// ExportXLSX writes the report as a workbook with Matches, Unmatched
// and Summary sheets.
func ExportXLSX(r *model.MatchReport, path string) error {
	f := xlsx.NewFile()

	if err := writeMatchesSheet(f, r); err != nil {
		return err
	}
	if err := writeUnmatchedSheet(f, r); err != nil {
		return err
	}
	if err := writeSummarySheet(f, r); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "report: save xlsx")
	}
	return nil
}

func writeMatchesSheet(f *xlsx.File, r *model.MatchReport) error {
	sheet, err := f.AddSheet("Matches")
	if err != nil {
		return eris.Wrap(err, "report: add matches sheet")
	}

	addRow(sheet,
		"YouTube ID", "YouTube Title", "YouTube Date", "YouTube URL",
		"Committee", "Congress Event ID", "Congress Title", "Congress Date",
		"Congress URL", "Score", "Method", "Reasons",
		"LLM Confidence", "LLM Reasoning",
	)
	for i := range r.Matches {
		m := &r.Matches[i]
		confidence, reasoning := "", ""
		if m.Adjudication != nil {
			confidence = string(m.Adjudication.Confidence)
			reasoning = m.Adjudication.Reasoning
		}
		addRow(sheet,
			m.Video.VideoID, m.Video.Title, m.Video.DateString(), m.Video.URL,
			m.Video.Committee, m.Event.EventID, m.Event.Title, m.Event.DateString(),
			m.Event.CongressURL(), fmt.Sprintf("%.2f", m.Score), string(m.Method),
			strings.Join(m.Reasons, " | "), confidence, reasoning,
		)
	}
	return nil
}

func writeUnmatchedSheet(f *xlsx.File, r *model.MatchReport) error {
	sheet, err := f.AddSheet("Unmatched")
	if err != nil {
		return eris.Wrap(err, "report: add unmatched sheet")
	}

	addRow(sheet, "YouTube ID", "YouTube Title", "YouTube Date", "YouTube URL", "Committee", "Best Score", "Best Candidate")
	for i := range r.Unmatched {
		u := &r.Unmatched[i]
		addRow(sheet,
			u.Video.VideoID, u.Video.Title, u.Video.DateString(), u.Video.URL,
			u.Video.Committee, fmt.Sprintf("%.2f", u.BestScore), u.BestMatchTitle,
		)
	}
	return nil
}

func writeSummarySheet(f *xlsx.File, r *model.MatchReport) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	md := r.Metadata
	addRow(sheet, "Generated", md.GeneratedAt.Format("2006-01-02 15:04:05"))
	addRow(sheet, "Total YouTube Videos", fmt.Sprintf("%d", md.TotalVideos))
	addRow(sheet, "Total Congress Events", fmt.Sprintf("%d", md.TotalEvents))
	addRow(sheet, "Matched", fmt.Sprintf("%d", md.Matched))
	addRow(sheet, "Unmatched", fmt.Sprintf("%d", md.Unmatched))
	addRow(sheet, "Match Rate", md.MatchRate)
	addRow(sheet, "Algorithmic Matches", fmt.Sprintf("%d", md.AlgorithmicMatches))
	addRow(sheet, "LLM Adjudicated Matches", fmt.Sprintf("%d", md.AdjudicatedMatches))
	return nil
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
