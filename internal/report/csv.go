package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// csvColumns defines the ordered CSV output columns. Matched and
// unmatched videos share one file, distinguished by the Status column.
var csvColumns = []string{
	"YouTube ID",
	"YouTube Title",
	"YouTube Date",
	"YouTube URL",
	"Committee",
	"Congress Event ID",
	"Congress Title",
	"Congress Date",
	"Congress URL",
	"Match Score",
	"Match Method",
	"Match Reasons",
	"LLM Confidence",
	"LLM Reasoning",
	"Status",
}

// ExportCSV writes the full report as a single CSV file: one row per
// video, matches first, then unmatched.
func ExportCSV(r *model.MatchReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "report: create csv file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvColumns); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for i := range r.Matches {
		if err := w.Write(buildMatchRow(&r.Matches[i])); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}
	for i := range r.Unmatched {
		if err := w.Write(buildUnmatchedRow(&r.Unmatched[i])); err != nil {
			return eris.Wrap(err, "report: write csv row")
		}
	}

	return nil
}

// buildMatchRow maps a MatchResult to a CSV row.
func buildMatchRow(m *model.MatchResult) []string {
	confidence, reasoning := "", ""
	if m.Adjudication != nil {
		confidence = string(m.Adjudication.Confidence)
		reasoning = m.Adjudication.Reasoning
	}

	return []string{
		m.Video.VideoID,                 // YouTube ID
		m.Video.Title,                   // YouTube Title
		m.Video.DateString(),            // YouTube Date
		m.Video.URL,                     // YouTube URL
		m.Video.Committee,               // Committee
		m.Event.EventID,                 // Congress Event ID
		m.Event.Title,                   // Congress Title
		m.Event.DateString(),            // Congress Date
		m.Event.CongressURL(),           // Congress URL
		fmt.Sprintf("%.2f", m.Score),    // Match Score
		string(m.Method),                // Match Method
		strings.Join(m.Reasons, " | "), // Match Reasons
		confidence,                      // LLM Confidence
		reasoning,                       // LLM Reasoning
		"Matched",                       // Status
	}
}

// buildUnmatchedRow maps an Unmatched entry to a CSV row. Event columns
// stay empty; the best rejected candidate rides in the reasons column
// for diagnostics.
func buildUnmatchedRow(u *model.Unmatched) []string {
	diag := ""
	if u.BestMatchTitle != "" {
		diag = "best candidate: " + u.BestMatchTitle
	}

	return []string{
		u.Video.VideoID,
		u.Video.Title,
		u.Video.DateString(),
		u.Video.URL,
		u.Video.Committee,
		"",
		"",
		"",
		"",
		fmt.Sprintf("%.2f", u.BestScore),
		"",
		diag,
		"",
		"",
		"Unmatched",
	}
}
