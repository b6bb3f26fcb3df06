package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/capitolstream/hearings-cli/internal/model"
)

func testReport() *model.MatchReport {
	d1 := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	return &model.MatchReport{
		Metadata: model.ReportMetadata{
			TotalVideos:        2,
			TotalEvents:        5,
			Matched:            1,
			Unmatched:          1,
			MatchRate:          "50.0%",
			AlgorithmicMatches: 0,
			AdjudicatedMatches: 1,
			GeneratedAt:        time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		Matches: []model.MatchResult{
			{
				Video: model.VideoRecord{
					VideoID:    "abc123def45",
					Title:      "Hearing on 340B Drug Pricing",
					Date:       &d1,
					DateSource: model.DateSourceExact,
					URL:        "https://www.youtube.com/watch?v=abc123def45",
					Committee:  "House Energy and Commerce Committee",
				},
				Event: model.CongressEvent{
					EventID:  "115538",
					Congress: 118,
					Title:    "Examining the 340B Drug Pricing Program",
					Date:     &d1,
					Chamber:  "House",
				},
				Score:   0.52,
				Reasons: []string{"date within 0 days", "title similarity 0.71"},
				Method:  model.MatchMethodAdjudicated,
				Adjudication: &model.Adjudication{
					EventID:    "115538",
					Confidence: model.AdjudicationHigh,
					Reasoning:  "Exact date and subject match.",
				},
			},
		},
		Unmatched: []model.Unmatched{
			{
				Video: model.VideoRecord{
					VideoID:    "zzz999zzz99",
					Title:      "Member Press Conference",
					Date:       &d2,
					DateSource: model.DateSourceApproximate,
					URL:        "https://www.youtube.com/watch?v=zzz999zzz99",
					Committee:  "House Judiciary Committee",
				},
				BestScore:      0.21,
				BestMatchTitle: "Markup of H.R. 1234",
			},
		},
	}
}

func TestWriteLoadJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "matches.json")
	orig := testReport()

	require.NoError(t, WriteJSON(orig, path))

	got, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, orig.Metadata.MatchRate, got.Metadata.MatchRate)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "abc123def45", got.Matches[0].Video.VideoID)
	assert.Equal(t, "115538", got.Matches[0].Event.EventID)
	require.NotNil(t, got.Matches[0].Adjudication)
	assert.Equal(t, model.AdjudicationHigh, got.Matches[0].Adjudication.Confidence)
	require.Len(t, got.Unmatched, 1)
	assert.Equal(t, 0.21, got.Unmatched[0].BestScore)
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, ExportCSV(testReport(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvColumns, records[0])

	matched := records[1]
	assert.Equal(t, "abc123def45", matched[0])
	assert.Equal(t, "2024-03-12", matched[2])
	assert.Equal(t, "115538", matched[5])
	assert.Equal(t, "0.52", matched[9])
	assert.Equal(t, "llm_adjudicated", matched[10])
	assert.Equal(t, "date within 0 days | title similarity 0.71", matched[11])
	assert.Equal(t, "high", matched[12])
	assert.Equal(t, "Matched", matched[14])

	unmatched := records[2]
	assert.Equal(t, "zzz999zzz99", unmatched[0])
	assert.Empty(t, unmatched[5])
	assert.Equal(t, "0.21", unmatched[9])
	assert.Equal(t, "best candidate: Markup of H.R. 1234", unmatched[11])
	assert.Equal(t, "Unmatched", unmatched[14])
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.xlsx")
	require.NoError(t, ExportXLSX(testReport(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)

	matches, ok := f.Sheet["Matches"]
	require.True(t, ok)
	require.Len(t, matches.Rows, 2)
	assert.Equal(t, "YouTube ID", matches.Rows[0].Cells[0].String())
	assert.Equal(t, "abc123def45", matches.Rows[1].Cells[0].String())
	assert.Equal(t, "115538", matches.Rows[1].Cells[5].String())

	unmatched, ok := f.Sheet["Unmatched"]
	require.True(t, ok)
	require.Len(t, unmatched.Rows, 2)
	assert.Equal(t, "zzz999zzz99", unmatched.Rows[1].Cells[0].String())

	summary, ok := f.Sheet["Summary"]
	require.True(t, ok)
	assert.Equal(t, "Generated", summary.Rows[0].Cells[0].String())
	assert.Equal(t, "50.0%", summary.Rows[5].Cells[1].String())
}

func TestExportHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.html")
	require.NoError(t, ExportHTML(testReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, "Hearing on 340B Drug Pricing")
	assert.Contains(t, page, "Examining the 340B Drug Pricing Program")
	assert.Contains(t, page, "https://www.youtube.com/watch?v=abc123def45")
	assert.Contains(t, page, "Member Press Conference")
	assert.Contains(t, page, "50.0%")
	assert.Contains(t, page, "LLM (high)")
}

func TestRenderHTMLMatchesExport(t *testing.T) {
	r := testReport()
	rendered, err := RenderHTML(r)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "viewer.html")
	require.NoError(t, ExportHTML(r, path))
	fromDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fromDisk, rendered)
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable(testReport())
	assert.Contains(t, out, "Match rate")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "LLM adjudicated")
}

func TestMatchesTableLimit(t *testing.T) {
	r := testReport()
	extra := r.Matches[0]
	extra.Video.Title = "Second Hearing Entry"
	r.Matches = append(r.Matches, extra)

	out := MatchesTable(r, 1)
	assert.Contains(t, out, "Hearing on 340B Drug Pricing")
	assert.False(t, strings.Contains(out, "Second Hearing Entry"))
}
