package model

import "time"

// MatchMethod records how a match was accepted.
type MatchMethod string

const (
	MatchMethodAlgorithmic MatchMethod = "algorithmic"
	MatchMethodAdjudicated MatchMethod = "llm_adjudicated"
)

// AdjudicationConfidence is the confidence label returned by the
// external adjudicator.
type AdjudicationConfidence string

const (
	AdjudicationHigh   AdjudicationConfidence = "high"
	AdjudicationMedium AdjudicationConfidence = "medium"
	AdjudicationLow    AdjudicationConfidence = "low"
)

// Adjudication preserves the adjudicator's decision for auditability.
// The reasoning text never alters the score retroactively.
type Adjudication struct {
	EventID    string                 `json:"event_id"`
	Confidence AdjudicationConfidence `json:"confidence"`
	Reasoning  string                 `json:"reasoning"`
}

// MatchResult pairs one video with exactly one accepted event. All other
// candidates are implicitly rejected by the best-score-wins rule.
type MatchResult struct {
	Video        VideoRecord   `json:"video"`
	Event        CongressEvent `json:"event"`
	Score        float64       `json:"score"`
	Reasons      []string      `json:"reasons"`
	Method       MatchMethod   `json:"method"`
	Adjudication *Adjudication `json:"adjudication,omitempty"`
}

// Unmatched records a video that found no acceptable event, with the
// best candidate retained for diagnostics. Never an empty result: a
// video with no candidates at all still produces an Unmatched entry.
type Unmatched struct {
	Video          VideoRecord `json:"video"`
	BestScore      float64     `json:"best_score"`
	BestMatchTitle string      `json:"best_match_title,omitempty"`
}

// ReportMetadata summarizes a matching run.
type ReportMetadata struct {
	TotalVideos        int       `json:"total_youtube_videos"`
	TotalEvents        int       `json:"total_congress_events"`
	Matched            int       `json:"matched"`
	Unmatched          int       `json:"unmatched"`
	MatchRate          string    `json:"match_rate"`
	AlgorithmicMatches int       `json:"algorithmic_matches"`
	AdjudicatedMatches int       `json:"llm_adjudicated_matches"`
	GeneratedAt        time.Time `json:"timestamp"`
}

// MatchReport is the single structured document emitted by a matching
// run. Downstream consumers (CSV, XLSX, HTML viewer, serve API) read
// this document only.
type MatchReport struct {
	Metadata  ReportMetadata `json:"metadata"`
	Matches   []MatchResult  `json:"matches"`
	Unmatched []Unmatched    `json:"unmatched"`
}
