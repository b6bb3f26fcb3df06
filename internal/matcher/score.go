package matcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/capitolstream/hearings-cli/internal/config"
	"github.com/capitolstream/hearings-cli/internal/model"
)

// procedural keywords checked for the event-type component. Ordered:
// the first keyword present on both sides wins.
var proceduralKeywords = []string{
	"markup", "hearing", "oversight", "business meeting", "meeting", "briefing",
}

// ScoreResult holds the composite score for one video/event pair plus the
// ordered list of contributing factors, for audit output.
type ScoreResult struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// Scorer computes composite match scores between videos and events.
// Scoring is deterministic: identical inputs produce the same score and
// the same reason list on repeated calls.
type Scorer struct {
	cfg config.MatcherConfig
}

// NewScorer creates a Scorer with the given weights.
func NewScorer(cfg config.MatcherConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the composite score for a video/event pair. The score is
// not clamped to [0, 1]: a distant date contributes a penalty that can
// drive the total negative, actively disqualifying the candidate.
func (s *Scorer) Score(video *model.VideoRecord, event *model.CongressEvent) ScoreResult {
	var score float64
	var reasons []string

	// Date component.
	if video.HasDate() && event.Date != nil {
		d := daysBetween(*video.Date, *event.Date)
		switch {
		case d == 0:
			score += s.cfg.DateWeight
			reasons = append(reasons, fmt.Sprintf("exact date match: %s", video.DateString()))
		case d <= 2:
			score += s.cfg.DateWeight * 0.625
			reasons = append(reasons, fmt.Sprintf("date within 2 days: %s vs %s", video.DateString(), event.DateString()))
		case d <= 7:
			score += s.cfg.DateWeight * 0.25
			reasons = append(reasons, fmt.Sprintf("date within a week: %d days apart", d))
		default:
			// Distant dates actively disqualify, they don't merely fail
			// to help.
			score -= 0.5
			reasons = append(reasons, fmt.Sprintf("date mismatch: %d days apart", d))
		}
	} else {
		reasons = append(reasons, "missing date information")
	}

	// Title similarity component.
	sim := Similarity(Normalize(video.Title), Normalize(event.Title))
	score += sim * s.cfg.TitleWeight
	switch {
	case sim > 0.8:
		reasons = append(reasons, fmt.Sprintf("high title similarity: %.2f", sim))
	case sim > 0.6:
		reasons = append(reasons, fmt.Sprintf("moderate title similarity: %.2f", sim))
	case sim > 0.4:
		reasons = append(reasons, fmt.Sprintf("low title similarity: %.2f", sim))
	}

	// Event-type / keyword component.
	if kw, full := matchKeyword(video, event); kw != "" {
		if full {
			score += s.cfg.KeywordWeight
		} else {
			score += s.cfg.KeywordWeight * 0.5
		}
		reasons = append(reasons, fmt.Sprintf("event type match: %s", kw))
	}

	return ScoreResult{Score: score, Reasons: reasons}
}

// TitleSimilarity exposes the normalized title ratio used by the
// same-day re-ranking pass.
func (s *Scorer) TitleSimilarity(video *model.VideoRecord, event *model.CongressEvent) float64 {
	return Similarity(Normalize(video.Title), Normalize(event.Title))
}

// matchKeyword returns the first procedural keyword appearing in both the
// video title and the event. Full credit requires the keyword in the
// event's type field; keyword only in the event title earns partial
// credit.
func matchKeyword(video *model.VideoRecord, event *model.CongressEvent) (kw string, full bool) {
	vt := strings.ToLower(video.Title)
	et := strings.ToLower(event.EventType)
	el := strings.ToLower(event.Title)

	for _, k := range proceduralKeywords {
		if !strings.Contains(vt, k) {
			continue
		}
		if et != "" && strings.Contains(et, k) {
			return k, true
		}
		if strings.Contains(el, k) {
			return k, false
		}
	}
	return "", false
}

// daysBetween returns the absolute difference in calendar days between
// two timestamps, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(ad.Sub(bd).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}
