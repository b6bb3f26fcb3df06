package matcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/config"
	"github.com/capitolstream/hearings-cli/internal/model"
)

// Adjudicator resolves ambiguous cases: one video against a short list of
// candidate events. An empty EventID in the returned decision means "no
// good match". Implementations must never be invoked with zero
// candidates; the Matcher enforces that.
type Adjudicator interface {
	Decide(ctx context.Context, video *model.VideoRecord, candidates []*model.CongressEvent) (*model.Adjudication, error)
}

// Matcher pairs videos with events and applies the decision policy.
type Matcher struct {
	cfg    config.MatcherConfig
	scorer *Scorer
	adj    Adjudicator // nil disables adjudication referral
	now    func() time.Time
}

// New creates a Matcher. adj may be nil, in which case the ambiguous band
// degrades directly to unmatched-with-diagnostics.
func New(cfg config.MatcherConfig, adj Adjudicator) *Matcher {
	return &Matcher{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		adj:    adj,
		now:    time.Now,
	}
}

type scoredCandidate struct {
	event  *model.CongressEvent
	result ScoreResult
}

// Run matches every video against the event set and produces the match
// report. The report contains exactly one entry — matched or unmatched —
// per input video: data-quality problems reduce scores, they never drop
// a video from the output.
//
// Videos are processed in reverse-chronological order by date (undated
// videos last), and the report preserves that order.
func (m *Matcher) Run(ctx context.Context, videos []model.VideoRecord, events []model.CongressEvent) *model.MatchReport {
	idx := NewEventIndex(events)

	ordered := make([]model.VideoRecord, len(videos))
	copy(ordered, videos)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := ordered[i].DateString(), ordered[j].DateString()
		return di > dj
	})

	report := &model.MatchReport{}
	for i := range ordered {
		video := &ordered[i]
		m.matchOne(ctx, video, idx, report)
	}

	algo, adjd := 0, 0
	for _, match := range report.Matches {
		if match.Method == model.MatchMethodAdjudicated {
			adjd++
		} else {
			algo++
		}
	}
	rate := 0.0
	if len(ordered) > 0 {
		rate = float64(len(report.Matches)) / float64(len(ordered)) * 100
	}
	report.Metadata = model.ReportMetadata{
		TotalVideos:        len(ordered),
		TotalEvents:        idx.Len(),
		Matched:            len(report.Matches),
		Unmatched:          len(report.Unmatched),
		MatchRate:          fmt.Sprintf("%.1f%%", rate),
		AlgorithmicMatches: algo,
		AdjudicatedMatches: adjd,
		GeneratedAt:        m.now(),
	}

	zap.L().Info("matcher: run complete",
		zap.Int("videos", len(ordered)),
		zap.Int("events", idx.Len()),
		zap.Int("matched", len(report.Matches)),
		zap.Int("algorithmic", algo),
		zap.Int("adjudicated", adjd),
	)

	return report
}

// matchOne scores one video and appends exactly one entry to the report.
func (m *Matcher) matchOne(ctx context.Context, video *model.VideoRecord, idx *EventIndex, report *model.MatchReport) {
	candidates := idx.Candidates(video, m.cfg.WindowDaysBefore, m.cfg.WindowDaysAfter)

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, event := range candidates {
		scored = append(scored, scoredCandidate{event: event, result: m.scorer.Score(video, event)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].result.Score > scored[j].result.Score
	})

	if len(scored) == 0 {
		report.Unmatched = append(report.Unmatched, model.Unmatched{Video: *video})
		return
	}

	best := m.applySameDayOverride(video, scored)

	switch {
	case best.result.Score >= m.cfg.HighThreshold:
		report.Matches = append(report.Matches, model.MatchResult{
			Video:   *video,
			Event:   *best.event,
			Score:   best.result.Score,
			Reasons: best.result.Reasons,
			Method:  model.MatchMethodAlgorithmic,
		})

	case best.result.Score >= m.cfg.LowThreshold:
		if match := m.adjudicate(ctx, video, scored); match != nil {
			report.Matches = append(report.Matches, *match)
			return
		}
		report.Unmatched = append(report.Unmatched, model.Unmatched{
			Video:          *video,
			BestScore:      best.result.Score,
			BestMatchTitle: best.event.Title,
		})

	default:
		report.Unmatched = append(report.Unmatched, model.Unmatched{
			Video:          *video,
			BestScore:      best.result.Score,
			BestMatchTitle: best.event.Title,
		})
	}
}

// applySameDayOverride re-ranks same-day candidates by title similarity.
// When the nominal best match shares the video's date, the most
// title-similar same-day candidate replaces it, provided its similarity
// clears the configured floor. This is a secondary disambiguation pass on
// top of the primary score: committees often run several proceedings on
// one day and the date component cannot separate them.
func (m *Matcher) applySameDayOverride(video *model.VideoRecord, scored []scoredCandidate) scoredCandidate {
	best := scored[0]
	if !video.HasDate() || !sameDay(best.event, *video.Date) {
		return best
	}

	var override *scoredCandidate
	bestSim := -1.0
	for i := range scored {
		sc := &scored[i]
		if !sameDay(sc.event, *video.Date) {
			continue
		}
		if sim := m.scorer.TitleSimilarity(video, sc.event); sim > bestSim {
			bestSim = sim
			override = sc
		}
	}
	if override != nil && bestSim > m.cfg.SameDayTitleFloor {
		return *override
	}
	return best
}

// adjudicate refers the ambiguous band to the external adjudicator.
// Returns nil — meaning unmatched — when adjudication is disabled,
// unavailable, fails, or names an event outside the referred candidates.
func (m *Matcher) adjudicate(ctx context.Context, video *model.VideoRecord, scored []scoredCandidate) *model.MatchResult {
	if m.adj == nil {
		return nil
	}

	limit := m.cfg.MaxAdjudicationCandidates
	if limit <= 0 {
		limit = 10
	}
	tolerance := m.cfg.AdjudicationDateTolerance
	if tolerance <= 0 {
		tolerance = 7
	}

	var referred []scoredCandidate
	for _, sc := range scored {
		if len(referred) >= limit {
			break
		}
		// With a video date, only refer events within the tolerance; the
		// adjudicator cannot be expected to reason about distant dates.
		if video.HasDate() {
			if sc.event.Date == nil || daysBetween(*video.Date, *sc.event.Date) > tolerance {
				continue
			}
		}
		referred = append(referred, sc)
	}

	candidates := make([]*model.CongressEvent, len(referred))
	for i, sc := range referred {
		candidates[i] = sc.event
	}

	if len(candidates) == 0 {
		return nil
	}

	decision, err := m.adj.Decide(ctx, video, candidates)
	if err != nil {
		// Adjudication unavailability is recoverable: fall back to
		// unmatched-with-diagnostics, never fail the run.
		zap.L().Warn("matcher: adjudication unavailable",
			zap.String("video_id", video.VideoID),
			zap.Error(err),
		)
		return nil
	}
	if decision == nil || decision.EventID == "" {
		return nil
	}

	for _, sc := range referred {
		if sc.event.EventID == decision.EventID {
			return &model.MatchResult{
				Video:        *video,
				Event:        *sc.event,
				Score:        sc.result.Score,
				Reasons:      sc.result.Reasons,
				Method:       model.MatchMethodAdjudicated,
				Adjudication: decision,
			}
		}
	}

	// The adjudicator named an event we never referred; treat as no
	// decision.
	zap.L().Warn("matcher: adjudicator returned unknown event",
		zap.String("video_id", video.VideoID),
		zap.String("event_id", decision.EventID),
	)
	return nil
}
