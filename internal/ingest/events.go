// Package ingest runs the fetch side of the pipeline: it pulls official
// committee meetings from Congress.gov and committee channel videos
// from YouTube, converts them to pipeline records and persists them.
// Fetch units are checkpointed so an interrupted run resumes where it
// stopped instead of re-spending API quota.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/model"
	"github.com/capitolstream/hearings-cli/internal/resilience"
	"github.com/capitolstream/hearings-cli/internal/store"
	"github.com/capitolstream/hearings-cli/pkg/congress"
)

// EventStats summarizes an event fetch.
type EventStats struct {
	Units   int // committee/congress pairs processed
	Skipped int // pairs skipped via checkpoint
	Fetched int // meetings listed
	Stored  int // events written
	Errors  int // meetings dropped after retries
}

// EventFetcher pulls committee meetings from Congress.gov into the store.
type EventFetcher struct {
	client congress.Client
	store  store.Store
	retry  resilience.RetryConfig
}

// NewEventFetcher creates an EventFetcher.
func NewEventFetcher(client congress.Client, st store.Store, retry resilience.RetryConfig) *EventFetcher {
	return &EventFetcher{client: client, store: st, retry: retry}
}

// Fetch lists and stores every committee meeting for the given committee
// system codes across the given congresses. Completed units are
// checkpointed under "events/<code>/<congress>" and skipped on resume.
// Individual meetings that fail after retries are logged and dropped
// rather than failing the whole fetch.
func (f *EventFetcher) Fetch(ctx context.Context, codes []string, congresses []int) (*EventStats, error) {
	stats := &EventStats{}

	for _, congressNum := range congresses {
		for _, code := range codes {
			key := fmt.Sprintf("events/%s/%d", code, congressNum)

			done, err := f.store.IsCheckpointDone(ctx, key)
			if err != nil {
				return stats, err
			}
			if done {
				stats.Skipped++
				zap.L().Debug("ingest: skipping checkpointed unit", zap.String("key", key))
				continue
			}

			if err := f.fetchUnit(ctx, code, congressNum, stats); err != nil {
				return stats, err
			}

			if err := f.store.MarkCheckpointDone(ctx, key); err != nil {
				return stats, err
			}
			stats.Units++
		}
	}

	zap.L().Info("ingest: event fetch complete",
		zap.Int("units", stats.Units),
		zap.Int("skipped", stats.Skipped),
		zap.Int("fetched", stats.Fetched),
		zap.Int("stored", stats.Stored),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

func (f *EventFetcher) fetchUnit(ctx context.Context, code string, congressNum int, stats *EventStats) error {
	refs, err := resilience.DoVal(ctx, f.retry, "congress.list_meetings", func(ctx context.Context) ([]congress.MeetingRef, error) {
		return f.client.ListMeetings(ctx, code, congressNum)
	})
	if err != nil {
		return eris.Wrap(err, fmt.Sprintf("ingest: list meetings %s/%d", code, congressNum))
	}
	stats.Fetched += len(refs)

	var events []model.CongressEvent
	for _, ref := range refs {
		if ref.EventID == "" {
			continue
		}

		chamber := ref.Chamber
		if chamber == "" {
			chamber = chamberFromCode(code)
		}

		meeting, err := resilience.DoVal(ctx, f.retry, "congress.get_meeting", func(ctx context.Context) (*congress.Meeting, error) {
			return f.client.GetMeeting(ctx, congressNum, chamber, ref.EventID)
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			stats.Errors++
			zap.L().Warn("ingest: dropping meeting after retries",
				zap.String("event_id", ref.EventID),
				zap.Error(err),
			)
			continue
		}

		events = append(events, toEvent(meeting, code, congressNum, chamber))
	}

	stored, err := f.store.UpsertEvents(ctx, events)
	if err != nil {
		return err
	}
	stats.Stored += stored

	zap.L().Info("ingest: fetched committee unit",
		zap.String("committee_code", code),
		zap.Int("congress", congressNum),
		zap.Int("meetings", len(refs)),
		zap.Int("stored", stored),
	)
	return nil
}

// toEvent converts an API meeting record into a pipeline event.
func toEvent(m *congress.Meeting, code string, congressNum int, chamber string) model.CongressEvent {
	ev := model.CongressEvent{
		EventID:       m.EventID,
		Congress:      m.Congress,
		Title:         m.Title,
		Chamber:       m.Chamber,
		CommitteeCode: code,
		EventType:     m.Type,
		Status:        m.MeetingStatus,
	}
	if ev.Congress == 0 {
		ev.Congress = congressNum
	}
	if ev.Chamber == "" {
		ev.Chamber = chamber
	}
	if len(m.Committees) > 0 {
		ev.CommitteeName = m.Committees[0].Name
	}
	ev.Date = parseEventDate(m.Date)
	return ev
}

// parseEventDate extracts the calendar date from an API timestamp. Only
// the date part is meaningful for matching; meeting times are local to
// the Capitol and not always present.
func parseEventDate(s string) *time.Time {
	if len(s) < 10 {
		return nil
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return nil
	}
	return &t
}

// chamberFromCode infers the chamber from a committee system code
// prefix (hs = House, ss = Senate).
func chamberFromCode(code string) string {
	if len(code) >= 2 && code[0] == 's' {
		return "senate"
	}
	return "house"
}
