package matcher

import (
	"time"

	"github.com/capitolstream/hearings-cli/internal/model"
)

// EventIndex holds the full event set plus a date index built once per
// matching run, so per-video candidate selection is a handful of map
// lookups instead of a scan.
type EventIndex struct {
	all    []model.CongressEvent
	byDate map[string][]*model.CongressEvent
}

// NewEventIndex builds the date index over evts. The slice is retained;
// callers must not mutate it during the run.
func NewEventIndex(evts []model.CongressEvent) *EventIndex {
	idx := &EventIndex{
		all:    evts,
		byDate: make(map[string][]*model.CongressEvent),
	}
	for i := range evts {
		e := &evts[i]
		if e.Date == nil {
			continue
		}
		key := e.DateString()
		idx.byDate[key] = append(idx.byDate[key], e)
	}
	return idx
}

// Len returns the size of the full event set.
func (idx *EventIndex) Len() int { return len(idx.all) }

// All returns the full event set.
func (idx *EventIndex) All() []*model.CongressEvent {
	out := make([]*model.CongressEvent, len(idx.all))
	for i := range idx.all {
		out[i] = &idx.all[i]
	}
	return out
}

// Candidates selects plausible events for a video: events on the video's
// date plus an asymmetric offset window of daysBefore days earlier
// through daysAfter days later. The official Congress.gov date usually
// precedes or equals the publish date, so the window leans backward.
//
// When the video has no date, or no events fall inside the window, the
// full event set is returned — costly but correctness-preserving.
func (idx *EventIndex) Candidates(video *model.VideoRecord, daysBefore, daysAfter int) []*model.CongressEvent {
	if !video.HasDate() {
		return idx.All()
	}

	var out []*model.CongressEvent
	for off := -daysBefore; off <= daysAfter; off++ {
		day := video.Date.AddDate(0, 0, off).Format("2006-01-02")
		out = append(out, idx.byDate[day]...)
	}
	if len(out) == 0 {
		return idx.All()
	}
	return out
}

// sameDay reports whether the event falls on the same calendar day as t.
func sameDay(event *model.CongressEvent, t time.Time) bool {
	return event.Date != nil && event.DateString() == t.Format("2006-01-02")
}
