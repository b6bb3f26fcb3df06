package model

import (
	"fmt"
	"time"
)

// CongressEvent is the canonical representation of a Congress.gov
// committee meeting. Records are append-only reference data, deduplicated
// by event_id when merging fetch runs: Congress.gov event IDs are unique
// across congresses.
type CongressEvent struct {
	EventID       string     `json:"event_id"`
	Congress      int        `json:"congress"`
	Title         string     `json:"title"`
	Date          *time.Time `json:"date,omitempty"`
	Chamber       string     `json:"chamber,omitempty"`
	CommitteeName string     `json:"committee_name,omitempty"`
	CommitteeCode string     `json:"committee_code,omitempty"`
	EventType     string     `json:"event_type,omitempty"`
	Status        string     `json:"status,omitempty"`
}

// DateString returns the event date as YYYY-MM-DD, or "" when absent.
func (e *CongressEvent) DateString() string {
	if e.Date == nil {
		return ""
	}
	return e.Date.Format("2006-01-02")
}

// CongressURL returns the canonical Congress.gov event page URL, or ""
// when the identifiers needed to build it are missing.
func (e *CongressEvent) CongressURL() string {
	if e.Congress == 0 || e.EventID == "" {
		return ""
	}
	chamber := "house"
	if e.Chamber == "Senate" {
		chamber = "senate"
	}
	return fmt.Sprintf("https://www.congress.gov/event/%dth-congress/%s-event/%s", e.Congress, chamber, e.EventID)
}
