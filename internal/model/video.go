package model

import "time"

// DateSource describes how a video's date was obtained.
type DateSource string

const (
	// DateSourceExact means the date came from authoritative metadata
	// (liveStreamingDetails.actualStartTime or an RSS published timestamp).
	DateSourceExact DateSource = "exact"
	// DateSourceApproximate means the date was derived from relative text
	// such as "3 months ago" on a scraped channel page.
	DateSourceApproximate DateSource = "approximate"
	// DateSourceNone means no date could be determined.
	DateSourceNone DateSource = "none"
)

// LivestreamConfidence is a heuristic label assigned when authoritative
// live-broadcast metadata is unavailable (RSS and scraped sources).
type LivestreamConfidence string

const (
	LivestreamHigh   LivestreamConfidence = "high"
	LivestreamMedium LivestreamConfidence = "medium"
	LivestreamLow    LivestreamConfidence = "low"
)

// VideoRecord is the canonical representation of a committee channel video.
// Every provider (Data API, RSS, HTML scrape) adapts into this shape;
// records are immutable once created except for attaching a resolved date.
type VideoRecord struct {
	VideoID     string     `json:"video_id"`
	Title       string     `json:"title"`
	Date        *time.Time `json:"date,omitempty"`
	DateSource  DateSource `json:"date_source"`
	URL         string     `json:"url"`
	ChannelID   string     `json:"channel_id,omitempty"`
	Committee   string     `json:"committee,omitempty"`
	Description string     `json:"description,omitempty"`
	WasLive     bool       `json:"was_live,omitempty"`

	// Confidence is empty when the provider supplied authoritative
	// liveStreamingDetails and the heuristic was not needed.
	Confidence LivestreamConfidence `json:"livestream_confidence,omitempty"`
}

// DateString returns the video date as YYYY-MM-DD, or "" when absent.
func (v *VideoRecord) DateString() string {
	if v.Date == nil {
		return ""
	}
	return v.Date.Format("2006-01-02")
}

// HasDate reports whether the record carries a usable calendar date.
func (v *VideoRecord) HasDate() bool {
	return v.Date != nil && v.DateSource != DateSourceNone
}
