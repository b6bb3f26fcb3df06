// Package youtube collects committee channel videos through three
// providers with different tradeoffs: the Data API (quota-limited, exact
// livestream timestamps), channel RSS feeds (no key, recent uploads
// only), and channel page scraping (no key, relative dates only).
package youtube

import "time"

// Source identifies which provider produced a video record.
type Source string

const (
	SourceDataAPI Source = "data_api"
	SourceRSS     Source = "rss"
	SourceScrape  Source = "scrape"
)

// LivestreamConfidence grades how likely a video is a recorded committee
// livestream. Providers without liveStreamingDetails fall back to title
// heuristics.
type LivestreamConfidence string

const (
	ConfidenceHigh   LivestreamConfidence = "high"
	ConfidenceMedium LivestreamConfidence = "medium"
	ConfidenceLow    LivestreamConfidence = "low"
)

// Video is one channel video as reported by any provider. StreamStart is
// only set by the Data API; PublishedAt may be an upload date rather
// than the event date.
type Video struct {
	ID          string
	Title       string
	Description string
	ChannelID   string
	URL         string
	PublishedAt *time.Time
	StreamStart *time.Time
	Duration    time.Duration
	ViewCount   uint64
	WasLive     bool
	Confidence  LivestreamConfidence
	Source      Source
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
