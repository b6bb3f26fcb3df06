package youtube

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// feedBaseURL is the keyless per-channel Atom feed. It returns roughly
// the 15 most recent uploads.
const feedBaseURL = "https://www.youtube.com/feeds/videos.xml"

// livestreamKeywords flag titles and descriptions that look like
// recorded committee proceedings. The feed carries no
// liveStreamingDetails, so classification is heuristic only.
var livestreamKeywords = []string{
	"hearing", "meeting", "briefing", "markup", "committee",
	"subcommittee", "live", "stream", "session", "conference",
	"testimony", "witnesses", "oversight", "investigation",
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// FeedClient fetches channel videos from YouTube's Atom feeds.
type FeedClient struct {
	baseURL string
	http    *http.Client
}

// FeedOption configures a FeedClient.
type FeedOption func(*FeedClient)

// WithFeedBaseURL overrides the feed base URL.
func WithFeedBaseURL(u string) FeedOption {
	return func(c *FeedClient) {
		c.baseURL = u
	}
}

// WithFeedHTTPClient sets a custom *http.Client.
func WithFeedHTTPClient(hc *http.Client) FeedOption {
	return func(c *FeedClient) {
		c.http = hc
	}
}

// NewFeedClient creates an RSS feed client. No API key is required.
func NewFeedClient(opts ...FeedOption) *FeedClient {
	c := &FeedClient{
		baseURL: feedBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	VideoID   string     `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title     string     `xml:"title"`
	Published string     `xml:"published"`
	Links     []atomLink `xml:"link"`
	Group     mediaGroup `xml:"http://search.yahoo.com/mrss/ group"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type mediaGroup struct {
	Description string         `xml:"http://search.yahoo.com/mrss/ description"`
	Community   mediaCommunity `xml:"http://search.yahoo.com/mrss/ community"`
}

type mediaCommunity struct {
	Statistics mediaStatistics `xml:"http://search.yahoo.com/mrss/ statistics"`
}

type mediaStatistics struct {
	Views string `xml:"views,attr"`
}

// ChannelVideos fetches a channel's recent uploads from its Atom feed.
func (c *FeedClient) ChannelVideos(ctx context.Context, channelID string) ([]Video, error) {
	url := fmt.Sprintf("%s?channel_id=%s", c.baseURL, channelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: create feed request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: fetch feed "+channelID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("youtube: feed %s: HTTP %d", channelID, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: read feed body")
	}

	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, eris.Wrap(err, "youtube: parse feed "+channelID)
	}

	videos := make([]Video, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		v := Video{
			ID:          entry.VideoID,
			Title:       entry.Title,
			Description: truncate(entry.Group.Description, 500),
			ChannelID:   channelID,
			URL:         WatchURL(entry.VideoID),
			PublishedAt: parseRFC3339(entry.Published),
			Source:      SourceRSS,
		}
		for _, link := range entry.Links {
			if link.Rel == "alternate" && link.Href != "" {
				v.URL = link.Href
			}
		}
		if views, err := strconv.ParseUint(entry.Group.Community.Statistics.Views, 10, 64); err == nil {
			v.ViewCount = views
		}
		if likely, confidence := ClassifyLivestream(v.Title, v.Description); likely {
			v.WasLive = true
			v.Confidence = confidence
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// ClassifyLivestream reports whether a title and description look like a
// recorded committee proceeding. Titles that also spell out a month name
// get high confidence; spelled-out dates are a strong livestream signal
// on committee channels.
func ClassifyLivestream(title, description string) (bool, LivestreamConfidence) {
	titleLower := strings.ToLower(title)
	descLower := strings.ToLower(description)

	likely := false
	for _, kw := range livestreamKeywords {
		if strings.Contains(titleLower, kw) || strings.Contains(descLower, kw) {
			likely = true
			break
		}
	}
	if !likely {
		return false, ""
	}

	for _, month := range monthNames {
		if strings.Contains(titleLower, month) {
			return true, ConfidenceHigh
		}
	}
	return true, ConfidenceMedium
}
