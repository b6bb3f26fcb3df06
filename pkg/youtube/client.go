package youtube

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// searchPageSize is the Data API's maximum page size for search.list.
const searchPageSize = 50

// DataAPIClient fetches completed livestreams through the YouTube Data
// API v3. Search costs 100 quota units per page, so callers should cap
// maxResults per channel.
type DataAPIClient struct {
	svc     *yt.Service
	limiter *rate.Limiter
}

// DataAPIOption configures a DataAPIClient.
type DataAPIOption func(*dataAPISettings)

type dataAPISettings struct {
	rps      float64
	endpoint string
}

// WithDataAPIRateLimit caps request throughput in requests per second.
func WithDataAPIRateLimit(rps float64) DataAPIOption {
	return func(s *dataAPISettings) {
		s.rps = rps
	}
}

// WithDataAPIEndpoint overrides the API endpoint.
func WithDataAPIEndpoint(u string) DataAPIOption {
	return func(s *dataAPISettings) {
		s.endpoint = u
	}
}

// NewDataAPIClient creates a Data API client with key auth.
func NewDataAPIClient(ctx context.Context, apiKey string, opts ...DataAPIOption) (*DataAPIClient, error) {
	settings := dataAPISettings{rps: 2}
	for _, opt := range opts {
		opt(&settings)
	}

	svcOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if settings.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(settings.endpoint))
	}

	svc, err := yt.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: create service")
	}
	return &DataAPIClient{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(settings.rps), 1),
	}, nil
}

// CompletedLivestreams pages through a channel's completed live events,
// newest first, up to maxResults videos. Only videos carrying
// liveStreamingDetails are returned.
func (c *DataAPIClient) CompletedLivestreams(ctx context.Context, channelID string, maxResults int) ([]Video, error) {
	var videos []Video
	pageToken := ""

	for len(videos) < maxResults {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "youtube: rate limit wait")
		}

		search, err := c.svc.Search.List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			EventType("completed").
			Order("date").
			MaxResults(searchPageSize).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, eris.Wrap(err, "youtube: search channel "+channelID)
		}
		if len(search.Items) == 0 {
			break
		}

		ids := make([]string, 0, len(search.Items))
		for _, item := range search.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				ids = append(ids, item.Id.VideoId)
			}
		}

		details, err := c.videoDetails(ctx, ids)
		if err != nil {
			return nil, err
		}
		videos = append(videos, details...)

		if search.NextPageToken == "" {
			break
		}
		pageToken = search.NextPageToken
	}

	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}
	return videos, nil
}

func (c *DataAPIClient) videoDetails(ctx context.Context, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "youtube: rate limit wait")
	}

	resp, err := c.svc.Videos.List([]string{"snippet", "liveStreamingDetails", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrap(err, "youtube: get video details")
	}

	var videos []Video
	for _, v := range resp.Items {
		if v.LiveStreamingDetails == nil {
			continue
		}
		video := Video{
			ID:         v.Id,
			URL:        WatchURL(v.Id),
			WasLive:    true,
			Confidence: ConfidenceHigh,
			Source:     SourceDataAPI,
		}
		if v.Snippet != nil {
			video.Title = v.Snippet.Title
			video.Description = truncate(v.Snippet.Description, 500)
			video.ChannelID = v.Snippet.ChannelId
			video.PublishedAt = parseRFC3339(v.Snippet.PublishedAt)
		}
		if v.ContentDetails != nil {
			if d, err := ParseISODuration(v.ContentDetails.Duration); err == nil {
				video.Duration = d
			}
		}
		if v.Statistics != nil {
			video.ViewCount = v.Statistics.ViewCount
		}
		video.StreamStart = parseRFC3339(v.LiveStreamingDetails.ActualStartTime)
		videos = append(videos, video)
	}
	return videos, nil
}

func parseRFC3339(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
