package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/capitolstream/hearings-cli/internal/model"
	"github.com/capitolstream/hearings-cli/internal/registry"
	"github.com/capitolstream/hearings-cli/internal/resilience"
	"github.com/capitolstream/hearings-cli/internal/store"
	"github.com/capitolstream/hearings-cli/pkg/youtube"
)

// LivestreamLister is the Data API surface used by the video fetcher.
type LivestreamLister interface {
	CompletedLivestreams(ctx context.Context, channelID string, maxResults int) ([]youtube.Video, error)
}

// FeedLister is the RSS feed surface used by the video fetcher.
type FeedLister interface {
	ChannelVideos(ctx context.Context, channelID string) ([]youtube.Video, error)
}

// ChannelScraper is the page-scrape surface used by the video fetcher.
type ChannelScraper interface {
	ChannelVideos(ctx context.Context, channelURL string) ([]youtube.ScrapedVideo, error)
}

// VideoStats summarizes a video fetch.
type VideoStats struct {
	Channels int
	Skipped  int
	Fetched  int
	Stored   int
	Errors   int // channels dropped after retries
}

// VideoFetcher pulls committee channel videos into the store. Providers
// are optional: a nil Data API client disables the data_api source.
type VideoFetcher struct {
	api     LivestreamLister
	feed    FeedLister
	scraper ChannelScraper
	store   store.Store
	roster  *registry.Roster
	retry   resilience.RetryConfig
	maxPer  int
	now     func() time.Time
}

// NewVideoFetcher creates a VideoFetcher over the given providers.
func NewVideoFetcher(api LivestreamLister, feed FeedLister, scraper ChannelScraper, st store.Store, roster *registry.Roster, retry resilience.RetryConfig, maxPerChannel int) *VideoFetcher {
	if maxPerChannel <= 0 {
		maxPerChannel = 500
	}
	return &VideoFetcher{
		api:     api,
		feed:    feed,
		scraper: scraper,
		store:   st,
		roster:  roster,
		retry:   retry,
		maxPer:  maxPerChannel,
		now:     time.Now,
	}
}

// Fetch collects videos from every roster channel through the named
// source ("data_api", "rss" or "scrape"). Channels that fail after
// retries are logged and dropped. Data API fetches are checkpointed per
// channel because of their quota cost; the keyless sources are cheap
// and always refetched.
func (f *VideoFetcher) Fetch(ctx context.Context, source string) (*VideoStats, error) {
	stats := &VideoStats{}

	for _, ch := range f.roster.Channels() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		checkpointed := source == "data_api"
		key := fmt.Sprintf("videos/%s/%s", source, ch.ID)
		if checkpointed {
			done, err := f.store.IsCheckpointDone(ctx, key)
			if err != nil {
				return stats, err
			}
			if done {
				stats.Skipped++
				continue
			}
		}

		videos, err := f.fetchChannel(ctx, source, ch)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Errors++
			zap.L().Warn("ingest: dropping channel after retries",
				zap.String("source", source),
				zap.String("channel_id", ch.ID),
				zap.String("committee", ch.Committee),
				zap.Error(err),
			)
			continue
		}
		stats.Fetched += len(videos)

		stored, err := f.store.UpsertVideos(ctx, videos)
		if err != nil {
			return stats, err
		}
		stats.Stored += stored

		if checkpointed {
			if err := f.store.MarkCheckpointDone(ctx, key); err != nil {
				return stats, err
			}
		}
		stats.Channels++

		zap.L().Info("ingest: fetched channel",
			zap.String("source", source),
			zap.String("committee", ch.Committee),
			zap.Int("videos", len(videos)),
			zap.Int("stored", stored),
		)
	}

	zap.L().Info("ingest: video fetch complete",
		zap.String("source", source),
		zap.Int("channels", stats.Channels),
		zap.Int("skipped", stats.Skipped),
		zap.Int("fetched", stats.Fetched),
		zap.Int("stored", stats.Stored),
		zap.Int("errors", stats.Errors),
	)
	return stats, nil
}

func (f *VideoFetcher) fetchChannel(ctx context.Context, source string, ch registry.Channel) ([]model.VideoRecord, error) {
	switch source {
	case "data_api":
		if f.api == nil {
			return nil, errNoProvider(source)
		}
		videos, err := resilience.DoVal(ctx, f.retry, "youtube.completed_livestreams", func(ctx context.Context) ([]youtube.Video, error) {
			return f.api.CompletedLivestreams(ctx, ch.ID, f.maxPer)
		})
		if err != nil {
			return nil, err
		}
		return f.toRecords(videos, ch), nil

	case "rss":
		if f.feed == nil {
			return nil, errNoProvider(source)
		}
		videos, err := resilience.DoVal(ctx, f.retry, "youtube.feed", func(ctx context.Context) ([]youtube.Video, error) {
			return f.feed.ChannelVideos(ctx, ch.ID)
		})
		if err != nil {
			return nil, err
		}
		return f.toRecords(videos, ch), nil

	case "scrape":
		if f.scraper == nil {
			return nil, errNoProvider(source)
		}
		url := "https://www.youtube.com/channel/" + ch.ID + "/videos"
		scraped, err := resilience.DoVal(ctx, f.retry, "youtube.scrape", func(ctx context.Context) ([]youtube.ScrapedVideo, error) {
			return f.scraper.ChannelVideos(ctx, url)
		})
		if err != nil {
			return nil, err
		}
		return f.scrapedToRecords(scraped, ch), nil

	default:
		return nil, errNoProvider(source)
	}
}

// toRecords converts provider videos into pipeline records. The
// livestream start time is the event date when present; the publish
// date is the fallback.
func (f *VideoFetcher) toRecords(videos []youtube.Video, ch registry.Channel) []model.VideoRecord {
	records := make([]model.VideoRecord, 0, len(videos))
	for _, v := range videos {
		rec := model.VideoRecord{
			VideoID:     v.ID,
			Title:       v.Title,
			URL:         v.URL,
			ChannelID:   ch.ID,
			Committee:   ch.Committee,
			Description: v.Description,
			WasLive:     v.WasLive,
			Confidence:  model.LivestreamConfidence(v.Confidence),
			DateSource:  model.DateSourceNone,
		}
		if v.StreamStart != nil {
			rec.Date = v.StreamStart
			rec.DateSource = model.DateSourceExact
		} else if v.PublishedAt != nil {
			rec.Date = v.PublishedAt
			rec.DateSource = model.DateSourceExact
		}
		records = append(records, rec)
	}
	return records
}

// scrapedToRecords converts scraped listings. Relative dates parse to
// approximate dates; unparseable ones leave the record dateless.
func (f *VideoFetcher) scrapedToRecords(scraped []youtube.ScrapedVideo, ch registry.Channel) []model.VideoRecord {
	now := f.now()
	records := make([]model.VideoRecord, 0, len(scraped))
	for _, sv := range scraped {
		rec := model.VideoRecord{
			VideoID:    sv.VideoID,
			Title:      sv.Title,
			URL:        youtube.WatchURL(sv.VideoID),
			ChannelID:  ch.ID,
			Committee:  ch.Committee,
			WasLive:    sv.Streamed,
			DateSource: model.DateSourceNone,
		}
		if sv.Streamed {
			rec.Confidence = model.LivestreamHigh
		} else if live, conf := youtube.ClassifyLivestream(sv.Title, ""); live {
			rec.WasLive = true
			rec.Confidence = model.LivestreamConfidence(conf)
		}
		if sv.RelativeDate != "" {
			if d, err := youtube.ParseRelativeDate(sv.RelativeDate, now); err == nil {
				rec.Date = &d
				rec.DateSource = model.DateSourceApproximate
			}
		}
		records = append(records, rec)
	}
	return records
}

type errNoProvider string

func (e errNoProvider) Error() string {
	return "ingest: no provider for source " + string(e)
}
