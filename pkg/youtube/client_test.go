package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletedLivestreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			assert.Equal(t, "UC5s1kIfkfWbap31d5ef-VtQ", r.URL.Query().Get("channelId"))
			assert.Equal(t, "completed", r.URL.Query().Get("eventType"))
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			assert.Equal(t, "date", r.URL.Query().Get("order"))
			fmt.Fprint(w, `{
				"items": [
					{"id": {"videoId": "livevideo01"}},
					{"id": {"videoId": "uploadonly1"}}
				]
			}`)
		case strings.HasSuffix(r.URL.Path, "/videos"):
			assert.Contains(t, r.URL.Query().Get("id"), "livevideo01")
			fmt.Fprint(w, `{
				"items": [
					{
						"id": "livevideo01",
						"snippet": {
							"title": "Oversight Hearing on Grid Reliability",
							"description": "The Subcommittee on Energy holds a hearing.",
							"channelId": "UC5s1kIfkfWbap31d5ef-VtQ",
							"publishedAt": "2024-04-10T18:00:00Z"
						},
						"contentDetails": {"duration": "PT2H15M"},
						"statistics": {"viewCount": "9001"},
						"liveStreamingDetails": {"actualStartTime": "2024-04-10T14:03:00Z"}
					},
					{
						"id": "uploadonly1",
						"snippet": {"title": "Trailer", "channelId": "UC5s1kIfkfWbap31d5ef-VtQ"}
					}
				]
			}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewDataAPIClient(context.Background(), "test-key",
		WithDataAPIEndpoint(srv.URL),
		WithDataAPIRateLimit(1000),
	)
	require.NoError(t, err)

	videos, err := c.CompletedLivestreams(context.Background(), "UC5s1kIfkfWbap31d5ef-VtQ", 100)
	require.NoError(t, err)

	// Only the video with liveStreamingDetails survives.
	require.Len(t, videos, 1)
	v := videos[0]
	assert.Equal(t, "livevideo01", v.ID)
	assert.Equal(t, "Oversight Hearing on Grid Reliability", v.Title)
	assert.True(t, v.WasLive)
	assert.Equal(t, ConfidenceHigh, v.Confidence)
	assert.Equal(t, SourceDataAPI, v.Source)
	assert.Equal(t, uint64(9001), v.ViewCount)
	require.NotNil(t, v.StreamStart)
	assert.Equal(t, "2024-04-10", v.StreamStart.Format("2006-01-02"))
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, "2024-04-10", v.PublishedAt.Format("2006-01-02"))
	assert.Equal(t, "https://www.youtube.com/watch?v=livevideo01", v.URL)
}

func TestCompletedLivestreamsCapsResults(t *testing.T) {
	page := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			page++
			fmt.Fprintf(w, `{
				"items": [{"id": {"videoId": "vid%08d"}}],
				"nextPageToken": "page-%d"
			}`, page, page)
		case strings.HasSuffix(r.URL.Path, "/videos"):
			id := r.URL.Query().Get("id")
			fmt.Fprintf(w, `{
				"items": [{
					"id": %q,
					"snippet": {"title": "Hearing"},
					"liveStreamingDetails": {"actualStartTime": "2024-01-01T00:00:00Z"}
				}]
			}`, id)
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewDataAPIClient(context.Background(), "test-key",
		WithDataAPIEndpoint(srv.URL),
		WithDataAPIRateLimit(1000),
	)
	require.NoError(t, err)

	videos, err := c.CompletedLivestreams(context.Background(), "UCany", 3)
	require.NoError(t, err)
	assert.Len(t, videos, 3)
}
