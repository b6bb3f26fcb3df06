package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const channelPageFixture = `<!DOCTYPE html>
<html>
<head><title>House Committee on Energy and Commerce - YouTube</title></head>
<body>
<script>
var ytInitialData = {"contents":[
  {"videoRenderer":{"videoId":"aaaaaaaaaaa","title":{"runs":[{"text":"Health Hearing"}]},"publishedTimeText":{"simpleText":"Streamed 3 days ago"}}},
  {"videoRenderer":{"videoId":"bbbbbbbbbbb","title":{"runs":[{"text":"Markup"}]},"publishedTimeText":{"simpleText":"2 weeks ago"}}}
]};
</script>
<a id="video-title" href="/watch?v=aaaaaaaaaaa">Health Subcommittee Hearing</a>
<a id="video-title" href="/watch?v=ccccccccccc">Energy Subcommittee Markup</a>
<a href="/watch?v=ddddddddddd">plain link</a>
</body>
</html>`

func TestScrapeChannelVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, channelPageFixture)
	}))
	t.Cleanup(srv.Close)

	s := NewScraper()
	videos, err := s.ChannelVideos(context.Background(), srv.URL+"/@HouseCommerce/videos")
	require.NoError(t, err)
	require.Len(t, videos, 4)

	byID := make(map[string]ScrapedVideo)
	for _, v := range videos {
		byID[v.VideoID] = v
	}

	// From ytInitialData: relative date with the Streamed prefix split off.
	a := byID["aaaaaaaaaaa"]
	assert.Equal(t, "3 days ago", a.RelativeDate)
	assert.True(t, a.Streamed)
	assert.Equal(t, "Health Subcommittee Hearing", a.Title)

	b := byID["bbbbbbbbbbb"]
	assert.Equal(t, "2 weeks ago", b.RelativeDate)
	assert.False(t, b.Streamed)

	// From rendered anchors only: title but no date.
	c := byID["ccccccccccc"]
	assert.Equal(t, "Energy Subcommittee Markup", c.Title)
	assert.Empty(t, c.RelativeDate)

	// From bare watch links: ID only.
	assert.Contains(t, byID, "ddddddddddd")
}

func TestScrapeChannelVideosHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	s := NewScraper()
	_, err := s.ChannelVideos(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestScrapeChannelVideosDeduplicates(t *testing.T) {
	page := `<html><body>
<a href="/watch?v=aaaaaaaaaaa">one</a>
<a href="/watch?v=aaaaaaaaaaa">one again</a>
<a href="/watch?v=bbbbbbbbbbb">two</a>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)

	s := NewScraper()
	videos, err := s.ChannelVideos(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}
