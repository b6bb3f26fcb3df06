package youtube

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// scrapeUserAgent mimics a desktop browser. YouTube serves a stripped
// page to unknown agents.
const scrapeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	watchLinkRe = regexp.MustCompile(`/watch\?v=([a-zA-Z0-9_-]{11})`)
	// videoRendererRe pairs each videoId in ytInitialData with the
	// relative date label YouTube renders next to it.
	videoRendererRe = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})".*?"simpleText":"((?:Streamed )?\d+ (?:hours?|days?|weeks?|months?|years?) ago)"`)
)

// ScrapedVideo is a video discovered on a channel page. The page only
// exposes relative upload ages, so dates are approximate.
type ScrapedVideo struct {
	VideoID      string
	Title        string
	RelativeDate string
	Streamed     bool
}

// Scraper extracts video listings from channel HTML pages without an
// API key. YouTube loads most of a channel dynamically, so the scrape
// sees only the initial render.
type Scraper struct {
	http *http.Client
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithScraperHTTPClient sets a custom *http.Client.
func WithScraperHTTPClient(hc *http.Client) ScraperOption {
	return func(s *Scraper) {
		s.http = hc
	}
}

// NewScraper creates a channel page scraper.
func NewScraper(opts ...ScraperOption) *Scraper {
	s := &Scraper{
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChannelVideos scrapes a channel videos page for video IDs and the
// relative dates embedded in the initial page data.
func (s *Scraper) ChannelVideos(ctx context.Context, channelURL string) ([]ScrapedVideo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: create scrape request")
	}
	req.Header.Set("User-Agent", scrapeUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: scrape channel "+channelURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New("youtube: scrape channel " + channelURL + ": HTTP " + resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: parse channel page")
	}

	videos := parseChannelPage(doc)
	zap.L().Debug("youtube: scraped channel page",
		zap.String("url", channelURL),
		zap.Int("videos", len(videos)),
	)
	return videos, nil
}

// parseChannelPage pulls videos from a channel page document. It reads
// the ytInitialData script first for videoId/date pairs, then falls back
// to rendered video-title anchors and bare watch links.
func parseChannelPage(doc *goquery.Document) []ScrapedVideo {
	byID := make(map[string]*ScrapedVideo)
	var order []string

	record := func(id string) *ScrapedVideo {
		if v, ok := byID[id]; ok {
			return v
		}
		v := &ScrapedVideo{VideoID: id}
		byID[id] = v
		order = append(order, id)
		return v
	}

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if !strings.Contains(text, "ytInitialData") {
			return
		}
		for _, m := range videoRendererRe.FindAllStringSubmatch(text, -1) {
			v := record(m[1])
			label := m[2]
			if strings.HasPrefix(label, "Streamed ") {
				v.Streamed = true
				label = strings.TrimPrefix(label, "Streamed ")
			}
			v.RelativeDate = label
		}
	})

	// Older rendered layouts expose titles as anchors.
	doc.Find("a#video-title").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		m := watchLinkRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		v := record(m[1])
		if title := strings.TrimSpace(sel.Text()); title != "" {
			v.Title = title
		}
	})

	// Last resort: any watch link in the raw HTML.
	html, err := doc.Html()
	if err == nil {
		for _, m := range watchLinkRe.FindAllStringSubmatch(html, -1) {
			record(m[1])
		}
	}

	videos := make([]ScrapedVideo, 0, len(order))
	for _, id := range order {
		videos = append(videos, *byID[id])
	}
	return videos
}
