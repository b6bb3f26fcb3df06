// Package congress is a client for the Congress.gov v3 API, covering the
// committee-meeting endpoints used to build the official event index.
package congress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Default base URL for the Congress.gov v3 API.
const defaultBaseURL = "https://api.congress.gov/v3"

// defaultPageSize is the API's maximum page size.
const defaultPageSize = 250

// Client defines the Congress.gov API operations.
type Client interface {
	// ListMeetings pages through every committee meeting for one
	// committee system code in one congress.
	ListMeetings(ctx context.Context, committeeCode string, congress int) ([]MeetingRef, error)
	// GetMeeting fetches the full record for a single meeting.
	GetMeeting(ctx context.Context, congress int, chamber, eventID string) (*Meeting, error)
}

// MeetingRef is a list-endpoint item. It identifies a meeting without
// carrying its full record.
type MeetingRef struct {
	EventID  string `json:"eventId"`
	Congress int    `json:"congress"`
	Chamber  string `json:"chamber"`
	URL      string `json:"url"`
}

// Meeting is the full committee meeting record from the detail endpoint.
type Meeting struct {
	EventID         string             `json:"eventId"`
	Congress        int                `json:"congress"`
	Date            string             `json:"date"`
	Title           string             `json:"title"`
	Type            string             `json:"type"`
	Chamber         string             `json:"chamber"`
	MeetingStatus   string             `json:"meetingStatus"`
	MeetingLocation map[string]any     `json:"location"`
	Committees      []MeetingCommittee `json:"committees"`
}

// MeetingCommittee identifies a committee associated with a meeting.
type MeetingCommittee struct {
	Name       string `json:"name"`
	SystemCode string `json:"systemCode"`
	URL        string `json:"url"`
}

type meetingListResponse struct {
	CommitteeMeetings []MeetingRef `json:"committeeMeetings"`
	Pagination        struct {
		Count int `json:"count"`
	} `json:"pagination"`
}

type meetingDetailResponse struct {
	CommitteeMeeting Meeting `json:"committeeMeeting"`
}

// APIError is returned when Congress.gov responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("congress: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps request throughput in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithPageSize overrides the list page size. The API caps it at 250.
func WithPageSize(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey   string
	baseURL  string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a new Congress.gov client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ListMeetings(ctx context.Context, committeeCode string, congress int) ([]MeetingRef, error) {
	var all []MeetingRef
	offset := 0

	for {
		path := fmt.Sprintf("/committee/%s/%d/committee-meetings", url.PathEscape(committeeCode), congress)
		query := url.Values{
			"format": {"json"},
			"limit":  {fmt.Sprint(c.pageSize)},
			"offset": {fmt.Sprint(offset)},
		}

		var page meetingListResponse
		if err := c.get(ctx, path, query, &page); err != nil {
			// Some committee/congress pairs have no meetings endpoint.
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return all, nil
			}
			return nil, eris.Wrap(err, fmt.Sprintf("congress: list meetings %s/%d", committeeCode, congress))
		}

		if len(page.CommitteeMeetings) == 0 {
			return all, nil
		}
		all = append(all, page.CommitteeMeetings...)
		offset += c.pageSize
	}
}

func (c *httpClient) GetMeeting(ctx context.Context, congress int, chamber, eventID string) (*Meeting, error) {
	path := fmt.Sprintf("/committee-meeting/%d/%s/%s", congress, url.PathEscape(chamber), url.PathEscape(eventID))
	query := url.Values{"format": {"json"}}

	var resp meetingDetailResponse
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("congress: get meeting %s", eventID))
	}
	return &resp.CommitteeMeeting, nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "rate limit wait")
		}
	}

	query.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
