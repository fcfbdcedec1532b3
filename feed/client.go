// Copyright 2025 Skysift Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/skysift/apodex/core"
)

// Defaults for the NASA APOD API.
const (
	DefaultBaseURL       = "https://api.nasa.gov/planetary/apod"
	DefaultAPIKey        = "DEMO_KEY"
	DefaultBaseDelay     = time.Second
	DefaultMaxImageBytes = 32 << 20 // 32 MiB, HD images run large

	defaultHTTPTimeout = 60 * time.Second
)

// Client fetches APOD feed records and image payloads.
// All calls are paced through the client's rate limiter.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	limiter       *RateLimiter
	maxImageBytes int64
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithAPIKey sets the API key. The default DEMO_KEY works but is heavily
// throttled.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseDelay sets the minimum pause between API calls.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(d) }
}

// WithMaxImageBytes caps how large a fetched image may be.
func WithMaxImageBytes(n int64) Option {
	return func(c *Client) { c.maxImageBytes = n }
}

// NewClient creates a feed client with the given options applied over the
// defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:       DefaultBaseURL,
		apiKey:        DefaultAPIKey,
		limiter:       NewRateLimiter(DefaultBaseDelay),
		maxImageBytes: DefaultMaxImageBytes,
		logger:        slog.Default().With("component", "feed"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// feedEntryDTO is the upstream JSON shape of one record.
type feedEntryDTO struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl"`
	MediaType   string `json:"media_type"`
	Copyright   string `json:"copyright"`
}

func (d *feedEntryDTO) toEntry() *core.FeedEntry {
	return &core.FeedEntry{
		Date:        d.Date,
		Title:       d.Title,
		Explanation: d.Explanation,
		URL:         d.URL,
		HDURL:       d.HDURL,
		MediaType:   core.MediaType(d.MediaType),
		Copyright:   d.Copyright,
	}
}

// Fetch retrieves the record for one date ("YYYY-MM-DD").
func (c *Client) Fetch(ctx context.Context, date string) (*core.FeedEntry, error) {
	body, err := c.callAPI(ctx, url.Values{"date": {date}})
	if err != nil {
		return nil, err
	}

	var dto feedEntryDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("decoding feed response: %w", err)
	}
	return dto.toEntry(), nil
}

// FetchRange retrieves records for every date in [start, end], inclusive.
// Both bounds are "YYYY-MM-DD" strings.
func (c *Client) FetchRange(ctx context.Context, start, end string) ([]*core.FeedEntry, error) {
	startDay, err := time.Parse(core.FeedDateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	endDay, err := time.Parse(core.FeedDateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("parsing end date %q: %w", end, err)
	}
	if startDay.After(endDay) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start, end)
	}

	body, err := c.callAPI(ctx, url.Values{
		"start_date": {start},
		"end_date":   {end},
	})
	if err != nil {
		return nil, err
	}

	var dtos []feedEntryDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("decoding feed response: %w", err)
	}
	entries := make([]*core.FeedEntry, len(dtos))
	for i := range dtos {
		entries[i] = dtos[i].toEntry()
	}
	return entries, nil
}

// FetchImage downloads an image and returns its bytes and content type.
// Payloads above the configured cap are rejected with ErrImageTooLarge.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}
	defer c.limiter.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building image request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.limiter.Penalize()
		return nil, "", fmt.Errorf("%w: %s", ErrRateLimited, imageURL)
	case resp.StatusCode != http.StatusOK:
		return nil, "", fmt.Errorf("%w: %d fetching %s", ErrUnexpectedStatus, resp.StatusCode, imageURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading image body: %w", err)
	}
	if int64(len(data)) > c.maxImageBytes {
		return nil, "", fmt.Errorf("%w: %s over %d bytes", ErrImageTooLarge, imageURL, c.maxImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	c.limiter.Reset()
	return data, contentType, nil
}

// callAPI performs one paced GET against the feed endpoint and returns the
// response body.
func (c *Client) callAPI(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	defer c.limiter.Release()

	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling feed API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.limiter.Penalize()
		c.logger.Warn("feed API throttled request", "status", resp.StatusCode)
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: %d from feed API", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading feed response: %w", err)
	}
	c.limiter.Reset()
	return body, nil
}
