package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uniqwrites/secnews/internal/logging"
	"github.com/uniqwrites/secnews/internal/query"
)

const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultTimeout       = 10 * time.Second
	DefaultScrapeTimeout = 60 * time.Second
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// Options tunes a Client. Zero values take the defaults.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	ScrapeTimeout time.Duration
	HTTPClient    *http.Client
}

// Client talks to the security news backend.
type Client struct {
	base          *url.URL
	http          *http.Client
	timeout       time.Duration
	scrapeTimeout time.Duration
	log           *slog.Logger
}

func New(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url scheme must be http or https, got %q", base.Scheme)
	}

	c := &Client{
		base:          base,
		http:          opts.HTTPClient,
		timeout:       opts.Timeout,
		scrapeTimeout: opts.ScrapeTimeout,
		log:           logging.For("api"),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.scrapeTimeout <= 0 {
		c.scrapeTimeout = DefaultScrapeTimeout
	}
	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.base.String() }

// Articles fetches one page of the feed for the descriptor.
func (c *Client) Articles(ctx context.Context, d query.Descriptor) ([]Article, error) {
	var resp articlesResponse
	if err := c.get(ctx, "articles", "/api/articles", d.Values(), &resp); err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

func (c *Client) Sources(ctx context.Context) ([]string, error) {
	var resp sourcesResponse
	if err := c.get(ctx, "sources", "/api/sources", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sources, nil
}

func (c *Client) Locations(ctx context.Context) ([]string, error) {
	var resp locationsResponse
	if err := c.get(ctx, "locations", "/api/locations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

func (c *Client) IncidentTypes(ctx context.Context) ([]string, error) {
	var resp incidentTypesResponse
	if err := c.get(ctx, "incident types", "/api/incident-types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.IncidentTypes, nil
}

// Statistics fetches the aggregate snapshot for the last days days. Any
// positive day count is passed through.
func (c *Client) Statistics(ctx context.Context, days int) (*Statistics, error) {
	if days <= 0 {
		return nil, fmt.Errorf("statistics: days must be positive, got %d", days)
	}
	params := url.Values{}
	params.Set("days", strconv.Itoa(days))

	var stats Statistics
	if err := c.get(ctx, "statistics", "/api/statistics", params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TriggerScrape asks the backend to re-collect every source and blocks until
// it answers or the scrape timeout expires.
func (c *Client) TriggerScrape(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.scrapeTimeout)
	defer cancel()

	resp, err := c.do(ctx, "scrape", http.MethodPost, "/api/scrape-now", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, op, http.MethodGet, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// do sends the request and returns the response only for 2xx statuses.
func (c *Client) do(ctx context.Context, op, method, path string, params url.Values) (*http.Response, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	log := c.log.With("op", op, "method", method, "path", path, "request_id", reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("%s: %w", op, describe(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		log.Warn("unexpected status", "status", resp.StatusCode, "duration", time.Since(start))
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	log.Debug("request done", "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

// describe turns a deadline into a readable error while keeping the chain.
func describe(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
