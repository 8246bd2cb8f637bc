// Package ergast fetches paginated collections from an Ergast-compatible
// racing statistics API.
package ergast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// DefaultPageSize matches the upstream default limit.
const DefaultPageSize = 30

// ErrUnexpectedShape is returned when the envelope or the expected table is missing.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// FetchError aborts pagination of one resource. Total is the item count the
// upstream reported before the failure, or 0 if no page was read.
type FetchError struct {
	URL   string
	Total int
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	BaseURL       string
	PageSize      int
	Timeout       time.Duration
	LapTimesDelay time.Duration
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client reads the upstream API one page at a time.
type Client struct {
	baseURL       string
	pageSize      int
	lapTimesDelay time.Duration
	http          *http.Client
	cb            *gobreaker.CircuitBreaker[*MRData]
	log           *zap.Logger
}

func New(opts Options) *Client {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	log := opts.Logger.Named("ergast")

	cb := gobreaker.NewCircuitBreaker[*MRData](gobreaker.Settings{
		Name:        "ergast-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// Malformed payloads say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnexpectedShape)
		},
	})

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		pageSize:      opts.PageSize,
		lapTimesDelay: opts.LapTimesDelay,
		http:          hc,
		cb:            cb,
		log:           log,
	}
}

func (c *Client) pageURL(path string, offset int) string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	q.Set("offset", strconv.Itoa(offset))
	return fmt.Sprintf("%s/%s/?%s", c.baseURL, strings.Trim(path, "/"), q.Encode())
}

// page fetches and decodes a single page through the circuit breaker.
func (c *Client) page(ctx context.Context, reqURL string) (*MRData, error) {
	return c.cb.Execute(func() (*MRData, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Code: resp.StatusCode, URL: reqURL}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return decode(body)
	})
}
