// Package feed fetches the live Hetzner Server Bourse snapshot.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/sb-price-watch/internal/metrics"
	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

// DefaultURL is the public EUR live-data endpoint of the Server Bourse.
const DefaultURL = "https://www.hetzner.com/_resources/app/data/app/live_data_sb_EUR.json"

// DefaultMinInterval is the default spacing between two fetches.
const DefaultMinInterval = 5 * time.Second

// ErrFeedUnavailable wraps every transport, status or decode failure.
var ErrFeedUnavailable = errors.New("feed unavailable")

// ErrServerNotFound is returned by Lookup when the snapshot has no record
// with the requested ID.
var ErrServerNotFound = errors.New("server not found in feed")

// Fetcher retrieves one snapshot of the feed.
type Fetcher interface {
	Fetch(ctx context.Context) (*domain.Snapshot, error)
}

// Lookup fetches one snapshot and returns the record with the given ID.
func Lookup(ctx context.Context, f Fetcher, id int64) (*domain.ServerRecord, error) {
	snap, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	rec := snap.Find(id)
	if rec == nil {
		return nil, fmt.Errorf("server %d: %w", id, ErrServerNotFound)
	}
	return rec, nil
}

// HTTPClient implements Fetcher over HTTP.
type HTTPClient struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithFeedURL overrides the default feed endpoint.
func WithFeedURL(u string) Option {
	return func(c *HTTPClient) {
		c.url = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithRateLimiter shares an existing limiter between clients.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *HTTPClient) {
		c.limiter = l
	}
}

// WithMinInterval spaces fetches at least d apart. Callers block until the
// next slot or until their context is canceled. Zero disables the limit.
func WithMinInterval(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewHTTPClient creates a feed client.
func NewHTTPClient(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		url:    DefaultURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one GET of the feed and decodes it.
func (c *HTTPClient) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := otel.Tracer("sbwatch/feed").Start(ctx, "feed.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", c.url)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	}()

	snap, err := c.fetch(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.FeedErrorsTotal.Inc()
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}

	span.SetAttributes(attribute.Int("feed.servers", len(snap.Servers)))
	metrics.FeedServers.Set(float64(len(snap.Servers)))
	return snap, nil
}

func (c *HTTPClient) fetch(ctx context.Context) (*domain.Snapshot, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing feed request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed error (status %d)", resp.StatusCode)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("parsing feed response: %w", err)
	}

	return &snap, nil
}
