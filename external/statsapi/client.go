// Package statsapi is the MLB Stats API client: schedule by date, live
// game feeds, and person lookups with season pitching stats. The API is
// public and unauthenticated; resilience (timeouts, bounded retries,
// circuit breaking, request deduplication) still applies because slate
// requests fan out into many feed fetches.
package statsapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/statline/gameday/internal/domain/feed"
	"github.com/statline/gameday/internal/platform/logging"
	"github.com/statline/gameday/internal/platform/resilience"
)

const (
	DefaultBaseURL = "https://statsapi.mlb.com/api"

	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 6 << 20
)

// ErrNotFound reports a 404 from the upstream API. It carries the domain
// sentinel so callers can match without importing this package.
var ErrNotFound = crerr.Mark(crerr.New("statsapi resource not found"), feed.ErrNotFound)

var errTransient = crerr.New("statsapi transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	breakerEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout <= 0 {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		breakerEnabled: breakerCfg.Enabled,
	}
}

// FetchSchedule returns the day schedule plus the raw payload for
// archival.
func (c *Client) FetchSchedule(ctx context.Context, date string) (*feed.Schedule, []byte, error) {
	query := url.Values{}
	query.Set("sportId", "1")
	query.Set("date", date)

	var schedule feed.Schedule
	raw, err := c.doJSON(ctx, "/v1/schedule", query, &schedule)
	if err != nil {
		return nil, nil, err
	}

	return &schedule, raw, nil
}

// FetchLiveFeed returns the full live document for one game plus the raw
// payload for archival.
func (c *Client) FetchLiveFeed(ctx context.Context, gamePk int64) (*feed.LiveFeed, []byte, error) {
	var doc feed.LiveFeed
	raw, err := c.doJSON(ctx, fmt.Sprintf("/v1.1/game/%d/feed/live", gamePk), nil, &doc)
	if err != nil {
		return nil, nil, err
	}

	return &doc, raw, nil
}

// FetchPersonWithPitchingStats returns a person document hydrated with
// season pitching splits.
func (c *Client) FetchPersonWithPitchingStats(ctx context.Context, playerID int64, season int) (*feed.Person, []byte, error) {
	query := url.Values{}
	query.Set("hydrate", fmt.Sprintf("stats(group=[pitching],type=[season],season=%d)", season))

	var person feed.Person
	raw, err := c.doJSON(ctx, fmt.Sprintf("/v1/people/%d", playerID), query, &person)
	if err != nil {
		return nil, nil, err
	}

	return &person, raw, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) ([]byte, error) {
	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			return nil, fmt.Errorf("statsapi unavailable: %w", err)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	value, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return c.executeRequest(ctx, fullURL)
	})
	if c.breakerEnabled {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else if err == nil {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, err
	}

	raw, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected deduplicated response type %T", value)
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := c.executeOnce(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !stderrors.Is(err, errTransient) {
			break
		}
	}

	c.logger.WarnContext(ctx, "statsapi request failed", "url", fullURL, "error", lastErr)

	return nil, lastErr
}

func (c *Client) executeOnce(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errTransient, err)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		raw := make([]byte, buf.Len())
		copy(raw, buf.B)
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fullURL)
	case isRetryableStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: status %d: %s", errTransient, resp.StatusCode, abbreviateBody(buf.B))
	default:
		return nil, fmt.Errorf("statsapi status %d: %s", resp.StatusCode, abbreviateBody(buf.B))
	}
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func isCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errTransient)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 240 {
		return text[:240] + "..."
	}

	return text
}
