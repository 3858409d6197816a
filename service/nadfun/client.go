package nadfun

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/b-harvest/agentboard-backend/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnavailable is matched by every error returned from the endpoints: the
// data could not be obtained, which is different from the data being zero.
var ErrUnavailable = errors.New("data unavailable")

type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

var errRateLimited = errors.New("rate limited (429)")

// Client talks to the market API. Its limiter and cache are shared by every
// caller, so one Client should be built per process.
type Client struct {
	cfg     Config
	rc      *resty.Client
	limiter *rate.Limiter
	cache   *ttlCache
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

type ClientOption func(*Client)

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHTTPClient replaces the underlying http.Client. The configured timeout
// still applies.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.rc = resty.NewWithClient(hc)
	}
}

func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		cfg:     cfg,
		rc:      resty.New(),
		limiter: rate.NewLimiter(rate.Limit(cfg.RefillRate), cfg.Burst),
		cache:   newTTLCache(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.metrics == nil {
		c.metrics = observability.Discard()
	}
	c.rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		c.rc.SetHeader("X-API-Key", cfg.APIKey)
	}
	return c
}

// Invalidate drops the cached responses whose key starts with prefix, or all
// of them when prefix is empty.
func (c *Client) Invalidate(prefix string) int {
	return c.cache.invalidate(prefix)
}

// InvalidateToken drops every cached response of a single token.
func (c *Client) InvalidateToken(tokenID string) int {
	n := 0
	for _, p := range []string{tokenPath, marketPath, metricsPath, swapHistoryPath, chartPath} {
		n += c.cache.invalidate(p + tokenID)
	}
	return n
}

// fetch returns the cached value under key or performs the request at path,
// decodes it into T and caches it for ttl.
func fetch[T any](ctx context.Context, c *Client, endpoint, key, path string, ttl time.Duration) (*T, error) {
	if v, ok := c.cache.get(key); ok {
		if t, ok := v.(*T); ok {
			c.metrics.CacheLookups.WithLabelValues(endpoint, "hit").Inc()
			return t, nil
		}
	}
	c.metrics.CacheLookups.WithLabelValues(endpoint, "miss").Inc()
	body, err := c.do(ctx, endpoint, path)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("fetch cancelled", zap.String("path", path))
		} else {
			c.metrics.FetchFailures.WithLabelValues(endpoint).Inc()
			c.logger.Error("failed to fetch", zap.String("path", path), zap.Error(err))
		}
		return nil, &UnavailableError{Path: path, Err: err}
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		c.metrics.FetchFailures.WithLabelValues(endpoint).Inc()
		return nil, &UnavailableError{Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	c.cache.set(key, &v, ttl)
	return &v, nil
}

// do performs a GET with rate limiting and retries. A 429 is retried after
// the server's Retry-After hint without taking another limiter token; other
// failures are retried with a linearly growing backoff.
func (c *Client) do(ctx context.Context, endpoint, path string) ([]byte, error) {
	var lastErr error
	needToken := true
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if needToken {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("wait for rate limiter: %w", err)
			}
		}
		needToken = true
		last := attempt == c.cfg.MaxRetries

		resp, err := c.rc.R().SetContext(ctx).Get(path)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("http request: %w", err)
			c.metrics.HTTPRequests.WithLabelValues(endpoint, "error").Inc()
		case resp.StatusCode() == http.StatusTooManyRequests:
			c.metrics.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()
			c.metrics.RateLimited.WithLabelValues(endpoint).Inc()
			lastErr = errRateLimited
			if last {
				continue
			}
			wait := c.retryAfter(resp.Header().Get("Retry-After"))
			c.logger.Warn("rate limited", zap.String("path", path), zap.Duration("retry_after", wait))
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			needToken = false
			continue
		case !resp.IsSuccess():
			c.metrics.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode())
		default:
			c.metrics.HTTPRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()
			return resp.Body(), nil
		}
		if !last {
			backoff := c.cfg.RetryBackoff * time.Duration(attempt+1)
			c.logger.Warn("retrying request",
				zap.String("path", path), zap.Int("attempt", attempt+1), zap.Duration("backoff", backoff), zap.Error(lastErr))
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func (c *Client) retryAfter(h string) time.Duration {
	if h == "" {
		return c.cfg.DefaultRetryAfter
	}
	if n, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := t.Sub(c.now()); d > 0 {
			return d
		}
		return 0
	}
	return c.cfg.DefaultRetryAfter
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
