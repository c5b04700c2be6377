package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
)

// Client is a JSON-over-HTTP client for external registry services.
// Every request is rate limited and wrapped in a bounded retry loop
// with exponential backoff; only transport failures and 5xx/429
// responses are retried.
type Client struct {
	name       string
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	headers    map[string]string
	logger     *zap.Logger
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	Timeout      time.Duration
	MaxRetries   int
	Backoff      time.Duration
	RateLimitRPS int
	Headers      map[string]string
}

// New creates a client for the registry service at baseURL. name
// identifies the service in errors and logs.
func New(name, baseURL string, opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		name:    name,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitRPS*2),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		headers:    opts.Headers,
		logger:     logger,
	}
}

// GetJSON issues a GET against path with the given query parameters and
// decodes the response body into dest.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	reqURL := c.baseURL
	if path != "" {
		reqURL += "/" + path
	}
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	backoff := c.backoff

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.NewExternalError(c.name, "rate limiter wait aborted").WithCause(err)
		}

		retryable, err := c.attempt(ctx, reqURL, dest)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err

		if attempt < c.maxRetries {
			c.logger.Warn("registry request failed, retrying",
				zap.String("service", c.name),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return errors.NewExternalError(c.name, "request canceled").WithCause(ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	c.logger.Error("registry request exhausted retries",
		zap.String("service", c.name),
		zap.Int("attempts", c.maxRetries),
		zap.Error(lastErr))
	return errors.NewExternalError(c.name,
		fmt.Sprintf("request failed after %d attempts", c.maxRetries)).WithCause(lastErr)
}

// attempt performs one request. The bool reports whether the failure is
// worth retrying.
func (c *Client) attempt(ctx context.Context, reqURL string, dest interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, errors.NewInternalError("building registry request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and connection failures are equivalent here.
		if ctx.Err() != nil {
			return false, errors.NewExternalError(c.name, "request canceled").WithCause(ctx.Err())
		}
		return true, errors.NewExternalError(c.name, "request failed").WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return false, errors.NewSerializationError("decoding " + c.name + " response").WithCause(err)
		}
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError,
		resp.StatusCode == http.StatusTooManyRequests:
		return true, errors.NewExternalError(c.name,
			fmt.Sprintf("server error: %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return false, errors.NewNotFoundError(c.name, reqURL)
	default:
		return false, errors.NewExternalError(c.name,
			fmt.Sprintf("unexpected status: %d", resp.StatusCode)).
			WithDetails(map[string]interface{}{"status_code": resp.StatusCode})
	}
}
