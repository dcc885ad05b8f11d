// Package transport provides the HTTP client shared by the upstream
// data sources, with bounded retries for transient failures and a
// flat-file response cache so repeated runs do not hammer public APIs.
package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/beaconpay/beaconpay/pkg/constants"
	"github.com/beaconpay/beaconpay/pkg/errors"
	"github.com/beaconpay/beaconpay/pkg/logging"
)

// Client wraps http.Client with retries and JSON decoding.
type Client struct {
	http    *http.Client
	retries int
	backoff time.Duration
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetries sets the retry budget for transient failures.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithHTTPClient replaces the underlying http.Client, for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a transport client with the default timeout and retry
// budget.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: constants.DefaultHTTPTimeout},
		retries: constants.MaxRetries,
		backoff: constants.RetryBackoff,
		logger:  *logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches a URL and returns the response body. Responses with
// status 429 or 5xx are retried with exponential backoff until the
// retry budget is spent; other non-200 statuses fail immediately.
func (c *Client) Get(ctx context.Context, source, url string) ([]byte, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.logger.Debug().
				Str("source", source).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > constants.MaxRetryBackoff {
				backoff = constants.MaxRetryBackoff
			}
		}

		body, err := c.get(ctx, source, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !errors.IsRateLimited(err) && !errors.IsSourceUnavailable(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, source, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI(source, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapAPI(source, 0, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side only

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &errors.APIError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Message:    truncate(string(body), 200),
			Endpoint:   url,
		}
	}

	return body, nil
}

// GetJSON fetches a URL and decodes the JSON response into target.
func (c *Client) GetJSON(ctx context.Context, source, url string, target any) error {
	body, err := c.Get(ctx, source, url)
	if err != nil {
		return err
	}
	return DecodeJSON(source, url, body, target)
}

// DecodeJSON unmarshals a fetched body into target.
func DecodeJSON(source, url string, body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", url, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
