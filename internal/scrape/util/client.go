package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultUserAgent mimics a desktop browser. Several landlord sites reject
// requests carrying an obvious non-browser agent; the exact value is
// configuration, not protocol.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 6.1; WOW64; Trident/7.0; rv:11.0) like Gecko"

const maxBodyBytes = 8 << 20

// Client is the shared HTTP layer for all source adapters: retrying GETs
// with per-host rate limiting and a fixed User-Agent.
type Client struct {
	hc        *retryablehttp.Client
	limiter   *HostLimiter
	userAgent string
}

type ClientOptions struct {
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

func NewClient(opts ClientOptions) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = nil

	return &Client{
		hc:        rc,
		limiter:   NewHostLimiter(opts.RequestsPerSec, opts.Burst),
		userAgent: opts.UserAgent,
	}
}

// Get fetches rawURL and returns the whole response body. A non-2xx status
// is an error; callers wrap it in their own transport error type.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}
	return io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
}
