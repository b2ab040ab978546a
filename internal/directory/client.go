package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/raphi011/locsel/internal/log"
)

// Defaults for Options fields left zero.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultRetryWaitMin = 250 * time.Millisecond
	DefaultRetryWaitMax = 2 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Style   string

	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration

	// Retries is the number of retries after a connection error.
	Retries int

	// HTTPClient overrides the underlying client. Its Timeout is replaced
	// by the Timeout option.
	HTTPClient *http.Client

	// Logger receives retry diagnostics. Nil disables them.
	Logger *log.Logger
}

// Client fetches location lists from a directory service.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	endpoints Endpoints
	http      *retryablehttp.Client
}

// New creates a client for the service at opts.BaseURL.
func New(opts Options) (*Client, error) {
	endpoints, err := NewEndpoints(opts.BaseURL, opts.Style)
	if err != nil {
		return nil, err
	}
	if opts.Retries < 0 {
		return nil, fmt.Errorf("invalid retries %d: must not be negative", opts.Retries)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = timeout

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = opts.Retries
	rc.RetryWaitMin = DefaultRetryWaitMin
	rc.RetryWaitMax = DefaultRetryWaitMax
	rc.CheckRetry = retryConnectionErrors
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if opts.Logger != nil {
		rc.Logger = &retryLogger{logger: opts.Logger}
	}

	return &Client{endpoints: endpoints, http: rc}, nil
}

// Endpoints returns the URL builder used by the client.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Countries fetches the country list.
func (c *Client) Countries(ctx context.Context) ([]string, error) {
	return c.FetchList(ctx, c.endpoints.Countries())
}

// States fetches the states of country.
func (c *Client) States(ctx context.Context, country string) ([]string, error) {
	return c.FetchList(ctx, c.endpoints.States(country))
}

// Cities fetches the cities of state in country.
func (c *Client) Cities(ctx context.Context, country, state string) ([]string, error) {
	return c.FetchList(ctx, c.endpoints.Cities(country, state))
}

// FetchList GETs url and returns the normalized list.
func (c *Client) FetchList(ctx context.Context, url string) ([]string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	done := log.FromContext(ctx).Request(http.MethodGet, url)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		done(0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	done(resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return NormalizeJSON(data)
}

// retryConnectionErrors retries transport failures only. HTTP statuses
// are returned to the caller as-is.
func retryConnectionErrors(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil {
		return false, nil
	}
	msg := err.Error()
	for _, s := range retryableErrors {
		if strings.Contains(msg, s) {
			return true, nil
		}
	}
	return false, nil
}

var retryableErrors = []string{
	"EOF",
	"connection reset",
	"connection refused",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
}

// retryLogger adapts log.Logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	logger *log.Logger
}

func (r *retryLogger) Error(msg string, keysAndValues ...any) {
	r.logger.Debug("retry: "+msg, keysAndValues...)
}

func (r *retryLogger) Info(msg string, keysAndValues ...any) {
	r.logger.Debug("retry: "+msg, keysAndValues...)
}

func (r *retryLogger) Debug(msg string, keysAndValues ...any) {
	r.logger.Debug("retry: "+msg, keysAndValues...)
}

func (r *retryLogger) Warn(msg string, keysAndValues ...any) {
	r.logger.Debug("retry: "+msg, keysAndValues...)
}
