package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnsupportedScheme is returned for media sources that are not
// plain http or https URLs.
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// Fetcher retrieves remote media bytes.
type Fetcher interface {
	Run(ctx context.Context, src string) ([]byte, error)
}

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher fetches media over HTTP with a bounded per-fetch timeout
// and a global rate limit on outbound requests.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	timeout   time.Duration
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration, perSecond float64, userAgent string) *HTTPFetcher {
	if perSecond <= 0 {
		perSecond = 1
	}

	return &HTTPFetcher{
		client:    &http.Client{},
		limiter:   rate.NewLimiter(rate.Limit(perSecond), 1),
		timeout:   timeout,
		userAgent: userAgent,
	}
}

func (f *HTTPFetcher) Run(ctx context.Context, src string) ([]byte, error) {
	parsed, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid media url %q: %w", src, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, src)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
