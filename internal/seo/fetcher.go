package seo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; SEOMaster/1.0; +https://github.com/rahul4469/seo-master)"

// maxBodyBytes bounds how much of a page or asset we read into memory.
const maxBodyBytes = 5 << 20

// Fetcher retrieves pages and their referenced assets. All requests
// pass through a shared rate limiter so asset probing stays polite.
type Fetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(rps float64, burst int) FetcherOption {
	return func(f *Fetcher) { f.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewFetcher returns a Fetcher with a 30s timeout and a 10 rps limit.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(10), 10),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page is a fetched page plus the transfer facts analyzers need.
type Page struct {
	URL        string
	Body       string
	StatusCode int
	Headers    http.Header
	Size       int
	Elapsed    time.Duration
}

// FetchPage GETs pageURL and returns the body with response metadata.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	return &Page{
		URL:        pageURL,
		Body:       string(body),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Size:       len(body),
		Elapsed:    time.Since(start),
	}, nil
}

// Asset is the result of probing a referenced resource.
type Asset struct {
	URL        string
	StatusCode int
	Size       int
	Body       string
	Headers    http.Header
}

// FetchAsset GETs an asset (script, stylesheet, image) referenced by a
// page. withBody controls whether the content is kept; size probes for
// images don't need it.
func (f *Fetcher) FetchAsset(ctx context.Context, assetURL string, withBody bool) (*Asset, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	asset := &Asset{URL: assetURL, StatusCode: resp.StatusCode, Headers: resp.Header}
	if withBody {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		asset.Body = string(body)
		asset.Size = len(body)
		return asset, nil
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err == nil {
			asset.Size = n
		}
	}
	if asset.Size == 0 {
		n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		asset.Size = int(n)
	}
	return asset, nil
}

// Head issues a HEAD request, falling back to GET when the server
// rejects HEAD. Used by the broken-link probe.
func (f *Fetcher) Head(ctx context.Context, target string) (int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("User-Agent", f.userAgent)
		resp, err := f.client.Do(req)
		if err != nil {
			return 0, err
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return resp.StatusCode, nil
	}
	return resp.StatusCode, nil
}
