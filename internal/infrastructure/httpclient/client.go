// Package httpclient fetches listing pages the way a browser would, optionally
// through an authenticated proxy.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"NoticeDigest/internal/ports"
)

const (
	// BrowserUserAgent is sent with every page request; the sites reject bare clients.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// FetchTimeout bounds a single page fetch.
	FetchTimeout = 10 * time.Second
	// ProxyCheckTimeout bounds the proxy health probe.
	ProxyCheckTimeout = 5 * time.Second

	maxPageBytes = 8 << 20
)

// Options configures a Client.
type Options struct {
	Proxy     *url.URL
	HealthURL string
	Timeout   time.Duration
	UserAgent string
}

// Client implements ports.PageFetcher and ports.ProxyChecker.
type Client struct {
	http      *http.Client
	probe     *http.Client
	proxy     *url.URL
	healthURL string
	userAgent string
}

var (
	_ ports.PageFetcher  = (*Client)(nil)
	_ ports.ProxyChecker = (*Client)(nil)
)

// New builds a client; a nil proxy means direct connections.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = FetchTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = BrowserUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != nil {
		transport.Proxy = http.ProxyURL(opts.Proxy)
	}

	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		probe:     &http.Client{Timeout: ProxyCheckTimeout, Transport: transport},
		proxy:     opts.Proxy,
		healthURL: opts.HealthURL,
		userAgent: userAgent,
	}
}

// ProxyEnabled reports whether requests go through a proxy.
func (c *Client) ProxyEnabled() bool {
	return c.proxy != nil
}

// RedactedProxy is the proxy URL with its password masked, for logging.
func (c *Client) RedactedProxy() string {
	if c.proxy == nil {
		return ""
	}
	return c.proxy.Redacted()
}

// Fetch downloads pageURL and returns its body as text. Any non-200 status is an error.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.get(ctx, c.http, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}

// CheckProxy probes the health URL through the proxy. Without a proxy it is a no-op.
func (c *Client) CheckProxy(ctx context.Context) error {
	if c.proxy == nil {
		return nil
	}
	if c.healthURL == "" {
		return fmt.Errorf("proxy health url is not configured")
	}

	resp, err := c.get(ctx, c.probe, c.healthURL)
	if err != nil {
		return fmt.Errorf("proxy check: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("proxy check: unexpected status %s", resp.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, client *http.Client, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", target, err)
	}
	return resp, nil
}
