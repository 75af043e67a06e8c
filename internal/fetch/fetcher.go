package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/ziadkadry99/neuromind/internal/apperr"
)

// Page is a downloaded HTML document.
type Page struct {
	URL         string
	FinalURL    string
	ContentType string
	HTML        string
}

// IsHTML reports whether the page body should be parsed as markup.
func (p *Page) IsHTML() bool {
	return isHTMLContentType(p.ContentType)
}

// Fetcher downloads a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// Options configures an HTTPFetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// MaxBytes limits how much of the body is read. Zero means unlimited.
	MaxBytes int64
	Policy   Policy
}

// HTTPFetcher fetches pages with a plain GET request.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// NewHTTPFetcher creates a fetcher. A nil client gets a fresh one with the
// configured timeout.
func NewHTTPFetcher(client *http.Client, opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPFetcher{client: client, opts: opts}
}

// Fetch downloads rawURL. Denied URLs, transport failures and non-200
// statuses are returned as apperr fetch errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := f.opts.Policy.Check(rawURL); err != nil {
		return nil, apperr.NewFetch(rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.NewFetch(rawURL, fmt.Errorf("build request: %w", err))
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.NewFetch(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.NewFetchStatus(rawURL, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.opts.MaxBytes > 0 {
		body = io.LimitReader(body, f.opts.MaxBytes)
	}
	decoded, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperr.NewFetch(rawURL, fmt.Errorf("decode body: %w", err))
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, apperr.NewFetch(rawURL, fmt.Errorf("read response body: %w", err))
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{
		URL:         rawURL,
		FinalURL:    finalURL,
		ContentType: resp.Header.Get("Content-Type"),
		HTML:        string(data),
	}, nil
}

// isHTMLContentType reports whether a response looks like a web page.
func isHTMLContentType(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	lower := strings.ToLower(contentType)
	return strings.Contains(lower, "text/html") || strings.Contains(lower, "application/xhtml+xml")
}
