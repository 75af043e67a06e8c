package fetch

import (
	"context"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/ziadkadry99/neuromind/internal/apperr"
)

// BrowserFetcher renders pages in headless Chrome before reading the DOM.
// Use it for sites that build their content with JavaScript.
type BrowserFetcher struct {
	opts       Options
	chromePath string
}

// NewBrowserFetcher creates a fetcher that drives a local Chrome. An empty
// chromePath lets chromedp locate the browser.
func NewBrowserFetcher(opts Options, chromePath string) *BrowserFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &BrowserFetcher{opts: opts, chromePath: chromePath}
}

// Fetch navigates to rawURL, waits for the body and returns the rendered
// document HTML.
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := b.opts.Policy.Check(rawURL); err != nil {
		return nil, apperr.NewFetch(rawURL, err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1366, 900),
	)
	if b.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(b.opts.UserAgent))
	}
	if b.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(allocCtx, b.opts.Timeout)
	defer timeoutCancel()

	browserCtx, browserCancel := chromedp.NewContext(timeoutCtx)
	defer browserCancel()

	resp, err := chromedp.RunResponse(browserCtx, chromedp.Navigate(rawURL))
	if err != nil {
		return nil, apperr.NewFetch(rawURL, err)
	}
	if err := checkResponse(rawURL, resp); err != nil {
		return nil, err
	}

	var html, finalURL string
	err = chromedp.Run(browserCtx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, apperr.NewFetch(rawURL, err)
	}
	html = limitHTML(html, b.opts.MaxBytes)
	if finalURL == "" {
		finalURL = rawURL
	}

	return &Page{
		URL:         rawURL,
		FinalURL:    finalURL,
		ContentType: "text/html",
		HTML:        html,
	}, nil
}

// checkResponse rejects a main document that did not load with 200 OK.
// A nil response means the navigation produced no network request.
func checkResponse(rawURL string, resp *network.Response) error {
	if resp == nil || resp.Status == http.StatusOK {
		return nil
	}
	return apperr.NewFetchStatus(rawURL, int(resp.Status))
}

// limitHTML cuts html to at most max bytes without splitting a rune. Zero
// means unlimited.
func limitHTML(html string, max int64) string {
	if max <= 0 || int64(len(html)) <= max {
		return html
	}
	cut := int(max)
	for cut > 0 && !utf8.RuneStart(html[cut]) {
		cut--
	}
	return html[:cut]
}
